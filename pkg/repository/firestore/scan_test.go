package firestore_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/pqscan/pkg/repository/firestore"
	"github.com/m-mizutani/pqscan/pkg/repository/testhelper"
	"github.com/m-mizutani/pqscan/pkg/utils/testutil"
)

func TestFirestoreScanRepository(t *testing.T) {
	projectID, databaseID := testutil.FirestoreOrSkip(t)

	ctx := context.Background()
	repo := gt.R1(firestore.New(ctx, projectID, databaseID)).NoError(t)

	testhelper.TestAll(t, repo)
}
