package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pqscan/pkg/domain/interfaces"
	"github.com/m-mizutani/pqscan/pkg/domain/types"
)

// New creates a new Firestore-based repository
func New(ctx context.Context, projectID types.GoogleProjectID, databaseID types.FirestoreDatabaseID) (interfaces.ScanRepository, error) {
	var client *firestore.Client
	var err error

	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID.String(), databaseID.String())
	} else {
		client, err = firestore.NewClient(ctx, projectID.String())
	}

	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID),
		)
	}

	return &scanRepository{
		client: client,
	}, nil
}
