package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/pqscan/pkg/domain/model"
	"github.com/m-mizutani/pqscan/pkg/domain/types"
	"github.com/m-mizutani/pqscan/pkg/repository"
	"github.com/m-mizutani/pqscan/pkg/repository/memory"
	"github.com/m-mizutani/pqscan/pkg/repository/testhelper"
)

func TestMemoryScanRepository(t *testing.T) {
	repo := memory.New()
	testhelper.TestAll(t, repo)
}

func TestResultsRequireJob(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()
	id := types.NewScanJobID()

	err := repo.ReplaceFindings(ctx, id, []*model.Finding{{ScanJobID: id}})
	gt.True(t, errors.Is(err, repository.ErrNotFound))

	err = repo.PutReport(ctx, &model.Report{ID: types.NewReportID(), ScanJobID: id})
	gt.True(t, errors.Is(err, repository.ErrNotFound))

	err = repo.PutJob(ctx, &model.ScanJob{})
	gt.True(t, errors.Is(err, repository.ErrInvalidInput))
}
