package usecase

import (
	"context"

	"github.com/m-mizutani/pqscan/pkg/domain/model"
	"github.com/m-mizutani/pqscan/pkg/domain/types"
)

// Export unexported functions for testing
var (
	NormalizeSeverityForTest           = normalizeSeverity
	NormalizeCategoryForTest           = normalizeCategory
	CreateOrUpdateBigQueryTableForTest = createOrUpdateBigQueryTable
)

const (
	RecommendRSAMigrationForTest   = recommendRSAMigration
	RecommendECDSAMigrationForTest = recommendECDSAMigration
	RecommendPQCMigrationForTest   = recommendPQCMigration
)

func (x *UseCase) DispatchForTest(ctx context.Context) {
	x.dispatch(ctx)
}

func (x *UseCase) RunScanJobForTest(ctx context.Context, job *model.ScanJob) {
	x.runScanJob(ctx, job)
}

func (x *UseCase) WaitInFlightForTest() {
	x.inFlight.Wait()
}

func (x *UseCase) WorkspaceForTest(id types.ScanJobID) string {
	return x.workspaceOf(id)
}
