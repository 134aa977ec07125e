package interfaces

import (
	"context"

	"github.com/m-mizutani/pqscan/pkg/domain/model"
	"github.com/m-mizutani/pqscan/pkg/domain/types"
)

//go:generate moq -out ../mock/scan_repository_mock.go -pkg mock . ScanRepository

// ScanRepository persists scan jobs and their results. Finding and asset sets are replaced as
// a whole; there is no incremental write.
type ScanRepository interface {
	// Job operations
	PutJob(ctx context.Context, job *model.ScanJob) error
	GetJob(ctx context.Context, id types.ScanJobID) (*model.ScanJob, error)
	// ListJobs returns jobs ordered by CreatedAt, oldest first. An empty status lists all jobs.
	ListJobs(ctx context.Context, status types.JobStatus) ([]*model.ScanJob, error)

	// Result operations
	ReplaceFindings(ctx context.Context, id types.ScanJobID, findings []*model.Finding) error
	ListFindings(ctx context.Context, id types.ScanJobID) ([]*model.Finding, error)
	ReplaceCryptoAssets(ctx context.Context, id types.ScanJobID, assets []*model.CryptoAsset) error
	ListCryptoAssets(ctx context.Context, id types.ScanJobID) ([]*model.CryptoAsset, error)

	// Report operations
	PutReport(ctx context.Context, report *model.Report) error
	ListReports(ctx context.Context, id types.ScanJobID) ([]*model.Report, error)

	// DeleteScanResult removes findings, assets and local reports of a job. External reports
	// are kept: they belong to an independent path.
	DeleteScanResult(ctx context.Context, id types.ScanJobID) error
}
