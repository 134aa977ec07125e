package interfaces

//go:generate moq -out ../mock/usecase.go -pkg mock . UseCase

import (
	"context"

	"github.com/m-mizutani/pqscan/pkg/domain/model"
	"github.com/m-mizutani/pqscan/pkg/domain/types"
)

// UseCase is the surface the HTTP controller and the CLI depend on.
type UseCase interface {
	Submit(ctx context.Context, job *model.ScanJob) (types.ScanJobID, error)
	Get(ctx context.Context, id types.ScanJobID) (*model.ScanJob, error)
	List(ctx context.Context, status types.JobStatus) ([]*model.ScanJob, error)
}
