package usecase_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/pqscan/pkg/domain/interfaces"
	"github.com/m-mizutani/pqscan/pkg/domain/mock"
	"github.com/m-mizutani/pqscan/pkg/domain/model"
	"github.com/m-mizutani/pqscan/pkg/domain/model/semgrep"
	"github.com/m-mizutani/pqscan/pkg/domain/types"
	"github.com/m-mizutani/pqscan/pkg/utils/logging"
)

// clockContext returns a context whose clock advances one second per reading.
func clockContext() context.Context {
	var mu sync.Mutex
	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	return logging.CtxWithTime(context.Background(), func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	})
}

// delegateRepository wraps repo in a mock so that single methods can be overridden.
func delegateRepository(repo interfaces.ScanRepository) *mock.ScanRepositoryMock {
	return &mock.ScanRepositoryMock{
		PutJobFunc:              repo.PutJob,
		GetJobFunc:              repo.GetJob,
		ListJobsFunc:            repo.ListJobs,
		ReplaceFindingsFunc:     repo.ReplaceFindings,
		ListFindingsFunc:        repo.ListFindings,
		ReplaceCryptoAssetsFunc: repo.ReplaceCryptoAssets,
		ListCryptoAssetsFunc:    repo.ListCryptoAssets,
		PutReportFunc:           repo.PutReport,
		ListReportsFunc:         repo.ListReports,
		DeleteScanResultFunc:    repo.DeleteScanResult,
	}
}

type jobState struct {
	status   types.JobStatus
	progress int
}

// recordJobStates records every persisted (status, progress) pair.
func recordJobStates(repo *mock.ScanRepositoryMock) func() []jobState {
	var mu sync.Mutex
	var states []jobState
	put := repo.PutJobFunc
	repo.PutJobFunc = func(ctx context.Context, job *model.ScanJob) error {
		mu.Lock()
		states = append(states, jobState{status: job.Status, progress: job.Progress})
		mu.Unlock()
		return put(ctx, job)
	}
	return func() []jobState {
		mu.Lock()
		defer mu.Unlock()
		return append([]jobState(nil), states...)
	}
}

// checkoutFetcher writes files into the workspace as a clone would.
func checkoutFetcher(files map[string]string) *mock.FetcherMock {
	return &mock.FetcherMock{
		FetchFunc: func(ctx context.Context, input *interfaces.FetchInput) (*interfaces.FetchOutput, error) {
			if err := os.MkdirAll(input.Dir, 0755); err != nil {
				return nil, err
			}
			for rel, content := range files {
				path := filepath.Join(input.Dir, filepath.FromSlash(rel))
				if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
					return nil, err
				}
				if err := os.WriteFile(path, []byte(content), 0644); err != nil {
					return nil, err
				}
			}
			return &interfaces.FetchOutput{Branch: input.Branch, Commit: "0123abcd"}, nil
		},
	}
}

func reportRunner(t *testing.T, output string) *mock.ToolRunnerMock {
	report := gt.R1(semgrep.Parse([]byte(output))).NoError(t)
	return &mock.ToolRunnerMock{
		RunFunc: func(ctx context.Context, tool model.ToolConfig, workspace string) (*semgrep.Report, error) {
			cpy := *report
			return &cpy, nil
		},
	}
}

var semgrepTool = model.ToolConfig{Name: types.ToolSemgrep, Path: "semgrep", Args: []string{"scan", "--config", "auto"}}
