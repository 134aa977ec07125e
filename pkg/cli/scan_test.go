package cli_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/pqscan/pkg/cli"
	"github.com/m-mizutani/pqscan/pkg/domain/interfaces"
	"github.com/m-mizutani/pqscan/pkg/domain/mock"
	"github.com/m-mizutani/pqscan/pkg/domain/model"
	"github.com/m-mizutani/pqscan/pkg/domain/model/semgrep"
	"github.com/m-mizutani/pqscan/pkg/domain/types"
	"github.com/m-mizutani/pqscan/pkg/infra"
	"github.com/m-mizutani/pqscan/pkg/usecase"
)

func TestRunScan(t *testing.T) {
	fetcher := &mock.FetcherMock{
		FetchFunc: func(ctx context.Context, input *interfaces.FetchInput) (*interfaces.FetchOutput, error) {
			gt.NoError(t, os.MkdirAll(input.Dir, 0755))
			src := "key, err := rsa.GenerateKey(rand.Reader, 2048)\n"
			gt.NoError(t, os.WriteFile(filepath.Join(input.Dir, "keygen.go"), []byte(src), 0644))
			return &interfaces.FetchOutput{Branch: input.Branch}, nil
		},
	}
	runner := &mock.ToolRunnerMock{
		RunFunc: func(ctx context.Context, tool model.ToolConfig, workspace string) (*semgrep.Report, error) {
			return &semgrep.Report{}, nil
		},
	}
	clients := infra.New(infra.WithFetcher(fetcher), infra.WithToolRunner(runner))
	uc := usecase.New(clients,
		usecase.WithWorkspaceRoot(t.TempDir()),
		usecase.WithTickInterval(10*time.Millisecond),
		usecase.WithDefaultTools(model.ToolConfig{Name: types.ToolSemgrep, Path: "semgrep"}),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result := gt.R1(cli.RunScanForTest(ctx, uc, clients, &model.ScanJob{
		RepoURL: "https://github.com/owner/repo.git",
		Branch:  "main",
	})).NoError(t)

	gt.V(t, result.Job.Status).Equal(types.JobStatusCompleted)
	gt.V(t, result.Job.Progress).Equal(100)
	gt.A(t, result.Reports).Length(1)
	gt.V(t, result.Reports[0].Source).Equal(types.ReportSourceLocal)
	gt.V(t, result.Reports[0].Compliance.Vulnerable).Equal(1)
	gt.V(t, result.Reports[0].Compliance.Verdict).Equal(types.VerdictNotCompliant)
	gt.A(t, runner.RunCalls()).Length(1)
}
