package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pqscan/pkg/domain/interfaces"
	"github.com/m-mizutani/pqscan/pkg/domain/model"
	"github.com/m-mizutani/pqscan/pkg/domain/types"
	"github.com/m-mizutani/pqscan/pkg/utils/errutil"
	"github.com/m-mizutani/pqscan/pkg/utils/logging"
	"github.com/m-mizutani/pqscan/pkg/utils/safe"
)

// Progress checkpoints of the scan pipeline.
const (
	progressFetched  = 10
	progressAnalyzed = 30
	progressIngested = 80
	progressReported = 95
	progressDone     = 100
)

func persistenceError(err error, msg string, options ...goerr.Option) error {
	return goerr.Wrap(fmt.Errorf("%w: %w", types.ErrPersistence, err), msg, options...)
}

func (x *UseCase) workspaceOf(id types.ScanJobID) string {
	root := x.workspaceRoot
	if root == "" {
		root = os.TempDir()
	}
	return filepath.Join(root, "pqscan-"+id.String())
}

// runScanJob drives a running job to a terminal state. The workspace is removed on every
// exit path.
func (x *UseCase) runScanJob(ctx context.Context, job *model.ScanJob) {
	ctx = logging.With(ctx, logging.From(ctx).With("job_id", job.ID))
	workspace := x.workspaceOf(job.ID)
	defer safe.RemoveAll(workspace)

	logging.From(ctx).Info("scan job started", "repo_url", job.RepoURL, "branch", job.Branch)

	if err := x.executeScanJob(ctx, job, workspace); err != nil {
		x.failScanJob(ctx, job, err)
		return
	}

	logging.From(ctx).Info("scan job completed", "fetched_branch", job.FetchedBranch)
}

func (x *UseCase) executeScanJob(ctx context.Context, job *model.ScanJob, workspace string) error {
	repo := x.clients.ScanRepository()

	// Fetch
	fetched, err := x.clients.Fetcher().Fetch(ctx, &interfaces.FetchInput{
		URL:       job.RepoURL,
		Branch:    job.Branch,
		Dir:       workspace,
		InstallID: job.InstallationID,
	})
	if err != nil {
		return err
	}
	job.FetchedBranch = fetched.Branch
	if fetched.FellBack {
		logging.From(ctx).Warn("requested branch not found, scanned default branch",
			"branch", job.Branch,
			"fetched_branch", fetched.Branch,
		)
	}
	if err := x.setProgress(ctx, job, progressFetched); err != nil {
		return err
	}

	// Analyze. A failing tool does not stop the others.
	var findings []*model.Finding
	for _, tool := range job.Tools {
		report, err := x.clients.ToolRunner().Run(ctx, tool, workspace)
		if err != nil {
			errutil.HandleError(ctx, "tool failed, continue without its findings",
				goerr.Wrap(err, "tool failed", goerr.V("tool", tool.Name)))
			continue
		}

		normalized, err := NormalizeFindings(ctx, report, tool.Name)
		if err != nil {
			errutil.HandleError(ctx, "failed to normalize tool output", err)
			continue
		}
		findings = append(findings, normalized...)
	}
	for _, f := range findings {
		f.ScanJobID = job.ID
	}
	if err := x.setProgress(ctx, job, progressAnalyzed); err != nil {
		return err
	}

	// Classify and ingest
	patternAssets, err := ClassifySource(ctx, workspace)
	if err != nil {
		errutil.HandleError(ctx, "source pattern classification failed", err)
	}
	assets := MergeAssets(ClassifyFindings(findings), patternAssets)
	for _, a := range assets {
		a.ScanJobID = job.ID
	}

	if err := repo.ReplaceFindings(ctx, job.ID, findings); err != nil {
		return persistenceError(err, "failed to save findings", goerr.V("jobID", job.ID))
	}
	if err := repo.ReplaceCryptoAssets(ctx, job.ID, assets); err != nil {
		return persistenceError(err, "failed to save crypto assets", goerr.V("jobID", job.ID))
	}
	if err := x.setProgress(ctx, job, progressIngested); err != nil {
		return err
	}

	// Report
	subject := CBOMSubject{RepoURL: job.RepoURL, Branch: fetched.Branch, Commit: fetched.Commit}
	report, err := x.newReport(job.ID, types.ReportSourceLocal, subject, assets, logging.CtxTime(ctx))
	if err != nil {
		return err
	}
	report.ID = types.LocalReportID(job.ID)
	if err := repo.PutReport(ctx, report); err != nil {
		return persistenceError(err, "failed to save report", goerr.V("jobID", job.ID))
	}
	if err := x.setProgress(ctx, job, progressReported); err != nil {
		return err
	}

	// Complete
	job.Status = types.JobStatusCompleted
	job.Progress = progressDone
	job.CompletedAt = logging.CtxTime(ctx)
	if err := repo.PutJob(ctx, job); err != nil {
		return persistenceError(err, "failed to complete job", goerr.V("jobID", job.ID))
	}

	if err := x.exportScanRecord(ctx, job, len(findings), assets, report.Compliance); err != nil {
		errutil.HandleError(ctx, "failed to export scan record", err)
	}

	return nil
}

// setProgress persists a checkpoint. Progress never moves backwards.
func (x *UseCase) setProgress(ctx context.Context, job *model.ScanJob, progress int) error {
	if progress <= job.Progress {
		return nil
	}
	job.Progress = progress

	if err := x.clients.ScanRepository().PutJob(ctx, job); err != nil {
		return persistenceError(err, "failed to update job progress",
			goerr.V("jobID", job.ID),
			goerr.V("progress", progress),
		)
	}
	return nil
}

// failScanJob rolls back results written by this run and records the failure. Progress is
// left where the job stopped.
func (x *UseCase) failScanJob(ctx context.Context, job *model.ScanJob, cause error) {
	errutil.HandleError(ctx, "scan job failed", cause)

	repo := x.clients.ScanRepository()
	if err := repo.DeleteScanResult(ctx, job.ID); err != nil {
		errutil.HandleError(ctx, "failed to roll back scan result", err)
	}

	job.Status = types.JobStatusFailed
	job.ErrorMessage = cause.Error()
	job.CompletedAt = logging.CtxTime(ctx)
	if err := repo.PutJob(ctx, job); err != nil {
		errutil.HandleError(ctx, "failed to record job failure", err)
	}
}
