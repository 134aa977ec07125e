package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pqscan/pkg/domain/model"
	"github.com/m-mizutani/pqscan/pkg/domain/types"
	"github.com/m-mizutani/pqscan/pkg/utils/errutil"
	"github.com/m-mizutani/pqscan/pkg/utils/logging"
)

// Submit validates and persists a new pending job. When the job carries a scanner
// integration, the external scan is triggered as well; a trigger failure is reported but
// does not reject the job.
func (x *UseCase) Submit(ctx context.Context, job *model.ScanJob) (types.ScanJobID, error) {
	if job == nil {
		return "", goerr.Wrap(types.ErrValidationFailed, "job is nil")
	}
	if err := job.Validate(); err != nil {
		return "", err
	}

	newJob := job.Copy()
	newJob.ID = types.NewScanJobID()
	newJob.Status = types.JobStatusPending
	newJob.Progress = 0
	newJob.FetchedBranch = ""
	newJob.ErrorMessage = ""
	newJob.CreatedAt = logging.CtxTime(ctx)
	newJob.StartedAt = time.Time{}
	newJob.CompletedAt = time.Time{}
	if len(newJob.Tools) == 0 {
		for _, tool := range x.defaultTools {
			newJob.Tools = append(newJob.Tools, model.ToolConfig{
				Name: tool.Name,
				Path: tool.Path,
				Args: append([]string(nil), tool.Args...),
			})
		}
	}

	if err := x.clients.ScanRepository().PutJob(ctx, newJob); err != nil {
		return "", persistenceError(err, "failed to save job", goerr.V("repo_url", newJob.RepoURL))
	}

	logging.From(ctx).Info("scan job submitted",
		"job_id", newJob.ID,
		"repo_url", newJob.RepoURL,
		"branch", newJob.Branch,
	)

	if newJob.Integration != nil {
		if _, err := x.TriggerExternalScan(ctx, newJob.ID, newJob.RepoURL, newJob.Branch, *newJob.Integration); err != nil {
			errutil.HandleError(ctx, "failed to trigger external scan", err)
		}
	}

	return newJob.ID, nil
}

// Get returns the persisted job.
func (x *UseCase) Get(ctx context.Context, id types.ScanJobID) (*model.ScanJob, error) {
	job, err := x.clients.ScanRepository().GetJob(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get job", goerr.V("jobID", id))
	}
	return job, nil
}

// List returns persisted jobs with the given status, oldest first. An empty status lists
// every job.
func (x *UseCase) List(ctx context.Context, status types.JobStatus) ([]*model.ScanJob, error) {
	jobs, err := x.clients.ScanRepository().ListJobs(ctx, status)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list jobs", goerr.V("status", status))
	}
	return jobs, nil
}

// Run dispatches pending jobs on every tick until ctx is cancelled, then waits for the jobs
// already running. Running jobs are never cancelled. Jobs left running by a previous
// process are marked failed before the first dispatch.
func (x *UseCase) Run(ctx context.Context) error {
	if err := x.recoverInterruptedJobs(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(x.tickInterval)
	defer ticker.Stop()

	logging.From(ctx).Info("scheduler started",
		"tick_interval", x.tickInterval,
		"concurrency", x.concurrency,
	)

	for {
		x.dispatch(ctx)

		select {
		case <-ctx.Done():
			logging.From(ctx).Info("scheduler stopping, waiting for running jobs")
			x.inFlight.Wait()
			return nil
		case <-ticker.C:
		}
	}
}

// recoverInterruptedJobs fails every job persisted as running. Only one scheduler may own
// a repository, so a running job seen at startup lost its worker.
func (x *UseCase) recoverInterruptedJobs(ctx context.Context) error {
	jobs, err := x.clients.ScanRepository().ListJobs(ctx, types.JobStatusRunning)
	if err != nil {
		return persistenceError(err, "failed to list running jobs")
	}

	for _, job := range jobs {
		logging.From(ctx).Warn("recovering interrupted job", "job_id", job.ID, "started_at", job.StartedAt)
		x.failScanJob(ctx, job, goerr.New("job interrupted by scheduler restart", goerr.V("jobID", job.ID)))
	}
	return nil
}

// dispatch starts as many pending jobs as the gate allows, oldest first.
func (x *UseCase) dispatch(ctx context.Context) {
	jobs, err := x.clients.ScanRepository().ListJobs(ctx, types.JobStatusPending)
	if err != nil {
		errutil.HandleError(ctx, "failed to list pending jobs", err)
		return
	}

	for _, job := range jobs {
		if ctx.Err() != nil {
			return
		}
		if !x.gate.TryAcquire(1) {
			return
		}

		job.Status = types.JobStatusRunning
		job.Progress = 0
		job.StartedAt = logging.CtxTime(ctx)
		if err := x.clients.ScanRepository().PutJob(ctx, job); err != nil {
			x.gate.Release(1)
			errutil.HandleError(ctx, "failed to start job", goerr.Wrap(err, "failed to mark job running", goerr.V("jobID", job.ID)))
			continue
		}

		x.inFlight.Add(1)
		go func(jobCtx context.Context, job *model.ScanJob) {
			defer x.inFlight.Done()
			defer x.gate.Release(1)
			x.runScanJob(jobCtx, job)
		}(logging.Detach(ctx), job)
	}
}

// Wait blocks until the job reaches a terminal state and returns it.
func (x *UseCase) Wait(ctx context.Context, id types.ScanJobID) (*model.ScanJob, error) {
	ticker := time.NewTicker(x.tickInterval)
	defer ticker.Stop()

	for {
		job, err := x.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if job.Status.Terminal() {
			return job, nil
		}

		select {
		case <-ctx.Done():
			return nil, goerr.Wrap(ctx.Err(), "interrupted while waiting for job", goerr.V("jobID", id))
		case <-ticker.C:
		}
	}
}
