package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pqscan/pkg/domain/model"
	"github.com/m-mizutani/pqscan/pkg/domain/model/semgrep"
	"github.com/m-mizutani/pqscan/pkg/domain/types"
	"github.com/m-mizutani/pqscan/pkg/utils/errutil"
	"github.com/m-mizutani/pqscan/pkg/utils/logging"
	"github.com/m-mizutani/pqscan/pkg/utils/safe"
)

const (
	externalScanTool    = "both"
	maxIntegrationBody  = 10 * 1024 * 1024
	errorBodyPreviewLen = 512
)

var (
	errExternalScanPending = errors.New("external scan is not finished")
	errExternalScanFailed  = errors.New("external scan failed")
)

// TriggerExternalScan asks a third-party scanner to scan the repository and starts polling
// for its result in the background. The poller outlives ctx and never changes the local job.
func (x *UseCase) TriggerExternalScan(ctx context.Context, jobID types.ScanJobID, repoURL string, branch types.BranchName, integration model.ScannerIntegration) (types.ExternalScanID, error) {
	if err := integration.Validate(); err != nil {
		return "", err
	}

	body, err := json.Marshal(&model.ExternalScanRequest{
		RepoURL: repoURL,
		Tool:    externalScanTool,
		Branch:  branch.String(),
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to marshal external scan request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, integration.ScanURL, bytes.NewReader(body))
	if err != nil {
		return "", goerr.Wrap(types.ErrIntegration, "failed to create external scan request",
			goerr.V("scan_url", integration.ScanURL),
			goerr.V("error", err.Error()),
		)
	}
	req.Header.Set("Content-Type", "application/json")
	setAuthorization(req, integration.APIKey)

	var ack model.ExternalScanAck
	if err := x.doIntegrationRequest(req, &ack); err != nil {
		return "", goerr.Wrap(err, "failed to trigger external scan", goerr.V("integration", integration.Name))
	}
	if ack.Status != types.ExternalScanQueued || ack.ID == "" {
		return "", goerr.Wrap(types.ErrIntegration, "unexpected external scan acknowledgement",
			goerr.V("integration", integration.Name),
			goerr.V("status", ack.Status),
			goerr.V("id", ack.ID),
		)
	}

	handle := &model.ExternalScanHandle{
		ScanJobID:   jobID,
		ExternalID:  ack.ID,
		StatusURL:   strings.TrimSuffix(integration.StatusURL, "/") + "/" + url.PathEscape(ack.ID.String()),
		Integration: integration,
	}

	logging.From(ctx).Info("external scan queued",
		"job_id", jobID,
		"integration", integration.Name,
		"external_id", ack.ID,
	)

	pollCtx := logging.With(logging.Detach(ctx), logging.From(ctx).With(
		"job_id", jobID,
		"external_id", ack.ID,
	))
	x.pollers.Add(1)
	go func() {
		defer x.pollers.Done()
		x.pollExternalScan(pollCtx, handle)
	}()

	return ack.ID, nil
}

// WaitPollers blocks until every external scan poller has stopped.
func (x *UseCase) WaitPollers() {
	x.pollers.Wait()
}

func setAuthorization(req *http.Request, key types.IntegrationAPIKey) {
	if key != "" {
		req.Header.Set("Authorization", "Bearer "+string(key))
	}
}

func (x *UseCase) doIntegrationRequest(req *http.Request, v any) error {
	resp, err := x.clients.HTTPClient().Do(req)
	if err != nil {
		return goerr.Wrap(types.ErrIntegration, "integration request failed",
			goerr.V("url", req.URL.String()),
			goerr.V("error", err.Error()),
		)
	}
	defer safe.Close(resp.Body)

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxIntegrationBody))
	if err != nil {
		return goerr.Wrap(types.ErrIntegration, "failed to read integration response",
			goerr.V("url", req.URL.String()),
			goerr.V("error", err.Error()),
		)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		preview := string(data)
		if len(preview) > errorBodyPreviewLen {
			preview = preview[:errorBodyPreviewLen]
		}
		return goerr.Wrap(types.ErrIntegration, "integration returned error status",
			goerr.V("url", req.URL.String()),
			goerr.V("status", resp.StatusCode),
			goerr.V("body", preview),
		)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return goerr.Wrap(types.ErrIntegration, "failed to decode integration response",
			goerr.V("url", req.URL.String()),
			goerr.V("error", err.Error()),
		)
	}
	return nil
}

// pollExternalScan polls the status endpoint at a fixed interval until the scan finishes or
// the attempts run out. A completed scan is ingested exactly once.
func (x *UseCase) pollExternalScan(ctx context.Context, handle *model.ExternalScanHandle) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(x.pollDelay):
	}

	attempt := 0
	var state model.ExternalScanState
	operation := func() error {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, handle.StatusURL, nil)
		if err != nil {
			return backoff.Permanent(goerr.Wrap(err, "failed to create status request"))
		}
		setAuthorization(req, handle.Integration.APIKey)

		state = model.ExternalScanState{}
		if err := x.doIntegrationRequest(req, &state); err != nil {
			logging.From(ctx).Warn("external scan status request failed", "attempt", attempt, "error", err)
			return err
		}

		switch state.Status {
		case types.ExternalScanCompleted:
			return nil
		case types.ExternalScanFailed:
			return backoff.Permanent(errExternalScanFailed)
		default:
			logging.From(ctx).Debug("external scan in progress", "attempt", attempt, "status", state.Status)
			return errExternalScanPending
		}
	}

	var b backoff.BackOff = backoff.NewConstantBackOff(x.pollInterval)
	if x.pollMaxAttempt > 0 {
		b = backoff.WithMaxRetries(b, uint64(x.pollMaxAttempt-1))
	}

	err := backoff.Retry(operation, backoff.WithContext(b, ctx))
	switch {
	case err == nil:
		if err := x.ingestExternalScan(ctx, handle, &state); err != nil {
			errutil.HandleError(ctx, "failed to ingest external scan result", err)
		}

	case errors.Is(err, errExternalScanFailed):
		logging.From(ctx).Warn("external scan failed", "error_message", state.ErrorMessage)

	default:
		logging.From(ctx).Warn("external scan polling timed out",
			"attempts", attempt,
			"last_error", err,
		)
	}
}

func (x *UseCase) ingestExternalScan(ctx context.Context, handle *model.ExternalScanHandle, state *model.ExternalScanState) error {
	if state.SemgrepOutput == "" {
		return goerr.Wrap(types.ErrIntegration, "completed external scan has no output")
	}

	report, err := semgrep.Parse([]byte(state.SemgrepOutput))
	if err != nil {
		return goerr.Wrap(fmt.Errorf("%w: %w", types.ErrIntegration, err), "failed to parse external scan output")
	}

	findings, err := NormalizeFindings(ctx, report, types.ToolSemgrep)
	if err != nil {
		return err
	}
	assets := ClassifyFindings(findings)
	for _, a := range assets {
		a.ScanJobID = handle.ScanJobID
	}

	rep, err := x.newReport(handle.ScanJobID, types.ReportSourceExternal, CBOMSubject{}, assets, logging.CtxTime(ctx))
	if err != nil {
		return err
	}
	rep.ExternalID = handle.ExternalID

	if err := x.clients.ScanRepository().PutReport(ctx, rep); err != nil {
		return persistenceError(err, "failed to save external report", goerr.V("jobID", handle.ScanJobID))
	}

	logging.From(ctx).Info("external scan ingested",
		"finding_count", len(findings),
		"score", rep.Compliance.Score,
		"verdict", rep.Compliance.Verdict,
	)
	return nil
}
