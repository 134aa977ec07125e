package errutil

import (
	"context"
	"errors"
	"fmt"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pqscan/pkg/utils/logging"
)

// HandleError logs err and reports it to Sentry. Cancellation is expected on shutdown, so it
// is only logged as a warning.
func HandleError(ctx context.Context, msg string, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, context.Canceled) {
		logging.From(ctx).Warn(msg, "error", err)
		return
	}

	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		goErr := goerr.Unwrap(err)
		if goErr == nil {
			return
		}
		for k, v := range goErr.Values() {
			scope.SetExtra(fmt.Sprintf("%v", k), v)
		}
		// group events of one scan job together
		if jobID, ok := goErr.Values()["jobID"]; ok {
			scope.SetTag("job_id", fmt.Sprintf("%v", jobID))
		}
	})
	evID := hub.CaptureException(err)

	logging.From(ctx).Error(msg,
		"error", err,
		"sentry.EventID", evID,
	)
}
