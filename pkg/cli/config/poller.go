package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pqscan/pkg/domain/model"
	"github.com/m-mizutani/pqscan/pkg/domain/types"
	"github.com/m-mizutani/pqscan/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Poller configures the external scanner integration. The integration is attached to every
// submitted job when a scan URL is set.
type Poller struct {
	name       string
	scanURL    string
	statusURL  string
	apiKey     types.IntegrationAPIKey `masq:"secret"`
	delay      time.Duration
	interval   time.Duration
	maxAttempt int64
}

func (x *Poller) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "scanner-name",
			Usage:       "Name of the external scanner",
			Category:    "External Scanner",
			Value:       "external",
			Destination: &x.name,
			Sources:     cli.EnvVars("PQSCAN_SCANNER_NAME"),
		},
		&cli.StringFlag{
			Name:        "scanner-scan-url",
			Usage:       "URL to trigger an external scan",
			Category:    "External Scanner",
			Destination: &x.scanURL,
			Sources:     cli.EnvVars("PQSCAN_SCANNER_SCAN_URL"),
		},
		&cli.StringFlag{
			Name:        "scanner-status-url",
			Usage:       "Base URL to poll an external scan status",
			Category:    "External Scanner",
			Destination: &x.statusURL,
			Sources:     cli.EnvVars("PQSCAN_SCANNER_STATUS_URL"),
		},
		&cli.StringFlag{
			Name:        "scanner-api-key",
			Usage:       "API key of the external scanner",
			Category:    "External Scanner",
			Destination: (*string)(&x.apiKey),
			Sources:     cli.EnvVars("PQSCAN_SCANNER_API_KEY"),
		},
		&cli.DurationFlag{
			Name:        "poll-delay",
			Usage:       "Delay before the first status poll",
			Category:    "External Scanner",
			Value:       usecase.DefaultPollDelay,
			Destination: &x.delay,
			Sources:     cli.EnvVars("PQSCAN_POLL_DELAY"),
		},
		&cli.DurationFlag{
			Name:        "poll-interval",
			Usage:       "Interval between status polls",
			Category:    "External Scanner",
			Value:       usecase.DefaultPollInterval,
			Destination: &x.interval,
			Sources:     cli.EnvVars("PQSCAN_POLL_INTERVAL"),
		},
		&cli.Int64Flag{
			Name:        "poll-max-attempt",
			Usage:       "Maximum number of status polls",
			Category:    "External Scanner",
			Value:       usecase.DefaultPollMaxAttempt,
			Destination: &x.maxAttempt,
			Sources:     cli.EnvVars("PQSCAN_POLL_MAX_ATTEMPT"),
		},
	}
}

func (x *Poller) Enabled() bool {
	return x.scanURL != ""
}

// Integration returns nil without error when no scan URL is set.
func (x *Poller) Integration() (*model.ScannerIntegration, error) {
	if !x.Enabled() {
		return nil, nil
	}

	integration := &model.ScannerIntegration{
		Name:      x.name,
		ScanURL:   x.scanURL,
		StatusURL: x.statusURL,
		APIKey:    x.apiKey,
	}
	if err := integration.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid external scanner configuration")
	}
	return integration, nil
}

func (x *Poller) Options() []usecase.Option {
	return []usecase.Option{
		usecase.WithPolling(x.delay, x.interval, int(x.maxAttempt)),
	}
}

func (x *Poller) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("Name", x.name),
		slog.String("ScanURL", x.scanURL),
		slog.String("StatusURL", x.statusURL),
		slog.Int("APIKey.len", len(x.apiKey)),
		slog.Duration("Delay", x.delay),
		slog.Duration("Interval", x.interval),
		slog.Int64("MaxAttempt", x.maxAttempt),
	)
}
