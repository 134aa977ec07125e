package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/pqscan/pkg/domain/model"
	"github.com/m-mizutani/pqscan/pkg/domain/types"
	"github.com/m-mizutani/pqscan/pkg/usecase"
	"github.com/urfave/cli/v3"
)

type Scheduler struct {
	workspaceRoot string
	tickInterval  time.Duration
	concurrency   int64
	policy        string
	maxVulnerable int64
}

func (x *Scheduler) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "workspace-root",
			Usage:       "Directory for per-job workspaces (default: OS temp directory)",
			Category:    "Scheduler",
			Destination: &x.workspaceRoot,
			Sources:     cli.EnvVars("PQSCAN_WORKSPACE_ROOT"),
		},
		&cli.DurationFlag{
			Name:        "tick-interval",
			Usage:       "Interval of the scheduler loop",
			Category:    "Scheduler",
			Value:       usecase.DefaultTickInterval,
			Destination: &x.tickInterval,
			Sources:     cli.EnvVars("PQSCAN_TICK_INTERVAL"),
		},
		&cli.Int64Flag{
			Name:        "concurrency",
			Usage:       "Maximum number of jobs running at the same time",
			Category:    "Scheduler",
			Value:       usecase.DefaultConcurrency,
			Destination: &x.concurrency,
			Sources:     cli.EnvVars("PQSCAN_CONCURRENCY"),
		},
		&cli.StringFlag{
			Name:        "compliance-policy",
			Usage:       "Compliance policy [percentage|vulnerability-count]",
			Category:    "Scheduler",
			Value:       string(types.PolicyPercentage),
			Destination: &x.policy,
			Sources:     cli.EnvVars("PQSCAN_COMPLIANCE_POLICY"),
		},
		&cli.Int64Flag{
			Name:        "max-vulnerable",
			Usage:       "Vulnerable asset count still judged partial by vulnerability-count policy",
			Category:    "Scheduler",
			Value:       int64(model.DefaultCompliancePolicy().MaxVulnerable),
			Destination: &x.maxVulnerable,
			Sources:     cli.EnvVars("PQSCAN_MAX_VULNERABLE"),
		},
	}
}

// Options validates the compliance policy and converts the flags into usecase options.
func (x *Scheduler) Options() ([]usecase.Option, error) {
	policy := model.CompliancePolicy{
		Name:          types.PolicyName(x.policy),
		MaxVulnerable: int(x.maxVulnerable),
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	options := []usecase.Option{
		usecase.WithTickInterval(x.tickInterval),
		usecase.WithConcurrency(x.concurrency),
		usecase.WithCompliancePolicy(policy),
	}
	if x.workspaceRoot != "" {
		options = append(options, usecase.WithWorkspaceRoot(x.workspaceRoot))
	}
	return options, nil
}

func (x *Scheduler) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("WorkspaceRoot", x.workspaceRoot),
		slog.Duration("TickInterval", x.tickInterval),
		slog.Int64("Concurrency", x.concurrency),
		slog.String("Policy", x.policy),
		slog.Int64("MaxVulnerable", x.maxVulnerable),
	)
}
