package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/pqscan/pkg/domain/model"
	"github.com/m-mizutani/pqscan/pkg/domain/types"
	"github.com/m-mizutani/pqscan/pkg/infra/tool"
	"github.com/urfave/cli/v3"
)

// Tools configures which static-analysis tools run for jobs submitted without an explicit
// tool list. A tool with an empty path is disabled.
type Tools struct {
	semgrepPath    string
	semgrepConfig  string
	opengrepPath   string
	cryptoscanPath string
	timeout        time.Duration
	maxOutput      int64
}

func (x *Tools) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "semgrep-path",
			Usage:       "Path to semgrep binary (empty to disable)",
			Category:    "Tools",
			Value:       "semgrep",
			Destination: &x.semgrepPath,
			Sources:     cli.EnvVars("PQSCAN_SEMGREP_PATH"),
		},
		&cli.StringFlag{
			Name:        "semgrep-config",
			Usage:       "Rule config passed to semgrep and opengrep with --config",
			Category:    "Tools",
			Value:       "p/cryptography",
			Destination: &x.semgrepConfig,
			Sources:     cli.EnvVars("PQSCAN_SEMGREP_CONFIG"),
		},
		&cli.StringFlag{
			Name:        "opengrep-path",
			Usage:       "Path to opengrep binary (empty to disable)",
			Category:    "Tools",
			Destination: &x.opengrepPath,
			Sources:     cli.EnvVars("PQSCAN_OPENGREP_PATH"),
		},
		&cli.StringFlag{
			Name:        "cryptoscan-path",
			Usage:       "Path to cryptoscan binary (empty to disable)",
			Category:    "Tools",
			Destination: &x.cryptoscanPath,
			Sources:     cli.EnvVars("PQSCAN_CRYPTOSCAN_PATH"),
		},
		&cli.DurationFlag{
			Name:        "tool-timeout",
			Usage:       "Hard timeout of one tool execution",
			Category:    "Tools",
			Value:       tool.DefaultTimeout,
			Destination: &x.timeout,
			Sources:     cli.EnvVars("PQSCAN_TOOL_TIMEOUT"),
		},
		&cli.Int64Flag{
			Name:        "tool-max-output",
			Usage:       "Maximum bytes of tool output",
			Category:    "Tools",
			Value:       tool.DefaultMaxOutput,
			Destination: &x.maxOutput,
			Sources:     cli.EnvVars("PQSCAN_TOOL_MAX_OUTPUT"),
		},
	}
}

// Configs returns the enabled tools in a fixed order: semgrep, opengrep, cryptoscan.
func (x *Tools) Configs() []model.ToolConfig {
	var configs []model.ToolConfig
	ruleArgs := func() []string {
		if x.semgrepConfig == "" {
			return nil
		}
		return []string{"scan", "--config", x.semgrepConfig}
	}

	if x.semgrepPath != "" {
		configs = append(configs, model.ToolConfig{
			Name: types.ToolSemgrep,
			Path: x.semgrepPath,
			Args: ruleArgs(),
		})
	}
	if x.opengrepPath != "" {
		configs = append(configs, model.ToolConfig{
			Name: types.ToolOpengrep,
			Path: x.opengrepPath,
			Args: ruleArgs(),
		})
	}
	if x.cryptoscanPath != "" {
		configs = append(configs, model.ToolConfig{
			Name: types.ToolCryptoScan,
			Path: x.cryptoscanPath,
		})
	}
	return configs
}

func (x *Tools) NewRunner() *tool.Client {
	return tool.New(
		tool.WithTimeout(x.timeout),
		tool.WithMaxOutput(int(x.maxOutput)),
	)
}

func (x *Tools) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("SemgrepPath", x.semgrepPath),
		slog.String("SemgrepConfig", x.semgrepConfig),
		slog.String("OpengrepPath", x.opengrepPath),
		slog.String("CryptoscanPath", x.cryptoscanPath),
		slog.Duration("Timeout", x.timeout),
		slog.Int64("MaxOutput", x.maxOutput),
	)
}
