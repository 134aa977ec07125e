package cli

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gots/slice"
	"github.com/m-mizutani/pqscan/pkg/cli/config"
	"github.com/m-mizutani/pqscan/pkg/domain/model"
	"github.com/m-mizutani/pqscan/pkg/domain/types"
	"github.com/m-mizutani/pqscan/pkg/infra"
	"github.com/m-mizutani/pqscan/pkg/usecase"
	"github.com/m-mizutani/pqscan/pkg/utils/logging"
	"github.com/m-mizutani/pqscan/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

type scanOutput struct {
	Job     *model.ScanJob  `json:"job"`
	Reports []*model.Report `json:"reports"`
}

func scanCommand() *cli.Command {
	var (
		target scanTarget
		dir    string
		output string

		scheduler config.Scheduler
		tools     config.Tools
		poller    config.Poller
		githubApp config.GitHubApp
		bigQuery  config.BigQuery
	)

	return &cli.Command{
		Name:    "scan",
		Aliases: []string{"sc"},
		Usage:   "Scan one repository and print the compliance report",
		Flags: slice.Flatten([]cli.Flag{
			&cli.StringFlag{
				Name:        "repo-url",
				Aliases:     []string{"u"},
				Usage:       "Repository URL to scan (auto-detect from git if not specified)",
				Sources:     cli.EnvVars("PQSCAN_REPO_URL"),
				Destination: &target.RepoURL,
			},
			&cli.StringFlag{
				Name:        "branch",
				Aliases:     []string{"b"},
				Usage:       "Branch to scan (default branch of the repository if not found)",
				Sources:     cli.EnvVars("PQSCAN_BRANCH"),
				Destination: (*string)(&target.Branch),
			},
			&cli.StringFlag{
				Name:        "dir",
				Aliases:     []string{"d"},
				Usage:       "Local git repository used to detect repository URL and branch",
				Value:       ".",
				Destination: &dir,
			},
			&cli.StringFlag{
				Name:        "output",
				Usage:       "Output file of the scan result [-|<file>]",
				Value:       "-",
				Destination: &output,
			},
		},
			scheduler.Flags(),
			tools.Flags(),
			poller.Flags(),
			githubApp.Flags(),
			bigQuery.Flags(),
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			if target.RepoURL == "" {
				if err := detectScanTarget(dir, &target); err != nil {
					return err
				}
			}

			logging.Default().Info("Starting scan",
				slog.String("repo_url", target.RepoURL),
				slog.Any("branch", target.Branch),
				slog.Any("scheduler", &scheduler),
				slog.Any("tools", &tools),
				slog.Any("poller", &poller),
				slog.Any("bigquery", &bigQuery),
			)

			infraOptions := []infra.Option{
				infra.WithToolRunner(tools.NewRunner()),
			}
			if ghApp, err := githubApp.New(); err != nil {
				return err
			} else if ghApp != nil {
				infraOptions = append(infraOptions, infra.WithGitHubApp(ghApp))
			}
			if bqClient, err := bigQuery.NewClient(ctx); err != nil {
				return err
			} else if bqClient != nil {
				infraOptions = append(infraOptions, infra.WithBigQuery(bqClient))
			}
			clients := infra.New(infraOptions...)

			ucOptions, err := scheduler.Options()
			if err != nil {
				return err
			}
			ucOptions = append(ucOptions, poller.Options()...)
			ucOptions = append(ucOptions, usecase.WithDefaultTools(tools.Configs()...))
			uc := usecase.New(clients, ucOptions...)

			integration, err := poller.Integration()
			if err != nil {
				return err
			}

			result, err := runScan(ctx, uc, clients, &model.ScanJob{
				RepoURL:     target.RepoURL,
				Branch:      target.Branch,
				Integration: integration,
			})
			if err != nil {
				return err
			}

			w := io.Writer(os.Stdout)
			if output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return goerr.Wrap(err, "failed to create output file", goerr.V("output", output))
				}
				defer safe.Close(f)
				w = f
			}

			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return goerr.Wrap(err, "failed to write scan result")
			}

			if result.Job.Status == types.JobStatusFailed {
				return goerr.New("scan job failed",
					goerr.V("jobID", result.Job.ID),
					goerr.V("error", result.Job.ErrorMessage),
				)
			}
			return nil
		},
	}
}

// runScan submits one job, runs the scheduler until the job is terminal and collects its
// reports. External scan reports are included after their pollers finish.
func runScan(ctx context.Context, uc *usecase.UseCase, clients *infra.Clients, job *model.ScanJob) (*scanOutput, error) {
	id, err := uc.Submit(ctx, job)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- uc.Run(runCtx)
	}()

	finished, err := uc.Wait(ctx, id)
	cancel()
	if runErr := <-done; runErr != nil && err == nil {
		err = runErr
	}
	if err != nil {
		return nil, err
	}

	if job.Integration != nil {
		uc.WaitPollers()
	}

	reports, err := clients.ScanRepository().ListReports(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list reports", goerr.V("jobID", id))
	}

	return &scanOutput{
		Job:     finished,
		Reports: reports,
	}, nil
}
