package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gots/slice"
	"github.com/m-mizutani/pqscan/pkg/cli/config"
	"github.com/m-mizutani/pqscan/pkg/controller/server"
	"github.com/m-mizutani/pqscan/pkg/infra"
	"github.com/m-mizutani/pqscan/pkg/usecase"
	"github.com/m-mizutani/pqscan/pkg/utils/logging"

	"github.com/urfave/cli/v3"
)

func serveCommand() *cli.Command {
	var (
		addr string

		scheduler config.Scheduler
		tools     config.Tools
		poller    config.Poller
		githubApp config.GitHubApp
		firestore config.Firestore
		bigQuery  config.BigQuery
		sentry    config.Sentry
	)
	serveFlags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Binding address",
			Value:       "127.0.0.1:8000",
			Sources:     cli.EnvVars("PQSCAN_ADDR"),
			Destination: &addr,
		},
	}

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Server mode",
		Flags: slice.Flatten(
			serveFlags,
			scheduler.Flags(),
			tools.Flags(),
			poller.Flags(),
			githubApp.Flags(),
			firestore.Flags(),
			bigQuery.Flags(),
			sentry.Flags(),
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			logging.Default().Info("starting serve",
				slog.Any("Addr", addr),
				slog.Any("Scheduler", &scheduler),
				slog.Any("Tools", &tools),
				slog.Any("Poller", &poller),
				slog.Any("GitHubApp", githubApp),
				slog.Any("Firestore", &firestore),
				slog.Any("BigQuery", &bigQuery),
				slog.Any("Sentry", &sentry),
			)

			if err := sentry.Configure(ctx); err != nil {
				return err
			}

			integration, err := poller.Integration()
			if err != nil {
				return err
			}

			infraOptions := []infra.Option{
				infra.WithToolRunner(tools.NewRunner()),
			}

			if ghApp, err := githubApp.New(); err != nil {
				return err
			} else if ghApp != nil {
				infraOptions = append(infraOptions, infra.WithGitHubApp(ghApp))
			}

			if repo, err := firestore.NewRepository(ctx); err != nil {
				return err
			} else if repo != nil {
				infraOptions = append(infraOptions, infra.WithScanRepository(repo))
			} else {
				logging.Default().Warn("firestore is not configured, scan jobs are kept in memory")
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

			serverOptions := []server.Option{
				server.WithGitHubSecret(githubApp.Secret()),
			}
			if integration != nil {
				serverOptions = append(serverOptions, server.WithScannerIntegration(integration))
			}
			s := server.New(uc, serverOptions...)

			runCtx, cancel := context.WithCancel(ctx)
			defer cancel()

			schedulerDone := make(chan error, 1)
			go func() {
				schedulerDone <- uc.Run(runCtx)
			}()

			serverErr := make(chan error, 1)
			httpServer := &http.Server{
				Addr:    addr,
				Handler: s.Mux(),

				ReadHeaderTimeout: 10 * time.Second,
				ReadTimeout:       30 * time.Second,
				WriteTimeout:      30 * time.Second,
			}

			go func() {
				logging.Default().Info("starting http server", "addr", addr)
				if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					serverErr <- goerr.Wrap(err, "failed to listen and serve")
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			var result error
			select {
			case err := <-serverErr:
				result = err

			case sig := <-quit:
				logging.Default().Info("shutting down server", "signal", sig)

				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer shutdownCancel()

				if err := httpServer.Shutdown(shutdownCtx); err != nil {
					result = goerr.Wrap(err, "failed to shutdown server")
				}
			}

			// In-flight jobs finish before exiting.
			cancel()
			if err := <-schedulerDone; err != nil && result == nil {
				result = err
			}
			uc.WaitPollers()

			return result
		},
	}
}
