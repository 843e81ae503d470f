package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hva/pkg/cli/config"
	httpctrl "github.com/secmon-lab/hva/pkg/controller/http"
	"github.com/secmon-lab/hva/pkg/domain/types"
	"github.com/secmon-lab/hva/pkg/usecase"
	"github.com/secmon-lab/hva/pkg/utils/errutil"
	"github.com/secmon-lab/hva/pkg/utils/logging"
	"github.com/secmon-lab/hva/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var defaultOwner string
	var repoCfg config.Repository
	var catalogCfg config.Catalog
	var storageCfg config.Storage

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("HVA_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "default-owner",
			Usage:       "Owner of assessments for requests without an X-Owner-ID header (development only)",
			Sources:     cli.EnvVars("HVA_DEFAULT_OWNER"),
			Destination: &defaultOwner,
		},
	}

	// Add shared config flags
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, catalogCfg.Flags()...)
	flags = append(flags, storageCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			catalog, err := catalogCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load hazard catalog")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logger.Error("failed to close repository", "error", err.Error())
				}
			}()

			ucOpts := []usecase.Option{
				usecase.WithCatalog(catalog),
			}

			reportStorage, err := storageCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize report storage")
			}
			if reportStorage != nil {
				defer safe.Close(ctx, reportStorage)
				ucOpts = append(ucOpts, usecase.WithReportStorage(reportStorage))
			}

			uc := usecase.New(repo, ucOpts...)

			var httpOpts []httpctrl.Options
			if defaultOwner != "" {
				logger.Warn("Running with a default owner (development only)", "owner_id", defaultOwner)
				httpOpts = append(httpOpts, httpctrl.WithDefaultOwner(types.OwnerID(defaultOwner)))
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc.Assessment, httpOpts...),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Starting HTTP server",
					"addr", addr,
					"repository", repoCfg,
					"catalog", catalogCfg,
					"hazards", catalog.Len(),
					"storage", storageCfg,
				)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				errutil.Handle(ctx, err, "HTTP server stopped unexpectedly")
				return err
			case sig := <-sigCh:
				logger.Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logger.Info("Server shutdown completed")
				return nil
			}
		},
	}
}
