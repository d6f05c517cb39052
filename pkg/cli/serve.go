package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/secmon-lab/ouvidoria/pkg/cli/config"
	httpctrl "github.com/secmon-lab/ouvidoria/pkg/controller/http"
	"github.com/secmon-lab/ouvidoria/pkg/service/metrics"
	"github.com/secmon-lab/ouvidoria/pkg/service/worker"
	"github.com/secmon-lab/ouvidoria/pkg/usecase"
	"github.com/secmon-lab/ouvidoria/pkg/utils/async"
	"github.com/secmon-lab/ouvidoria/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var repoCfg config.Repository
	var vaultCfg config.Vault
	var classifierCfg config.Classifier
	var geminiCfg config.Gemini
	var channelsCfg config.Channels
	var seenCfg config.SeenStore
	var slackCfg config.Slack
	var authCfg config.Auth
	var sentryCfg config.Sentry

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("OUVIDORIA_ADDR"),
			Destination: &addr,
		},
	}

	// Add shared config flags
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, vaultCfg.Flags()...)
	flags = append(flags, classifierCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, channelsCfg.Flags()...)
	flags = append(flags, seenCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, authCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server and channel pollers",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logging.Default().Info("Configuration",
				"repository", repoCfg,
				"vault", vaultCfg,
				"classifier", classifierCfg,
				"channels", channelsCfg,
				"seen", seenCfg,
				"slack", slackCfg,
				"auth", authCfg,
				"sentry", sentryCfg,
			)

			flush, err := sentryCfg.Configure()
			if err != nil {
				return err
			}
			defer flush()

			// Initialize repository based on backend type
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(context.Background()); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			vaults, err := vaultCfg.Configure(repo.Identity())
			if err != nil {
				return goerr.Wrap(err, "failed to initialize vaults")
			}

			classifier, err := classifierCfg.Configure(ctx, &geminiCfg)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize classifier")
			}

			authn, err := authCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure authentication")
			}

			registry := prometheus.NewRegistry()
			registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			m := metrics.New(registry)

			ucOpts := []usecase.Option{
				usecase.WithClassifier(classifier),
				usecase.WithMetrics(m),
			}

			directory, err := slackCfg.Directory()
			if err != nil {
				return err
			}
			if directory != nil {
				ucOpts = append(ucOpts, usecase.WithUserDirectory(directory))
				logging.Default().Info("Slack user directory enabled for assignments")
			}

			uc := usecase.New(repo, vaults, ucOpts...)

			// Channel pollers
			interval, err := channelsCfg.Interval()
			if err != nil {
				return err
			}
			seen, closeSeen, err := seenCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize seen store")
			}
			defer closeSeen()

			var pollers []*worker.Poller
			for _, src := range channelsCfg.Sources() {
				pollers = append(pollers, worker.NewPoller(src, seen, uc.Ingest, interval,
					worker.WithMetrics(m),
					worker.WithTenant(channelsCfg.Tenant()),
				))
				logging.Default().Info("Channel poller enabled", "channel", src.Channel(), "interval", interval)
			}
			group := worker.NewGroup(pollers...)

			httpOpts := []httpctrl.Options{
				httpctrl.WithMetrics(registry),
			}
			if authn != nil {
				httpOpts = append(httpOpts, httpctrl.WithAuthenticator(authn))
			} else {
				logging.Default().Warn("No authentication configured, case API is disabled")
			}
			if secret := slackCfg.SigningSecret(); secret != "" {
				httpOpts = append(httpOpts, httpctrl.WithSlackWebhook(secret, slackCfg.Tenant()))
				logging.Default().Info("Slack webhook handler enabled")
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc, httpOpts...),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			workerCtx, cancelWorkers := context.WithCancel(ctx)
			defer cancelWorkers()
			group.Start(workerCtx)

			// Start server in goroutine
			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr, "pollers", group.Len())
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			// Wait for shutdown signal or server error
			var runErr error
			select {
			case runErr = <-errCh:
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)
			case <-ctx.Done():
				logging.Default().Info("Context cancelled, shutting down")
			}

			// Stop pollers first so no new ingestion starts
			group.Stop()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil && runErr == nil {
				runErr = goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			// Let in-flight Slack ingestions finish before the repository closes
			async.Wait(shutdownCtx)

			logging.Default().Info("Server shutdown completed")
			return runErr
		},
	}
}
