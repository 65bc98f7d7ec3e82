package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/secmon-lab/rosterform/pkg/cli/config"
	httpctrl "github.com/secmon-lab/rosterform/pkg/controller/http"
	"github.com/secmon-lab/rosterform/pkg/repository/memory"
	"github.com/secmon-lab/rosterform/pkg/service/notify"
	"github.com/secmon-lab/rosterform/pkg/service/worker"
	"github.com/secmon-lab/rosterform/pkg/usecase"
	"github.com/secmon-lab/rosterform/pkg/utils/logging"
	"github.com/secmon-lab/rosterform/pkg/utils/safe"
)

func cmdServe(version string) *cli.Command {
	var addr string
	var sessionTTL time.Duration
	var sweepInterval time.Duration
	var secureCookie bool
	var appCfg config.AppConfig
	var slackCfg config.Slack
	var sentryCfg config.Sentry

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("ROSTERFORM_ADDR"),
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "session-ttl",
			Usage:       "Discard a form session after it has been idle this long",
			Value:       30 * time.Minute,
			Sources:     cli.EnvVars("ROSTERFORM_SESSION_TTL"),
			Destination: &sessionTTL,
		},
		&cli.DurationFlag{
			Name:        "sweep-interval",
			Usage:       "How often idle form sessions are swept",
			Value:       time.Minute,
			Sources:     cli.EnvVars("ROSTERFORM_SWEEP_INTERVAL"),
			Destination: &sweepInterval,
		},
		&cli.BoolFlag{
			Name:        "secure-cookie",
			Usage:       "Set the Secure attribute on the session cookie (serve behind HTTPS)",
			Sources:     cli.EnvVars("ROSTERFORM_SECURE_COOKIE"),
			Destination: &secureCookie,
		},
	}

	// Add shared config flags
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			page, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load page configuration")
			}

			sentryCfg.SetRelease(version)
			flush, err := sentryCfg.Configure()
			if err != nil {
				return err
			}
			defer flush()

			repo := memory.New()
			defer safe.Close(ctx, repo)

			slackObs, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure slack notification")
			}
			if slackObs != nil {
				logging.Default().Info("Slack submission notification enabled", "slack", slackCfg)
			}

			uc := usecase.New(repo,
				usecase.WithSubmitObserver(notify.NewLogger()),
				usecase.WithSubmitObserver(slackObs),
			)

			sweeper := worker.NewSessionSweeper(repo, sessionTTL, sweepInterval)
			if err := sweeper.Start(ctx); err != nil {
				return goerr.Wrap(err, "failed to start session sweeper")
			}

			httpHandler, err := httpctrl.New(uc.Form,
				httpctrl.WithPageText(httpctrl.PageText{
					Title:          page.Title,
					Description:    page.Description,
					SuccessTitle:   page.SuccessTitle,
					SuccessMessage: page.SuccessMessage,
				}),
				httpctrl.WithSecureCookie(secureCookie),
			)
			if err != nil {
				sweeper.Stop()
				return goerr.Wrap(err, "failed to create http server")
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle(httpHandler),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			// Start server in goroutine
			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server",
					"addr", addr,
					"session_ttl", sessionTTL.String(),
					"sentry", sentryCfg,
				)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			// Wait for shutdown signal or server error
			select {
			case err := <-errCh:
				sweeper.Stop()
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				// Stop the sweeper first
				sweeper.Stop()

				// Create shutdown context with timeout
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				// Attempt graceful shutdown
				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
