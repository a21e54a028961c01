package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"voicetasks/internal/logging"
	"voicetasks/internal/server"
	"voicetasks/internal/telephony"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr        string
		metricsAddr string
		baseURL     string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the call webhooks",
		Long: `Serve the HTTP endpoints used by the telephony provider:

  GET  /          liveness
  GET  /readyz    readiness
  GET|POST /voice speech prompt
  POST /capture   transcript callback, creates the tasks
  POST /call      starts an outbound call (X-Trigger-Token or ?token=)

Prometheus metrics are served separately on --metrics-addr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			if flags.Changed("addr") {
				a.cfg.Addr = addr
			}
			if flags.Changed("metrics-addr") {
				a.cfg.MetricsAddr = metricsAddr
			}
			if flags.Changed("base-url") {
				a.cfg.BaseURL = baseURL
			}
			return a.runServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (default \":8080\", or \":$PORT\")")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Metrics listen address, empty disables (default \":9090\")")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Public URL of this deployment, used for call callbacks")
	return cmd
}

func (a *app) runServe(ctx context.Context) error {
	logger := logging.WithOperation(a.logger, "serve")

	svc, err := a.service()
	if err != nil {
		return err
	}

	var caller telephony.Caller
	if a.cfg.Twilio.Configured() {
		caller, err = a.opts.NewCaller(a.cfg.Twilio)
		if err != nil {
			return err
		}
	} else {
		logger.Warn("telephony settings incomplete, outbound calls disabled")
	}

	srv := server.New(server.Options{
		Config: a.cfg,
		Tasks:  svc,
		Caller: caller,
		Logger: a.logger,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var metricsSrv *server.MetricsServer
	if a.cfg.MetricsAddr != "" {
		metricsSrv = server.NewMetricsServer(a.cfg.MetricsAddr, srv.Registry(), a.logger)
		go func() {
			if err := metricsSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", logging.Err(err))
			}
		}()
	}

	runErr := srv.Run(ctx)

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics server shutdown", logging.Err(err))
		}
	}
	return runErr
}
