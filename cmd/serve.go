package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/teemow/calgrid/internal/instrumentation"
	"github.com/teemow/calgrid/internal/logging"
	"github.com/teemow/calgrid/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		addr        string
		baseURL     string
		metricsAddr string
		noMetrics   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calendar grid in the browser",
		Long: `Start the web UI: the calendar grid page, its JSON API, Google sign-in
and the health endpoints.

Sign-in requires google.client_id and google.client_secret. The OAuth
redirect URL is <base-url>/auth/callback and must be registered for the
client in the Google Cloud console.

Prometheus metrics are served on a dedicated port (metrics.addr) unless
--no-metrics is given or METRICS_EXPORTER selects another exporter.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("base-url") {
				cfg.Server.BaseURL = baseURL
			}
			if cmd.Flags().Changed("metrics-addr") {
				cfg.Metrics.Addr = metricsAddr
			}
			if noMetrics {
				cfg.Metrics.Enabled = false
			}
			return runServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Web server address (default: server.addr)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Public base URL used for the OAuth redirect (default: server.base_url)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Metrics server address (default: metrics.addr)")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "Do not start the metrics server")

	return cmd
}

func runServe(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	if !cfg.GoogleConfigured() {
		logger.Warn("google.client_id and google.client_secret are not set; sign-in is disabled")
	}

	sc, err := newServerContext(ctx, server.WithMetrics(provider.Metrics()))
	if err != nil {
		return err
	}
	defer func() { _ = sc.Shutdown() }()

	web := server.NewWebServer(sc)

	var metrics *server.MetricsServer
	if cfg.Metrics.Enabled && provider.ServesPrometheus() {
		metrics, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    cfg.Metrics.Addr,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(web.Start)
	if metrics != nil {
		g.Go(metrics.Start)
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()

		err := web.Shutdown(shutdownCtx)
		if metrics != nil {
			if merr := metrics.Shutdown(shutdownCtx); merr != nil && err == nil {
				err = merr
			}
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
