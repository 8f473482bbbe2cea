package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mdnav-hq/mdnav/pkg/cli"
	"mdnav-hq/mdnav/pkg/config"
	"mdnav-hq/mdnav/pkg/history"
	"mdnav-hq/mdnav/pkg/history/retention"
	"mdnav-hq/mdnav/pkg/history/storage"
	"mdnav-hq/mdnav/pkg/processing"
	"mdnav-hq/mdnav/pkg/server"
	"mdnav-hq/mdnav/pkg/telemetry"
	"mdnav-hq/mdnav/pkg/telemetry/health"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the query API over HTTP",
	Long: `Start the HTTP API.

Endpoints:
  POST /v1/query   run a query against a document in the request body
  GET  /health     liveness
  GET  /ready      readiness (history store reachable)
  GET  /version    build information
  GET  /metrics    Prometheus metrics (when enabled)

Examples:
  mdnav serve
  mdnav serve --listen 0.0.0.0:9000

  curl -s localhost:8080/v1/query \
    -d '{"document": "# Hi\n\n## There", "query": ".h2 | .text"}'`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (overrides server.listen_address)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Current()
	serverCfg := cfg.Server
	if serveListen != "" {
		serverCfg.ListenAddress = serveListen
	}

	tel, err := telemetry.New(&cfg.Telemetry, Version, cmd.ErrOrStderr())
	if err != nil {
		return cli.NewCommandError("serve", err)
	}
	logger := tel.Logger().Slog()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(ctx); err != nil {
			logger.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	ctx, cancel := cli.SetupSignalHandler(commandContext(cmd))
	defer cancel()

	checker := health.New(2 * time.Second)
	procOpts := []processing.Option{
		processing.WithMetrics(tel.Metrics()),
		processing.WithTracer(tel.Tracer()),
		processing.WithLogger(logger),
	}

	var store history.Store
	if cfg.History.Enabled {
		store, err = storage.Open(cfg.History, logger)
		if err != nil {
			return cli.NewCommandError("serve", fmt.Errorf("opening query history: %w", err))
		}
		defer store.Close()

		checker.RegisterCheck("history", health.PingCheck(store))
		procOpts = append(procOpts, processing.WithHistory(store))

		pruner := retention.NewPruner(store, retention.FromConfig(cfg.History),
			retention.WithMetrics(tel.Metrics()),
			retention.WithLogger(logger),
		)
		scheduler := retention.NewScheduler(pruner)
		if err := scheduler.Start(ctx); err != nil {
			return cli.NewCommandError("serve", err)
		}
		defer scheduler.Stop()
	}

	srv := server.NewServer(&serverCfg, processing.NewProcessor(&cfg.Query, procOpts...),
		server.WithMetrics(tel.Metrics(), &cfg.Telemetry.Metrics),
		server.WithTracer(tel.Tracer()),
		server.WithHealth(checker),
		server.WithLogger(logger),
		server.WithBuildInfo(server.BuildInfo{
			Version:   Version,
			Commit:    GitCommit,
			BuildTime: BuildDate,
		}),
	)

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("serve", err)
	}
	logger.Info("server stopped")
	return nil
}
