package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aretw0/lattice/internal/cli"
	"github.com/aretw0/lattice/internal/presentation/outline"
	httpAdapter "github.com/aretw0/lattice/pkg/adapters/http"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/observability"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve [source]",
	Short: "Start the HTTP server",
	Long: `Serves the page as a JSON API over HTTP, with prometheus metrics at /metrics.
The tree source is watched and reloaded on change unless --watch=false.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, args)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.HTTP.Addr, _ = cmd.Flags().GetString("addr")
		}
		watch, _ := cmd.Flags().GetBool("watch")

		logger := newLogger(cfg)
		outline.PrintBanner(cmd.ErrOrStderr())

		metrics := observability.NewMetrics()
		hooks := domain.ChainHooks(observability.LoggingHooks(logger), metrics.Hooks())
		session, err := cli.OpenPage(cfg, logger, hooks)
		if err != nil {
			return err
		}
		defer session.Close()

		handlerOpts := []httpAdapter.Option{httpAdapter.WithLogger(logger)}
		if cfg.HTTP.Metrics {
			handlerOpts = append(handlerOpts, httpAdapter.WithMetrics(metrics.Handler()))
		}
		srv := &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           httpAdapter.NewHandler(session.Page, handlerOpts...),
			ReadHeaderTimeout: 5 * time.Second,
		}

		ctx, stop := cli.SignalContext(cmd.Context())
		defer stop()

		if watch {
			go func() {
				if err := cli.WatchAndReload(ctx, session.Page, logger, nil); err != nil {
					logger.Warn("Hot reload disabled", "err", err)
				}
			}()
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("Starting Lattice Server", "addr", srv.Addr, "source", cfg.Source, "root", session.Page.Root())
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			return err
		case <-ctx.Done():
			logger.Info("Start shutdown")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Graceful shutdown did not complete", "err", err)
				return srv.Close()
			}
			logger.Info("Lattice Server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	serveCmd.Flags().Bool("watch", true, "Reload the page when its source changes")
}
