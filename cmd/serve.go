package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/lehigh-university-libraries/moviebasket/internal/config"
	"github.com/lehigh-university-libraries/moviebasket/internal/handlers"
	"github.com/lehigh-university-libraries/moviebasket/internal/pager"
	"github.com/lehigh-university-libraries/moviebasket/internal/state"
	"github.com/spf13/cobra"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var port string
	var preload int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the catalog and basket API",
		Long: `Starts an HTTP API over the catalog and the basket.

Clients page through the catalog with POST /api/catalog/next, add and remove
movies with PUT and DELETE /api/basket/{id}, and follow every change on the
server-sent event stream at /api/events.`,
		Example: `  # Start server on default port 8888
  moviebasket serve

  # Serve a local fixture catalog on a custom port
  CATALOG_FIXTURE=./testdata/movies.yaml moviebasket serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}

			fetcher, err := cfg.Fetcher()
			if err != nil {
				return err
			}

			manager := state.New(state.Options{Pricing: cfg.PricingEngine()})
			defer manager.Close()
			pg := pager.New(fetcher, cfg.Converter(), manager, slog.Default())

			for i := 0; i < preload; i++ {
				if _, err := pg.LoadNext(cmd.Context()); err != nil {
					slog.Warn("Unable to preload catalog page", "err", err)
				}
			}

			addr := ":" + cfg.Port
			server := &http.Server{
				Addr:    addr,
				Handler: handlers.NewRouter(handlers.New(manager, pg)),
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Moviebasket API available", "addr", addr, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				// Event streams only end when their subscriptions close
				manager.Close()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")
	cmd.Flags().IntVar(&preload, "preload", 1, "Number of catalog pages to load before serving")

	return cmd
}
