package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Tjoosten/ApiGen/pkg/templating"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the template preview server",
	Long: `Serve a JSON API for previewing templates against catalog elements and for
resolving references. Templates are reloaded when they change on disk.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server_config.addr)")
	rootCmd.AddCommand(serveCmd)
}

// newAPIMux registers all API routes on a new mux.
func newAPIMux(tm *templating.TemplateManager, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	NewTemplateAPI(tm, logger).RegisterRoutes(mux)
	NewCatalogAPI(tm, logger).RegisterRoutes(mux)
	return mux
}

func runServe(cmd *cobra.Command, _ []string) error {
	config, logger, err := setup()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		config.Server.Addr = serveAddr
	}

	ctx := cmd.Context()
	tm, err := newTemplateManager(ctx, config, logger)
	if err != nil {
		return err
	}
	if config.Server.WatchTemplates {
		if err = tm.Watch(ctx); err != nil {
			logger.Warn("Template watching disabled", "error", err)
		}
	}

	server := &http.Server{
		Addr:              config.Server.Addr,
		Handler:           newAPIMux(tm, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting preview server", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err = <-errChan:
		return err
	case <-ctx.Done():
	}

	logger.Info("Stopping preview server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Preview server shutdown failed", "error", err)
	}
	logger.Info("Preview server stopped.")
	return nil
}
