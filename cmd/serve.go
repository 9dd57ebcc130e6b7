package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"campus-steps-server/config"
	"campus-steps-server/observability"
	"campus-steps-server/preprocessing"
	"campus-steps-server/server"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), config.Get())
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logger := observability.GetLogger()
	gin.SetMode(cfg.Server.Mode)

	// The graph must be complete before any request is served.
	store := preprocessing.NewStore(cfg.Dataset.Path)
	if _, err := store.Graph(); err != nil {
		return fmt.Errorf("failed to load required graph data: %w", err)
	}

	if cfg.Dataset.Watch {
		go func() {
			if err := store.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Dataset watcher stopped", zap.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.New(store).Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Campus steps server starting", zap.String("addr", cfg.Server.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
