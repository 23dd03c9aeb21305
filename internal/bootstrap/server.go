package bootstrap

import (
	"context"
	"errors"
	"net/http"

	"go-madrasah/internal/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ServeHTTP blocks until ctx is cancelled or the listener fails. On
// cancellation it drains in-flight requests for cfg.ShutdownTimeout; onShutdown
// runs in both cases.
func ServeHTTP(
	ctx context.Context,
	router *gin.Engine,
	cfg config.HTTPConfig,
	audit AuditLogger,
	onShutdown func(ctx context.Context),
) error {
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	log := zap.L().Named("http")

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if onShutdown != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			onShutdown(shutdownCtx)
		}
		return err
	case <-ctx.Done():
	}

	audit.Log(ctx, AuditLog{
		Action:  "SERVER_SHUTDOWN",
		Message: "api stopping",
		Meta:    map[string]any{"cause": context.Cause(ctx).Error()},
	})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(shutdownCtx)
	if err != nil {
		log.Error("forced shutdown", zap.Error(err))
	} else {
		log.Info("drained")
	}

	if onShutdown != nil {
		onShutdown(shutdownCtx)
	}
	return err
}
