// cmd/order-server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rank-boost/internal/api"
	"rank-boost/internal/common/config"
	apperrors "rank-boost/internal/common/errors"
	"rank-boost/internal/common/logger"
	"rank-boost/internal/common/observability"
	"rank-boost/internal/common/validation"
	"rank-boost/internal/orderstore"
	"rank-boost/internal/recommendation"
	"rank-boost/pkg/roster"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog, _ := zap.NewProduction()
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.MustNew(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting order server...",
		zap.String("environment", cfg.App.Environment),
		zap.String("storageDriver", cfg.Storage.Driver),
	)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("otel metrics unavailable, continuing without them", zap.Error(err))
		obs = observability.NewNoop()
	}
	defer obs.Shutdown()

	// --- Roster & recommendation engine (fail fast) ---
	providers, err := roster.Load(cfg.Roster.Path)
	if err != nil {
		zapLog.Fatal("roster load failed",
			zap.Error(apperrors.NewRosterInvalidError(err)),
			zap.String("path", cfg.Roster.Path),
		)
	}
	engine, err := recommendation.NewEngine(providers)
	if err != nil {
		zapLog.Fatal("recommendation engine init failed", zap.Error(err))
	}
	zapLog.Info("Roster loaded",
		zap.Int("providers", len(providers.Providers)),
		zap.String("version", providers.Version),
	)

	// --- Order storage ---
	ctx := context.Background()
	backend, err := openStorage(ctx, cfg, zapLog)
	if err != nil {
		zapLog.Fatal("order storage init failed", zap.Error(err))
	}

	store := orderstore.New(backend.repo, engine, log, orderstore.WithObservability(obs))
	defer func() {
		if err := store.Close(); err != nil {
			zapLog.Error("Error closing order repository", zap.Error(err))
		}
		if backend.close != nil {
			if err := backend.close(); err != nil {
				zapLog.Error("Error closing storage client", zap.Error(err))
			}
		}
	}()

	validator, err := validation.NewValidator()
	if err != nil {
		zapLog.Fatal("schema compilation failed", zap.Error(err))
	}

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := api.NewRouter(api.RouterOptions{
		Server:    cfg.Server,
		Orders:    store,
		Validator: validator,
		Logger:    log,
		Ready:     backend.ready,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	zapLog.Info(fmt.Sprintf("服务器运行在 http://localhost:%d", cfg.Server.Port))
	zapLog.Info(fmt.Sprintf("后台管理页面: http://localhost:%d/admin.html", cfg.Server.Port))

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	zapLog.Info("Order server stopped gracefully")
}
