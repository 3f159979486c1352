package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ppclens/backend/config"
	httpDelivery "github.com/ppclens/backend/internal/delivery/http"
	"github.com/ppclens/backend/internal/domain"
	"github.com/ppclens/backend/internal/infrastructure/cache"
	"github.com/ppclens/backend/internal/infrastructure/logging"
	"github.com/ppclens/backend/internal/infrastructure/metrics"
	"github.com/ppclens/backend/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load(os.Getenv("PPCLENS_CONFIG_FILE"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Server.Environment, cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	for _, w := range cfg.Warnings {
		logger.Warn("configuration section ignored", zap.String("detail", w))
	}

	logger.Info("starting PPCLens backend",
		zap.String("version", "1.0.0"),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("store", cfg.Store.Type),
		zap.Duration("result_ttl", cfg.Store.TTL),
	)

	store, closeStore, err := newStore(cfg)
	if err != nil {
		logger.Fatal("failed to initialize result store", zap.Error(err))
	}
	defer closeStore()

	recorder := metrics.NewRecorder()

	// Initialize usecase layer
	analysisService := usecase.NewAnalysisService(
		store,
		recorder,
		logger.Named("analysis"),
		usecase.AnalysisServiceConfig{
			Settings:  cfg.Analysis,
			ResultTTL: cfg.Store.TTL,
		},
	)

	handler := httpDelivery.NewHandler(analysisService, cfg.Upload.MaxBytes, logger.Named("http"))
	router := httpDelivery.SetupRouter(cfg, handler, logger.Named("http"), recorder.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// newStore builds the configured result store and its close function
func newStore(cfg *config.Config) (domain.CacheRepository, func(), error) {
	switch cfg.Store.Type {
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		store, err := cache.NewRedisCache(ctx, cfg.Store.RedisURL, cfg.Store.Prefix)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	default:
		store := cache.NewMemoryCache(cfg.Store.SweepInterval)
		return store, func() { store.Close() }, nil
	}
}
