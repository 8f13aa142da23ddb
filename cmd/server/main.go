package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codemarcinu/ageny-online/cmd"
	"github.com/codemarcinu/ageny-online/internal/analytics"
	"github.com/codemarcinu/ageny-online/internal/config"
	"github.com/codemarcinu/ageny-online/internal/core/domain"
	"github.com/codemarcinu/ageny-online/internal/core/ports"
	"github.com/codemarcinu/ageny-online/internal/gateway"
	"github.com/codemarcinu/ageny-online/internal/modelmap"
	"github.com/codemarcinu/ageny-online/internal/orchestrator"
	"github.com/codemarcinu/ageny-online/internal/platform/logger"
	"github.com/codemarcinu/ageny-online/internal/platform/otel"
	"github.com/codemarcinu/ageny-online/internal/server"
	"github.com/codemarcinu/ageny-online/internal/store/cache"
	"github.com/codemarcinu/ageny-online/internal/store/cache/memory"
	"github.com/codemarcinu/ageny-online/internal/store/cache/redis"
	"github.com/codemarcinu/ageny-online/internal/store/sqlite"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger.Initialize(logger.DefaultConfig())
	zlog := logger.Get()
	defer logger.Sync()

	go cmd.CheckForUpdates()

	domain.InitValidator()

	shutdownTracer, err := otel.InitTracer("ageny-online", zlog, os.Stdout)
	if err != nil {
		zlog.Fatal("failed to initialize tracing", zap.Error(err))
	}

	repo, err := sqlite.NewSQLiteStorage(cfg.Database.DSN, zlog)
	if err != nil {
		zlog.Fatal("failed to open database", zap.Error(err))
	}
	defer repo.Close()

	var cacheSvc cache.CacheService
	if cfg.Redis.Enabled {
		cacheSvc, err = redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			zlog.Fatal("failed to connect to redis", zap.Error(err))
		}
		zlog.Info("using redis cache", zap.String("addr", cfg.Redis.Addr))
	} else {
		cacheSvc = memory.New()
		zlog.Info("using in-memory cache")
	}

	registries := gateway.BuildRegistries(cfg, zlog)

	attemptTimeout := time.Duration(cfg.Server.AttemptTimeout) * time.Second
	llmOrch := orchestrator.New[ports.ChatProvider](registries.LLM, attemptTimeout, zlog)
	ocrOrch := orchestrator.New[ports.OCRProvider](registries.OCR, attemptTimeout, zlog)
	vecOrch := orchestrator.New[ports.VectorStoreProvider](registries.Vectors, attemptTimeout, zlog)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ingestor := analytics.NewIngestor(zlog, repo)
	ingestor.Start(ctx)

	svc := gateway.NewService(zlog, llmOrch, ocrOrch, vecOrch,
		modelmap.NewTable(), repo, ingestor)

	srv := server.New(cfg, svc, cacheSvc, cmd.AppVersion, zlog)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			zlog.Fatal("server failed", zap.Error(err))
		}
	case <-ctx.Done():
		zlog.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
	ingestor.Stop()
	if err := shutdownTracer(shutdownCtx); err != nil {
		zlog.Error("tracer shutdown failed", zap.Error(err))
	}
}
