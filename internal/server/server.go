// Package server owns the HTTP surface: routing, middleware and lifecycle.
package server

import (
	"context"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/codemarcinu/ageny-online/internal/config"
	"github.com/codemarcinu/ageny-online/internal/gateway"
	"github.com/codemarcinu/ageny-online/internal/server/middleware"
	"github.com/codemarcinu/ageny-online/internal/store/cache"
	"go.uber.org/zap"
)

const serviceName = "ageny-online"

type Server struct {
	engine *gin.Engine
	http   *http.Server
	logger *zap.Logger
}

func New(cfg *config.Config, svc gateway.Service, cacheSvc cache.CacheService, version string, logger *zap.Logger) *Server {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		ginzap.Ginzap(logger, time.RFC3339, true),
		ginzap.RecoveryWithZap(logger, true),
		middleware.Tracing(serviceName),
		middleware.CORS(),
		middleware.ErrorHandler(logger),
	)

	s := &Server{
		engine: engine,
		logger: logger,
		http: &http.Server{
			Addr:         ":" + cfg.Server.Port,
			Handler:      engine,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	s.registerRoutes(cfg, svc, cacheSvc, version)
	return s
}

// Start blocks serving HTTP until Shutdown or a listener error.
func (s *Server) Start() error {
	s.logger.Info("http server listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.http.Shutdown(ctx)
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
