package server

import (
	"github.com/codemarcinu/ageny-online/internal/config"
	"github.com/codemarcinu/ageny-online/internal/gateway"
	"github.com/codemarcinu/ageny-online/internal/server/middleware"
	v1 "github.com/codemarcinu/ageny-online/internal/server/v1"
	"github.com/codemarcinu/ageny-online/internal/store/cache"
)

func (s *Server) registerRoutes(cfg *config.Config, svc gateway.Service, cacheSvc cache.CacheService, version string) {
	s.engine.GET("/health", v1.Health(version))

	limiter := middleware.NewRateLimiter(
		cfg.RateLimit.RequestsPerSecond,
		cfg.RateLimit.Burst,
		s.logger,
	)

	api := s.engine.Group("/api/v1",
		limiter.Middleware(),
		middleware.Auth(cfg.Server.APIKeys),
	)

	chat := v1.NewChatHandler(svc)
	ocr := v1.NewOCRHandler(svc)
	vectors := v1.NewVectorHandler(svc)
	admin := v1.NewAdminHandler(svc, cacheSvc, s.logger)

	api.POST("/chat", chat.Chat)
	api.POST("/embeddings", chat.Embed)
	api.POST("/ocr", ocr.Extract)

	api.POST("/vectors/upsert", vectors.Upsert)
	api.POST("/vectors/query", vectors.Query)

	api.GET("/providers/status", admin.Status)
	api.GET("/models", admin.Models)

	api.POST("/conversations", admin.CreateConversation)
	api.GET("/conversations", admin.ListConversations)
	api.GET("/conversations/:id", admin.GetConversation)

	api.GET("/stats/daily", admin.DailyStats)
}
