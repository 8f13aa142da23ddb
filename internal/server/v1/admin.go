package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/codemarcinu/ageny-online/internal/core/domain"
	"github.com/codemarcinu/ageny-online/internal/gateway"
	"github.com/codemarcinu/ageny-online/internal/store/cache"
	"github.com/codemarcinu/ageny-online/internal/store/model"
	"github.com/codemarcinu/ageny-online/pkg/schema"
	"go.uber.org/zap"
)

const (
	statusCacheKey = "gateway:provider_status"
	modelsCacheKey = "gateway:models"
	statusCacheTTL = 30 * time.Second
	modelsCacheTTL = 5 * time.Minute
)

// AdminHandler serves the operational surface: provider status, model
// listings, conversation history and usage stats. Status and model listings
// go through the cache since they are hit by dashboards on a tight poll.
type AdminHandler struct {
	svc    gateway.Service
	cache  cache.CacheService
	logger *zap.Logger
}

func NewAdminHandler(svc gateway.Service, c cache.CacheService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, cache: c, logger: logger}
}

// Status handles GET /api/v1/providers/status.
func (h *AdminHandler) Status(c *gin.Context) {
	ctx := c.Request.Context()

	var cached map[schema.Capability]map[schema.ProviderName]bool
	if err := h.cache.Get(ctx, statusCacheKey, &cached); err == nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	status := h.svc.ProviderStatus()
	if err := h.cache.Set(ctx, statusCacheKey, status, statusCacheTTL); err != nil {
		h.logger.Warn("failed to cache provider status", zap.Error(err))
	}
	c.JSON(http.StatusOK, status)
}

// Models handles GET /api/v1/models.
func (h *AdminHandler) Models(c *gin.Context) {
	ctx := c.Request.Context()

	var cached map[schema.ProviderName][]string
	if err := h.cache.Get(ctx, modelsCacheKey, &cached); err == nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	models := h.svc.ListModels(ctx)
	if err := h.cache.Set(ctx, modelsCacheKey, models, modelsCacheTTL); err != nil {
		h.logger.Warn("failed to cache model listing", zap.Error(err))
	}
	c.JSON(http.StatusOK, models)
}

type createConversationRequest struct {
	Title string `json:"title" binding:"required"`
}

// CreateConversation handles POST /api/v1/conversations.
func (h *AdminHandler) CreateConversation(c *gin.Context) {
	var req createConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(domain.ValidationProblem(domain.ParseValidationError(err)))
		return
	}

	conv := &model.Conversation{
		ID:    uuid.New().String(),
		Title: req.Title,
	}
	if err := h.svc.Conversations().Create(c.Request.Context(), conv); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, conv)
}

// ListConversations handles GET /api/v1/conversations.
func (h *AdminHandler) ListConversations(c *gin.Context) {
	limit := intQuery(c, "limit", 50)

	convs, err := h.svc.Conversations().List(c.Request.Context(), limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, convs)
}

// GetConversation handles GET /api/v1/conversations/:id, returning the
// conversation with its messages.
func (h *AdminHandler) GetConversation(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	conv, err := h.svc.Conversations().Get(ctx, id)
	if err != nil {
		_ = c.Error(domain.NewProblem(http.StatusNotFound, "Conversation Not Found",
			"no conversation with id "+id, domain.WithLog(err)))
		return
	}

	messages, err := h.svc.Conversations().Messages(ctx, id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conversation": conv,
		"messages":     messages,
	})
}

// DailyStats handles GET /api/v1/stats/daily.
func (h *AdminHandler) DailyStats(c *gin.Context) {
	days := intQuery(c, "days", 7)

	stats, err := h.svc.DailyStats(c.Request.Context(), days)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func intQuery(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
