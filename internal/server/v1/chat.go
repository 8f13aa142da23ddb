package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/codemarcinu/ageny-online/internal/core/domain"
	"github.com/codemarcinu/ageny-online/internal/gateway"
	"github.com/codemarcinu/ageny-online/pkg/schema"
)

type ChatHandler struct {
	svc gateway.Service
}

func NewChatHandler(svc gateway.Service) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// Chat handles POST /api/v1/chat.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req schema.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(domain.ValidationProblem(domain.ParseValidationError(err)))
		return
	}

	resp, err := h.svc.Chat(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Embed handles POST /api/v1/embeddings.
func (h *ChatHandler) Embed(c *gin.Context) {
	var req schema.EmbedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(domain.ValidationProblem(domain.ParseValidationError(err)))
		return
	}

	resp, err := h.svc.Embed(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
