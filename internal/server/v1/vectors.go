package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/codemarcinu/ageny-online/internal/core/domain"
	"github.com/codemarcinu/ageny-online/internal/gateway"
	"github.com/codemarcinu/ageny-online/pkg/schema"
)

type VectorHandler struct {
	svc gateway.Service
}

func NewVectorHandler(svc gateway.Service) *VectorHandler {
	return &VectorHandler{svc: svc}
}

// Upsert handles POST /api/v1/vectors/upsert.
func (h *VectorHandler) Upsert(c *gin.Context) {
	var req schema.VectorUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(domain.ValidationProblem(domain.ParseValidationError(err)))
		return
	}

	resp, err := h.svc.UpsertVectors(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Query handles POST /api/v1/vectors/query.
func (h *VectorHandler) Query(c *gin.Context) {
	var req schema.VectorQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(domain.ValidationProblem(domain.ParseValidationError(err)))
		return
	}

	resp, err := h.svc.QueryVectors(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
