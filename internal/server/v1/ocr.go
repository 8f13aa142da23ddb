package v1

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/codemarcinu/ageny-online/internal/core/domain"
	"github.com/codemarcinu/ageny-online/internal/gateway"
	"github.com/codemarcinu/ageny-online/pkg/schema"
)

// maxImageBytes caps OCR uploads at 10 MiB.
const maxImageBytes = 10 << 20

type OCRHandler struct {
	svc gateway.Service
}

func NewOCRHandler(svc gateway.Service) *OCRHandler {
	return &OCRHandler{svc: svc}
}

// Extract handles POST /api/v1/ocr. The image arrives as a multipart file
// under "image"; model, prompt and provider are optional form fields.
func (h *OCRHandler) Extract(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		_ = c.Error(domain.NewProblem(http.StatusBadRequest, "Missing Image",
			"multipart field \"image\" is required"))
		return
	}
	defer file.Close()

	if header.Size > maxImageBytes {
		_ = c.Error(domain.NewProblem(http.StatusRequestEntityTooLarge, "Image Too Large",
			"image exceeds the 10 MiB limit"))
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		_ = c.Error(domain.NewProblem(http.StatusBadRequest, "Unreadable Image",
			"could not read uploaded image", domain.WithLog(err)))
		return
	}

	req := schema.OCRRequest{
		Image:    data,
		Model:    c.PostForm("model"),
		Prompt:   c.PostForm("prompt"),
		Provider: schema.ProviderName(c.PostForm("provider")),
	}

	resp, err := h.svc.ExtractText(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
