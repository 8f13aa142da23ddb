// Package azurevision adapts the Azure AI Vision image-analysis Read
// feature. Azure needs both an API key and a resource endpoint; registration
// enforces that.
package azurevision

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/codemarcinu/ageny-online/internal/core/domain"
	"github.com/codemarcinu/ageny-online/internal/core/ports"
	"github.com/codemarcinu/ageny-online/internal/httpclient"
	"github.com/codemarcinu/ageny-online/pkg/schema"
)

const apiVersion = "2024-02-01"

type Adapter struct {
	config domain.ProviderConfig
	client *http.Client
}

func New(config domain.ProviderConfig) (ports.OCRProvider, error) {
	return &Adapter{
		config: config,
		client: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

func (a *Adapter) Name() schema.ProviderName {
	return schema.ProviderAzureVision
}

func (a *Adapter) Models() []string {
	return []string{"prebuilt-read"}
}

type analyzeResponse struct {
	ReadResult struct {
		Blocks []struct {
			Lines []struct {
				Text string `json:"text"`
			} `json:"lines"`
		} `json:"blocks"`
	} `json:"readResult"`
}

func (a *Adapter) ExtractText(ctx context.Context, req *schema.OCRRequest) (*schema.OCRResponse, error) {
	if len(req.Image) == 0 {
		return nil, &domain.ProviderCallError{
			Provider: a.Name(), Op: "extract_text",
			Err: errors.New("empty image payload"),
		}
	}

	url := strings.TrimRight(a.config.Endpoint, "/") +
		"/computervision/imageanalysis:analyze?api-version=" + apiVersion + "&features=read"
	headers := map[string]string{
		"Ocp-Apim-Subscription-Key": a.config.APIKey,
	}

	var resp analyzeResponse
	if err := httpclient.PostBytes(ctx, a.client, url, "application/octet-stream", headers, req.Image, &resp); err != nil {
		return nil, wrapCallError(a.Name(), err)
	}

	var text strings.Builder
	for _, block := range resp.ReadResult.Blocks {
		for _, line := range block.Lines {
			if text.Len() > 0 {
				text.WriteByte('\n')
			}
			text.WriteString(line.Text)
		}
	}

	return &schema.OCRResponse{
		Text: text.String(),
		// Azure does not report a document-level confidence.
		Confidence: schema.DefaultOCRConfidence,
		Model:      "prebuilt-read",
		Provider:   a.Name(),
		Usage:      schema.Usage{InputTokens: 1, TotalTokens: 1}, // one page analyzed
	}, nil
}

func wrapCallError(name schema.ProviderName, err error) error {
	var upstream *httpclient.UpstreamError
	if errors.As(err, &upstream) {
		return &domain.ProviderCallError{
			Provider:   name,
			Op:         "extract_text",
			StatusCode: upstream.StatusCode,
			Err:        err,
		}
	}
	return &domain.ProviderCallError{Provider: name, Op: "extract_text", Err: err}
}
