// Package mistralvision extracts text from images by prompting a
// vision-capable Mistral chat model, as a fallback behind the dedicated OCR
// vendors.
package mistralvision

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/codemarcinu/ageny-online/internal/core/domain"
	"github.com/codemarcinu/ageny-online/internal/core/ports"
	"github.com/codemarcinu/ageny-online/internal/httpclient"
	"github.com/codemarcinu/ageny-online/pkg/schema"
)

const (
	defaultBaseURL = "https://api.mistral.ai/v1"
	defaultModel   = "pixtral-12b-2409"
	defaultPrompt  = "Extract all text from this image. Return only the text, preserving line breaks."
)

type Adapter struct {
	config domain.ProviderConfig
	client *http.Client
}

func New(config domain.ProviderConfig) (ports.OCRProvider, error) {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	return &Adapter{
		config: config,
		client: &http.Client{Timeout: 90 * time.Second},
	}, nil
}

func (a *Adapter) Name() schema.ProviderName {
	return schema.ProviderMistralVision
}

func (a *Adapter) Models() []string {
	return []string{defaultModel}
}

type contentPart struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

type visionMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type visionRequest struct {
	Model    string          `json:"model"`
	Messages []visionMessage `json:"messages"`
}

type visionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func (a *Adapter) ExtractText(ctx context.Context, req *schema.OCRRequest) (*schema.OCRResponse, error) {
	if len(req.Image) == 0 {
		return nil, &domain.ProviderCallError{
			Provider: a.Name(), Op: "extract_text",
			Err: errors.New("empty image payload"),
		}
	}

	model := req.Model
	if model == "" {
		model = defaultModel
	}
	prompt := req.Prompt
	if prompt == "" {
		prompt = defaultPrompt
	}

	dataURI := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(req.Image)
	payload := visionRequest{
		Model: model,
		Messages: []visionMessage{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: prompt},
				{Type: "image_url", ImageURL: dataURI},
			},
		}},
	}

	url := strings.TrimRight(a.config.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + a.config.APIKey}

	var resp visionResponse
	if err := httpclient.PostJSON(ctx, a.client, url, headers, payload, &resp); err != nil {
		var upstream *httpclient.UpstreamError
		if errors.As(err, &upstream) {
			return nil, &domain.ProviderCallError{
				Provider: a.Name(), Op: "extract_text",
				StatusCode: upstream.StatusCode, Err: err,
			}
		}
		return nil, &domain.ProviderCallError{Provider: a.Name(), Op: "extract_text", Err: err}
	}

	if len(resp.Choices) == 0 {
		return nil, &domain.ProviderCallError{
			Provider: a.Name(), Op: "extract_text",
			Err: errors.New("malformed response: no choices"),
		}
	}

	return &schema.OCRResponse{
		Text: resp.Choices[0].Message.Content,
		// A generative model has no OCR confidence; keep the placeholder.
		Confidence: schema.DefaultOCRConfidence,
		Model:      model,
		Provider:   a.Name(),
		Usage: schema.Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}
