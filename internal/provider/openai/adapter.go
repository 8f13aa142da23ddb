package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/codemarcinu/ageny-online/internal/core/domain"
	"github.com/codemarcinu/ageny-online/internal/core/ports"
	"github.com/codemarcinu/ageny-online/internal/httpclient"
	"github.com/codemarcinu/ageny-online/pkg/schema"
)

const defaultBaseURL = "https://api.openai.com/v1"

type Adapter struct {
	name   schema.ProviderName
	models []string
	config domain.ProviderConfig
	client *http.Client
}

// New constructs an OpenAI adapter. The registry calls this lazily on first
// use and caches the result.
func New(config domain.ProviderConfig) (ports.ChatProvider, error) {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	return NewCompatible(schema.ProviderOpenAI, config,
		[]string{"gpt-4o", "gpt-4o-mini", "gpt-4-turbo", "text-embedding-3-small", "text-embedding-3-large"})
}

// NewCompatible builds an adapter for any vendor speaking the OpenAI wire
// format under its own identity and base URL.
func NewCompatible(name schema.ProviderName, config domain.ProviderConfig, models []string) (ports.ChatProvider, error) {
	return &Adapter{
		name:   name,
		models: models,
		config: config,
		client: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

func (a *Adapter) Name() schema.ProviderName {
	return a.name
}

func (a *Adapter) Models() []string {
	return a.models
}

func (a *Adapter) headers() map[string]string {
	h := map[string]string{
		"Authorization": "Bearer " + a.config.APIKey,
	}
	if org, ok := a.config.Extra["organization"]; ok {
		h["OpenAI-Organization"] = org
	}
	return h
}

func (a *Adapter) url(path string) string {
	return strings.TrimRight(a.config.BaseURL, "/") + path
}

// wire shapes for the chat completions endpoint

type chatCompletionRequest struct {
	Model       string               `json:"model"`
	Messages    []schema.ChatMessage `json:"messages"`
	MaxTokens   int                  `json:"max_tokens,omitempty"`
	Temperature float64              `json:"temperature,omitempty"`
}

type chatCompletionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func (a *Adapter) Chat(ctx context.Context, req *schema.ChatRequest) (*schema.ChatResponse, error) {
	payload := chatCompletionRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}

	var resp chatCompletionResponse
	if err := httpclient.PostJSON(ctx, a.client, a.url("/chat/completions"), a.headers(), payload, &resp); err != nil {
		return nil, wrapCallError(a.Name(), "chat", err)
	}

	if len(resp.Choices) == 0 {
		return nil, &domain.ProviderCallError{
			Provider: a.Name(), Op: "chat",
			Err: errors.New("malformed response: no choices"),
		}
	}

	return &schema.ChatResponse{
		Text:         resp.Choices[0].Message.Content,
		Model:        resp.Model,
		Provider:     a.Name(),
		FinishReason: resp.Choices[0].FinishReason,
		Usage: schema.Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Model string `json:"model"`
	Data  []struct {
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
	Usage struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

func (a *Adapter) Embed(ctx context.Context, req *schema.EmbedRequest) (*schema.EmbedResponse, error) {
	payload := embeddingRequest{Model: req.Model, Input: req.Texts}

	var resp embeddingResponse
	if err := httpclient.PostJSON(ctx, a.client, a.url("/embeddings"), a.headers(), payload, &resp); err != nil {
		return nil, wrapCallError(a.Name(), "embed", err)
	}

	embeddings := make([][]float64, len(resp.Data))
	for i, d := range resp.Data {
		embeddings[i] = d.Embedding
	}

	return &schema.EmbedResponse{
		Embeddings: embeddings,
		Model:      resp.Model,
		Provider:   a.Name(),
		Usage: schema.Usage{
			InputTokens: resp.Usage.PromptTokens,
			TotalTokens: resp.Usage.TotalTokens,
		},
	}, nil
}

// upstreamErrorBody mirrors the standard OpenAI error shape.
type upstreamErrorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// wrapCallError normalizes transport and upstream failures into the typed
// call error, extracting the vendor message when the body parses.
func wrapCallError(name schema.ProviderName, op string, err error) error {
	var upstream *httpclient.UpstreamError
	if errors.As(err, &upstream) {
		inner := err
		var body upstreamErrorBody
		if jsonErr := json.Unmarshal(upstream.Body, &body); jsonErr == nil && body.Error.Message != "" {
			inner = fmt.Errorf("%s: %s", body.Error.Type, body.Error.Message)
		}
		return &domain.ProviderCallError{
			Provider:   name,
			Op:         op,
			StatusCode: upstream.StatusCode,
			Err:        inner,
		}
	}
	return &domain.ProviderCallError{Provider: name, Op: op, Err: err}
}
