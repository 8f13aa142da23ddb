package anthropic

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

const (
	defaultBaseURL = "https://api.anthropic.com/v1"
	defaultVersion = "2023-06-01"
)

type Adapter struct {
	config domain.ProviderConfig
	client *http.Client
}

func New(config domain.ProviderConfig) (ports.ChatProvider, error) {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	return &Adapter{
		config: config,
		client: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

func (a *Adapter) Name() schema.ProviderName {
	return schema.ProviderAnthropic
}

func (a *Adapter) Models() []string {
	return []string{"claude-3-5-sonnet-20241022", "claude-3-5-haiku-20241022"}
}

func (a *Adapter) headers() map[string]string {
	version := a.config.Extra["version"]
	if version == "" {
		version = defaultVersion
	}
	return map[string]string{
		"x-api-key":         a.config.APIKey,
		"anthropic-version": version,
	}
}

type messagesRequest struct {
	Model     string               `json:"model"`
	System    string               `json:"system,omitempty"`
	Messages  []schema.ChatMessage `json:"messages"`
	MaxTokens int                  `json:"max_tokens"`

	Temperature float64 `json:"temperature,omitempty"`
}

type messagesResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func (a *Adapter) Chat(ctx context.Context, req *schema.ChatRequest) (*schema.ChatResponse, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024 // the messages API requires an explicit cap
	}

	// Anthropic takes the system prompt out of band.
	payload := messagesRequest{
		Model:       req.Model,
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
	}
	for _, m := range req.Messages {
		if m.Role == "system" {
			payload.System = m.Content
			continue
		}
		payload.Messages = append(payload.Messages, m)
	}

	url := strings.TrimRight(a.config.BaseURL, "/") + "/messages"

	var resp messagesResponse
	if err := httpclient.PostJSON(ctx, a.client, url, a.headers(), payload, &resp); err != nil {
		return nil, a.wrapCallError("chat", err)
	}

	if len(resp.Content) == 0 {
		return nil, &domain.ProviderCallError{
			Provider: a.Name(), Op: "chat",
			Err: errors.New("malformed response: empty content"),
		}
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return &schema.ChatResponse{
		Text:         text.String(),
		Model:        resp.Model,
		Provider:     a.Name(),
		FinishReason: resp.StopReason,
		Usage: schema.Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
			TotalTokens:  resp.Usage.InputTokens + resp.Usage.OutputTokens,
		},
	}, nil
}

// Embed is not offered by Anthropic. The error is a normal provider failure,
// so the fallback loop simply moves on to a vendor that can embed.
func (a *Adapter) Embed(ctx context.Context, req *schema.EmbedRequest) (*schema.EmbedResponse, error) {
	return nil, &domain.ProviderCallError{
		Provider: a.Name(), Op: "embed",
		Err: errors.New("embeddings not supported by this vendor"),
	}
}

type upstreamErrorBody struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (a *Adapter) wrapCallError(op string, err error) error {
	var upstream *httpclient.UpstreamError
	if errors.As(err, &upstream) {
		inner := err
		var body upstreamErrorBody
		if jsonErr := json.Unmarshal(upstream.Body, &body); jsonErr == nil && body.Error.Message != "" {
			inner = fmt.Errorf("%s: %s", body.Error.Type, body.Error.Message)
		}
		return &domain.ProviderCallError{
			Provider:   a.Name(),
			Op:         op,
			StatusCode: upstream.StatusCode,
			Err:        inner,
		}
	}
	return &domain.ProviderCallError{Provider: a.Name(), Op: op, Err: err}
}
