package v1_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/codemarcinu/ageny-online/internal/core/domain"
	"github.com/codemarcinu/ageny-online/internal/server/middleware"
	v1 "github.com/codemarcinu/ageny-online/internal/server/v1"
	"github.com/codemarcinu/ageny-online/internal/store"
	"github.com/codemarcinu/ageny-online/internal/store/model"
	"github.com/codemarcinu/ageny-online/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubService lets each test pin the behavior of exactly the operations it
// exercises.
type stubService struct {
	chat  func(ctx context.Context, req *schema.ChatRequest) (*schema.ChatResponse, error)
	embed func(ctx context.Context, req *schema.EmbedRequest) (*schema.EmbedResponse, error)
}

func (s *stubService) Chat(ctx context.Context, req *schema.ChatRequest) (*schema.ChatResponse, error) {
	return s.chat(ctx, req)
}

func (s *stubService) Embed(ctx context.Context, req *schema.EmbedRequest) (*schema.EmbedResponse, error) {
	return s.embed(ctx, req)
}

func (s *stubService) ExtractText(ctx context.Context, req *schema.OCRRequest) (*schema.OCRResponse, error) {
	return nil, errors.New("not wired in this test")
}

func (s *stubService) UpsertVectors(ctx context.Context, req *schema.VectorUpsertRequest) (*schema.VectorUpsertResponse, error) {
	return nil, errors.New("not wired in this test")
}

func (s *stubService) QueryVectors(ctx context.Context, req *schema.VectorQueryRequest) (*schema.VectorQueryResponse, error) {
	return nil, errors.New("not wired in this test")
}

func (s *stubService) ProviderStatus() map[schema.Capability]map[schema.ProviderName]bool {
	return nil
}

func (s *stubService) ListModels(ctx context.Context) map[schema.ProviderName][]string {
	return nil
}

func (s *stubService) Conversations() store.ConversationRepository { return nil }

func (s *stubService) DailyStats(ctx context.Context, days int) ([]model.DailyStats, error) {
	return nil, nil
}

func chatEngine(svc *stubService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	domain.InitValidator()

	engine := gin.New()
	engine.Use(middleware.ErrorHandler(zap.NewNop()))

	h := v1.NewChatHandler(svc)
	engine.POST("/chat", h.Chat)
	engine.POST("/embeddings", h.Embed)
	return engine
}

func TestChatHandler_Success(t *testing.T) {
	svc := &stubService{
		chat: func(ctx context.Context, req *schema.ChatRequest) (*schema.ChatResponse, error) {
			return &schema.ChatResponse{
				Text:     "hello",
				Model:    "gpt-4o",
				Provider: schema.ProviderOpenAI,
			}, nil
		},
	}
	engine := chatEngine(svc)

	body := `{"messages": [{"role": "user", "content": "hi"}], "model": "gpt-4"}`
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp schema.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "hello", resp.Text)
	assert.Equal(t, schema.ProviderOpenAI, resp.Provider)
}

func TestChatHandler_ValidationError(t *testing.T) {
	engine := chatEngine(&stubService{})

	// messages is required and must not be empty
	body := `{"messages": []}`
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, "Validation Error", problem["title"])
	assert.Contains(t, problem, "errors")
}

func TestChatHandler_AllProvidersFailedMapsTo502(t *testing.T) {
	svc := &stubService{
		chat: func(ctx context.Context, req *schema.ChatRequest) (*schema.ChatResponse, error) {
			return nil, &domain.AllProvidersFailedError{
				Capability: schema.CapChat,
				Attempted:  []schema.ProviderName{schema.ProviderOpenAI, schema.ProviderMistral},
				Last:       errors.New("timeout"),
			}
		},
	}
	engine := chatEngine(svc)

	body := `{"messages": [{"role": "user", "content": "hi"}]}`
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadGateway, w.Code)

	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, "All Providers Failed", problem["title"])
	assert.Equal(t, []interface{}{"openai", "mistral"}, problem["attempted"])
}

func TestChatHandler_NotConfiguredMapsTo503(t *testing.T) {
	svc := &stubService{
		chat: func(ctx context.Context, req *schema.ChatRequest) (*schema.ChatResponse, error) {
			return nil, &domain.NotConfiguredError{Capability: schema.CapChat}
		},
	}
	engine := chatEngine(svc)

	body := `{"messages": [{"role": "user", "content": "hi"}]}`
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestEmbedHandler_Success(t *testing.T) {
	svc := &stubService{
		embed: func(ctx context.Context, req *schema.EmbedRequest) (*schema.EmbedResponse, error) {
			return &schema.EmbedResponse{
				Embeddings: [][]float64{{0.5}},
				Provider:   schema.ProviderOpenAI,
			}, nil
		},
	}
	engine := chatEngine(svc)

	body := `{"texts": ["hello"]}`
	req := httptest.NewRequest(http.MethodPost, "/embeddings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp schema.EmbedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Embeddings, 1)
}
