package gateway_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/codemarcinu/ageny-online/internal/core/domain"
	"github.com/codemarcinu/ageny-online/internal/core/ports"
	"github.com/codemarcinu/ageny-online/internal/gateway"
	"github.com/codemarcinu/ageny-online/internal/modelmap"
	"github.com/codemarcinu/ageny-online/internal/orchestrator"
	"github.com/codemarcinu/ageny-online/internal/registry"
	"github.com/codemarcinu/ageny-online/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeChatProvider records the model it was dispatched with and either fails
// or echoes a canned answer.
type fakeChatProvider struct {
	name      schema.ProviderName
	fail      bool
	seenModel string
}

func (f *fakeChatProvider) Name() schema.ProviderName { return f.name }
func (f *fakeChatProvider) Models() []string          { return []string{"fake-model"} }

func (f *fakeChatProvider) Chat(ctx context.Context, req *schema.ChatRequest) (*schema.ChatResponse, error) {
	f.seenModel = req.Model
	if f.fail {
		return nil, &domain.ProviderCallError{Provider: f.name, Op: "chat", Err: errors.New("unavailable")}
	}
	return &schema.ChatResponse{
		Text:     "ok",
		Model:    req.Model,
		Provider: f.name,
		Usage:    schema.Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15},
	}, nil
}

func (f *fakeChatProvider) Embed(ctx context.Context, req *schema.EmbedRequest) (*schema.EmbedResponse, error) {
	f.seenModel = req.Model
	if f.fail {
		return nil, &domain.ProviderCallError{Provider: f.name, Op: "embed", Err: errors.New("unavailable")}
	}
	return &schema.EmbedResponse{
		Embeddings: [][]float64{{0.1, 0.2}},
		Model:      req.Model,
		Provider:   f.name,
		Usage:      schema.Usage{InputTokens: 4, TotalTokens: 4},
	}, nil
}

func newService(t *testing.T, providers map[schema.ProviderName]*fakeChatProvider, priorities map[schema.ProviderName]int) gateway.Service {
	t.Helper()
	log := zap.NewNop()

	llmReg := registry.New[ports.ChatProvider](schema.CapChat, schema.KnownLLMProviders, log)
	for name, p := range providers {
		provider := p
		err := llmReg.Register(name, domain.ProviderConfig{APIKey: "sk-test"}, priorities[name],
			func(cfg domain.ProviderConfig) (ports.ChatProvider, error) { return provider, nil })
		require.NoError(t, err)
	}

	ocrReg := registry.New[ports.OCRProvider](schema.CapExtractText, schema.KnownOCRProviders, log)
	vecReg := registry.New[ports.VectorStoreProvider](schema.CapVectorUpsert, schema.KnownVectorProviders, log)

	return gateway.NewService(log,
		orchestrator.New[ports.ChatProvider](llmReg, time.Second, log),
		orchestrator.New[ports.OCRProvider](ocrReg, time.Second, log),
		orchestrator.New[ports.VectorStoreProvider](vecReg, time.Second, log),
		modelmap.NewTable(), nil, nil)
}

func TestChat_FallsBackToSecondProvider(t *testing.T) {
	openai := &fakeChatProvider{name: schema.ProviderOpenAI, fail: true}
	mistral := &fakeChatProvider{name: schema.ProviderMistral}

	svc := newService(t,
		map[schema.ProviderName]*fakeChatProvider{
			schema.ProviderOpenAI:  openai,
			schema.ProviderMistral: mistral,
		},
		map[schema.ProviderName]int{
			schema.ProviderOpenAI:  1,
			schema.ProviderMistral: 2,
		})

	resp, err := svc.Chat(context.Background(), &schema.ChatRequest{
		Messages: []schema.ChatMessage{{Role: "user", Content: "hi"}},
		Model:    "gpt-4",
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, schema.ProviderMistral, resp.Provider)

	// the hint is translated per candidate before each dispatch
	assert.Equal(t, "gpt-4o", openai.seenModel)
	assert.Equal(t, "mistral-large-latest", mistral.seenModel)
}

func TestChat_StampsLatencyAndCost(t *testing.T) {
	mistral := &fakeChatProvider{name: schema.ProviderMistral}
	svc := newService(t,
		map[schema.ProviderName]*fakeChatProvider{schema.ProviderMistral: mistral},
		map[schema.ProviderName]int{schema.ProviderMistral: 1})

	resp, err := svc.Chat(context.Background(), &schema.ChatRequest{
		Messages: []schema.ChatMessage{{Role: "user", Content: "hi"}},
		Model:    "gpt-4",
	})

	require.NoError(t, err)
	assert.GreaterOrEqual(t, resp.LatencyMS, int64(0))
	// 10 in * 2000/1K + 5 out * 6000/1K, truncated
	assert.Equal(t, int64(50), resp.CostMicros)
}

func TestChat_UnknownModelCostsZero(t *testing.T) {
	mistral := &fakeChatProvider{name: schema.ProviderMistral}
	svc := newService(t,
		map[schema.ProviderName]*fakeChatProvider{schema.ProviderMistral: mistral},
		map[schema.ProviderName]int{schema.ProviderMistral: 1})

	resp, err := svc.Chat(context.Background(), &schema.ChatRequest{
		Messages: []schema.ChatMessage{{Role: "user", Content: "hi"}},
		Model:    "my-custom-finetune",
	})

	require.NoError(t, err)
	assert.Equal(t, "my-custom-finetune", resp.Model)
	assert.Zero(t, resp.CostMicros)
}

func TestChat_AllProvidersFailed(t *testing.T) {
	svc := newService(t,
		map[schema.ProviderName]*fakeChatProvider{
			schema.ProviderOpenAI:  {name: schema.ProviderOpenAI, fail: true},
			schema.ProviderMistral: {name: schema.ProviderMistral, fail: true},
		},
		map[schema.ProviderName]int{
			schema.ProviderOpenAI:  1,
			schema.ProviderMistral: 2,
		})

	_, err := svc.Chat(context.Background(), &schema.ChatRequest{
		Messages: []schema.ChatMessage{{Role: "user", Content: "hi"}},
	})

	var allErr *domain.AllProvidersFailedError
	require.ErrorAs(t, err, &allErr)
	assert.Equal(t, []schema.ProviderName{
		schema.ProviderOpenAI,
		schema.ProviderMistral,
	}, allErr.Attempted)
}

func TestChat_ProviderOverride(t *testing.T) {
	openai := &fakeChatProvider{name: schema.ProviderOpenAI}
	mistral := &fakeChatProvider{name: schema.ProviderMistral}

	svc := newService(t,
		map[schema.ProviderName]*fakeChatProvider{
			schema.ProviderOpenAI:  openai,
			schema.ProviderMistral: mistral,
		},
		map[schema.ProviderName]int{
			schema.ProviderOpenAI:  1,
			schema.ProviderMistral: 2,
		})

	resp, err := svc.Chat(context.Background(), &schema.ChatRequest{
		Messages: []schema.ChatMessage{{Role: "user", Content: "hi"}},
		Provider: schema.ProviderMistral,
	})

	require.NoError(t, err)
	assert.Equal(t, schema.ProviderMistral, resp.Provider)
	assert.Empty(t, openai.seenModel)
}

func TestExtractText_NoProvidersConfigured(t *testing.T) {
	svc := newService(t, nil, nil)

	_, err := svc.ExtractText(context.Background(), &schema.OCRRequest{Image: []byte{0xFF}})

	var ncErr *domain.NotConfiguredError
	require.ErrorAs(t, err, &ncErr)
	assert.Equal(t, schema.CapExtractText, ncErr.Capability)
}

func TestEmbed_UsesEmbeddingDefault(t *testing.T) {
	openai := &fakeChatProvider{name: schema.ProviderOpenAI}
	svc := newService(t,
		map[schema.ProviderName]*fakeChatProvider{schema.ProviderOpenAI: openai},
		map[schema.ProviderName]int{schema.ProviderOpenAI: 1})

	resp, err := svc.Embed(context.Background(), &schema.EmbedRequest{Texts: []string{"hello"}})

	require.NoError(t, err)
	assert.Equal(t, "text-embedding-3-small", openai.seenModel)
	assert.Len(t, resp.Embeddings, 1)
}

func TestProviderStatus_ReportsAllFamilies(t *testing.T) {
	svc := newService(t,
		map[schema.ProviderName]*fakeChatProvider{
			schema.ProviderOpenAI: {name: schema.ProviderOpenAI},
		},
		map[schema.ProviderName]int{schema.ProviderOpenAI: 1})

	status := svc.ProviderStatus()
	assert.True(t, status[schema.CapChat][schema.ProviderOpenAI])
	assert.False(t, status[schema.CapChat][schema.ProviderAnthropic])
	assert.False(t, status[schema.CapExtractText][schema.ProviderAzureVision])
	assert.False(t, status[schema.CapVectorUpsert][schema.ProviderPinecone])
}
