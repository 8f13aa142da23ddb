package orchestrator_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/codemarcinu/ageny-online/internal/core/domain"
	"github.com/codemarcinu/ageny-online/internal/orchestrator"
	"github.com/codemarcinu/ageny-online/internal/registry"
	"github.com/codemarcinu/ageny-online/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubProvider struct {
	name schema.ProviderName
}

func register(t *testing.T, r *registry.Registry[*stubProvider], name schema.ProviderName, priority int) {
	t.Helper()
	err := r.Register(name, domain.ProviderConfig{APIKey: "sk-test"}, priority,
		func(cfg domain.ProviderConfig) (*stubProvider, error) {
			return &stubProvider{name: name}, nil
		})
	require.NoError(t, err)
}

func newOrchestrator(r *registry.Registry[*stubProvider]) *orchestrator.Orchestrator[*stubProvider] {
	return orchestrator.New[*stubProvider](r, time.Second, zap.NewNop())
}

func TestExecute_FirstSuccessWins(t *testing.T) {
	r := registry.New[*stubProvider](schema.CapChat, schema.KnownLLMProviders, zap.NewNop())
	register(t, r, schema.ProviderOpenAI, 1)
	register(t, r, schema.ProviderMistral, 2)
	register(t, r, schema.ProviderAnthropic, 3)

	var tried []schema.ProviderName
	result, err := orchestrator.Execute(context.Background(), newOrchestrator(r), "", "chat",
		func(ctx context.Context, p *stubProvider, name schema.ProviderName) (string, error) {
			tried = append(tried, name)
			if name == schema.ProviderAnthropic {
				return "answer from " + string(name), nil
			}
			return "", &domain.ProviderCallError{Provider: name, Op: "chat", Err: errors.New("boom")}
		})

	require.NoError(t, err)
	assert.Equal(t, "answer from anthropic", result)
	assert.Equal(t, []schema.ProviderName{
		schema.ProviderOpenAI,
		schema.ProviderMistral,
		schema.ProviderAnthropic,
	}, tried)
}

func TestExecute_StopsAfterSuccess(t *testing.T) {
	r := registry.New[*stubProvider](schema.CapChat, schema.KnownLLMProviders, zap.NewNop())
	register(t, r, schema.ProviderOpenAI, 1)
	register(t, r, schema.ProviderMistral, 2)

	calls := 0
	_, err := orchestrator.Execute(context.Background(), newOrchestrator(r), "", "chat",
		func(ctx context.Context, p *stubProvider, name schema.ProviderName) (string, error) {
			calls++
			return "ok", nil
		})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestExecute_AllFail(t *testing.T) {
	r := registry.New[*stubProvider](schema.CapChat, schema.KnownLLMProviders, zap.NewNop())
	register(t, r, schema.ProviderOpenAI, 1)
	register(t, r, schema.ProviderMistral, 2)

	lastErr := errors.New("mistral down")
	_, err := orchestrator.Execute(context.Background(), newOrchestrator(r), "", "chat",
		func(ctx context.Context, p *stubProvider, name schema.ProviderName) (string, error) {
			if name == schema.ProviderMistral {
				return "", &domain.ProviderCallError{Provider: name, Op: "chat", Err: lastErr}
			}
			return "", &domain.ProviderCallError{Provider: name, Op: "chat", Err: errors.New("openai down")}
		})

	var allErr *domain.AllProvidersFailedError
	require.ErrorAs(t, err, &allErr)
	assert.Equal(t, schema.CapChat, allErr.Capability)
	assert.Equal(t, []schema.ProviderName{
		schema.ProviderOpenAI,
		schema.ProviderMistral,
	}, allErr.Attempted)
	assert.ErrorIs(t, allErr.Last, lastErr)
}

func TestExecute_NoProvidersConfigured(t *testing.T) {
	r := registry.New[*stubProvider](schema.CapChat, schema.KnownLLMProviders, zap.NewNop())

	calls := 0
	_, err := orchestrator.Execute(context.Background(), newOrchestrator(r), "", "chat",
		func(ctx context.Context, p *stubProvider, name schema.ProviderName) (string, error) {
			calls++
			return "", nil
		})

	var ncErr *domain.NotConfiguredError
	require.ErrorAs(t, err, &ncErr)
	assert.Equal(t, schema.CapChat, ncErr.Capability)
	assert.Empty(t, ncErr.Provider)
	assert.Zero(t, calls)
}

func TestExecute_OverrideBypassesFallback(t *testing.T) {
	r := registry.New[*stubProvider](schema.CapChat, schema.KnownLLMProviders, zap.NewNop())
	register(t, r, schema.ProviderOpenAI, 1)
	register(t, r, schema.ProviderMistral, 2)

	var tried []schema.ProviderName
	result, err := orchestrator.Execute(context.Background(), newOrchestrator(r), schema.ProviderMistral, "chat",
		func(ctx context.Context, p *stubProvider, name schema.ProviderName) (string, error) {
			tried = append(tried, name)
			return "forced", nil
		})

	require.NoError(t, err)
	assert.Equal(t, "forced", result)
	assert.Equal(t, []schema.ProviderName{schema.ProviderMistral}, tried)
}

func TestExecute_OverrideFailurePropagatesRaw(t *testing.T) {
	r := registry.New[*stubProvider](schema.CapChat, schema.KnownLLMProviders, zap.NewNop())
	register(t, r, schema.ProviderOpenAI, 1)
	register(t, r, schema.ProviderMistral, 2)

	callErr := &domain.ProviderCallError{Provider: schema.ProviderOpenAI, Op: "chat", Err: errors.New("quota")}
	_, err := orchestrator.Execute(context.Background(), newOrchestrator(r), schema.ProviderOpenAI, "chat",
		func(ctx context.Context, p *stubProvider, name schema.ProviderName) (string, error) {
			return "", callErr
		})

	// an explicit override never falls back, so the single failure comes
	// through untouched
	var allErr *domain.AllProvidersFailedError
	assert.False(t, errors.As(err, &allErr))

	var got *domain.ProviderCallError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, schema.ProviderOpenAI, got.Provider)
}

func TestExecute_OverrideUnknownProvider(t *testing.T) {
	r := registry.New[*stubProvider](schema.CapChat, schema.KnownLLMProviders, zap.NewNop())
	register(t, r, schema.ProviderOpenAI, 1)

	_, err := orchestrator.Execute(context.Background(), newOrchestrator(r), schema.ProviderAnthropic, "chat",
		func(ctx context.Context, p *stubProvider, name schema.ProviderName) (string, error) {
			t.Fatal("call must not run for an unregistered override")
			return "", nil
		})

	var ncErr *domain.NotConfiguredError
	require.ErrorAs(t, err, &ncErr)
	assert.Equal(t, schema.ProviderAnthropic, ncErr.Provider)
}

func TestExecute_AttemptTimeoutCountsAsProviderFailure(t *testing.T) {
	r := registry.New[*stubProvider](schema.CapChat, schema.KnownLLMProviders, zap.NewNop())
	register(t, r, schema.ProviderOpenAI, 1)
	register(t, r, schema.ProviderMistral, 2)

	o := orchestrator.New[*stubProvider](r, 20*time.Millisecond, zap.NewNop())

	result, err := orchestrator.Execute(context.Background(), o, "", "chat",
		func(ctx context.Context, p *stubProvider, name schema.ProviderName) (string, error) {
			if name == schema.ProviderOpenAI {
				select {
				case <-ctx.Done():
					return "", ctx.Err()
				case <-time.After(time.Second):
					return "too late", nil
				}
			}
			return "fallback ok", nil
		})

	require.NoError(t, err)
	assert.Equal(t, "fallback ok", result)
}

func TestExecute_WrapsUntypedErrors(t *testing.T) {
	r := registry.New[*stubProvider](schema.CapChat, schema.KnownLLMProviders, zap.NewNop())
	register(t, r, schema.ProviderOpenAI, 1)

	plain := errors.New("connection reset")
	_, err := orchestrator.Execute(context.Background(), newOrchestrator(r), schema.ProviderOpenAI, "chat",
		func(ctx context.Context, p *stubProvider, name schema.ProviderName) (string, error) {
			return "", plain
		})

	var callErr *domain.ProviderCallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, schema.ProviderOpenAI, callErr.Provider)
	assert.Equal(t, "chat", callErr.Op)
	assert.ErrorIs(t, callErr.Err, plain)
}
