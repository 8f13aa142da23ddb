package registry_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/codemarcinu/ageny-online/internal/core/domain"
	"github.com/codemarcinu/ageny-online/internal/registry"
	"github.com/codemarcinu/ageny-online/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProvider struct {
	name schema.ProviderName
}

func validConfig() domain.ProviderConfig {
	return domain.ProviderConfig{APIKey: "sk-test"}
}

func newTestRegistry() *registry.Registry[*fakeProvider] {
	return registry.New[*fakeProvider](schema.CapChat, schema.KnownLLMProviders, zap.NewNop())
}

func factoryFor(name schema.ProviderName) registry.Factory[*fakeProvider] {
	return func(cfg domain.ProviderConfig) (*fakeProvider, error) {
		return &fakeProvider{name: name}, nil
	}
}

func TestRegister_OrdersByPriority(t *testing.T) {
	r := newTestRegistry()

	require.NoError(t, r.Register(schema.ProviderAnthropic, validConfig(), 3, factoryFor(schema.ProviderAnthropic)))
	require.NoError(t, r.Register(schema.ProviderOpenAI, validConfig(), 1, factoryFor(schema.ProviderOpenAI)))
	require.NoError(t, r.Register(schema.ProviderMistral, validConfig(), 2, factoryFor(schema.ProviderMistral)))

	assert.Equal(t, []schema.ProviderName{
		schema.ProviderOpenAI,
		schema.ProviderMistral,
		schema.ProviderAnthropic,
	}, r.FallbackOrder())
}

func TestRegister_TiesKeepRegistrationOrder(t *testing.T) {
	r := newTestRegistry()

	require.NoError(t, r.Register(schema.ProviderMistral, validConfig(), 1, factoryFor(schema.ProviderMistral)))
	require.NoError(t, r.Register(schema.ProviderOpenAI, validConfig(), 1, factoryFor(schema.ProviderOpenAI)))

	assert.Equal(t, []schema.ProviderName{
		schema.ProviderMistral,
		schema.ProviderOpenAI,
	}, r.FallbackOrder())
}

func TestRegister_InvalidConfigLeavesRegistryUnchanged(t *testing.T) {
	r := newTestRegistry()

	err := r.Register(schema.ProviderOpenAI, domain.ProviderConfig{}, 1, factoryFor(schema.ProviderOpenAI))

	var cfgErr *domain.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, schema.ProviderOpenAI, cfgErr.Provider)
	assert.Contains(t, cfgErr.Missing, "api_key")

	assert.Empty(t, r.FallbackOrder())
	assert.False(t, r.Status()[schema.ProviderOpenAI])
}

func TestGetOrCreate_CachesInstance(t *testing.T) {
	r := newTestRegistry()

	calls := 0
	require.NoError(t, r.Register(schema.ProviderOpenAI, validConfig(), 1,
		func(cfg domain.ProviderConfig) (*fakeProvider, error) {
			calls++
			return &fakeProvider{name: schema.ProviderOpenAI}, nil
		}))

	first, err := r.GetOrCreate(schema.ProviderOpenAI)
	require.NoError(t, err)
	second, err := r.GetOrCreate(schema.ProviderOpenAI)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestGetOrCreate_ConcurrentFirstAccessBuildsOnce(t *testing.T) {
	r := newTestRegistry()

	var mu sync.Mutex
	calls := 0
	require.NoError(t, r.Register(schema.ProviderOpenAI, validConfig(), 1,
		func(cfg domain.ProviderConfig) (*fakeProvider, error) {
			mu.Lock()
			calls++
			mu.Unlock()
			return &fakeProvider{name: schema.ProviderOpenAI}, nil
		}))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.GetOrCreate(schema.ProviderOpenAI)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, calls)
}

func TestGetOrCreate_FailureIsNotCached(t *testing.T) {
	r := newTestRegistry()

	calls := 0
	require.NoError(t, r.Register(schema.ProviderOpenAI, validConfig(), 1,
		func(cfg domain.ProviderConfig) (*fakeProvider, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("transient init failure")
			}
			return &fakeProvider{name: schema.ProviderOpenAI}, nil
		}))

	_, err := r.GetOrCreate(schema.ProviderOpenAI)
	var callErr *domain.ProviderCallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, "construct", callErr.Op)

	p, err := r.GetOrCreate(schema.ProviderOpenAI)
	require.NoError(t, err)
	assert.NotNil(t, p)
	assert.Equal(t, 2, calls)
}

func TestGetOrCreate_UnknownProvider(t *testing.T) {
	r := newTestRegistry()

	_, err := r.GetOrCreate(schema.ProviderOpenAI)

	var ncErr *domain.NotConfiguredError
	require.ErrorAs(t, err, &ncErr)
	assert.Equal(t, schema.CapChat, ncErr.Capability)
	assert.Equal(t, schema.ProviderOpenAI, ncErr.Provider)
}

func TestStatus_CoversKnownSet(t *testing.T) {
	r := newTestRegistry()
	require.NoError(t, r.Register(schema.ProviderMistral, validConfig(), 1, factoryFor(schema.ProviderMistral)))

	status := r.Status()
	assert.Len(t, status, len(schema.KnownLLMProviders))
	assert.True(t, status[schema.ProviderMistral])
	assert.False(t, status[schema.ProviderOpenAI])
	assert.False(t, status[schema.ProviderAnthropic])
}

func TestRegister_ReRegisterKeepsSeq(t *testing.T) {
	r := newTestRegistry()

	require.NoError(t, r.Register(schema.ProviderOpenAI, validConfig(), 1, factoryFor(schema.ProviderOpenAI)))
	require.NoError(t, r.Register(schema.ProviderMistral, validConfig(), 1, factoryFor(schema.ProviderMistral)))

	// re-registering openai with the same priority must not move it behind
	// mistral
	require.NoError(t, r.Register(schema.ProviderOpenAI, validConfig(), 1, factoryFor(schema.ProviderOpenAI)))

	assert.Equal(t, []schema.ProviderName{
		schema.ProviderOpenAI,
		schema.ProviderMistral,
	}, r.FallbackOrder())
}
