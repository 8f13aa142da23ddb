package gateway

import (
	"github.com/codemarcinu/ageny-online/internal/config"
	"github.com/codemarcinu/ageny-online/internal/core/ports"
	"github.com/codemarcinu/ageny-online/internal/provider/anthropic"
	"github.com/codemarcinu/ageny-online/internal/provider/azurevision"
	"github.com/codemarcinu/ageny-online/internal/provider/googlevision"
	"github.com/codemarcinu/ageny-online/internal/provider/mistral"
	"github.com/codemarcinu/ageny-online/internal/provider/mistralvision"
	"github.com/codemarcinu/ageny-online/internal/provider/openai"
	"github.com/codemarcinu/ageny-online/internal/provider/pinecone"
	"github.com/codemarcinu/ageny-online/internal/provider/weaviate"
	"github.com/codemarcinu/ageny-online/internal/registry"
	"github.com/codemarcinu/ageny-online/pkg/schema"
	"go.uber.org/zap"
)

// Factory tables: which adapter constructor serves each provider name. All
// wiring is explicit; there is no init()-time global registration.

var llmFactories = map[schema.ProviderName]registry.Factory[ports.ChatProvider]{
	schema.ProviderOpenAI:    openai.New,
	schema.ProviderMistral:   mistral.New,
	schema.ProviderAnthropic: anthropic.New,
}

var ocrFactories = map[schema.ProviderName]registry.Factory[ports.OCRProvider]{
	schema.ProviderAzureVision:   azurevision.New,
	schema.ProviderGoogleVision:  googlevision.New,
	schema.ProviderMistralVision: mistralvision.New,
}

var vectorFactories = map[schema.ProviderName]registry.Factory[ports.VectorStoreProvider]{
	schema.ProviderPinecone: pinecone.New,
	schema.ProviderWeaviate: weaviate.New,
}

// Registries bundles the three capability-family registries built from
// configuration.
type Registries struct {
	LLM     *registry.Registry[ports.ChatProvider]
	OCR     *registry.Registry[ports.OCRProvider]
	Vectors *registry.Registry[ports.VectorStoreProvider]
}

// BuildRegistries registers every enabled provider from configuration. A
// registration that fails validation is logged and skipped; the provider
// stays unregistered and the rest continue.
func BuildRegistries(cfg *config.Config, logger *zap.Logger) *Registries {
	r := &Registries{
		LLM:     registry.New[ports.ChatProvider](schema.CapChat, schema.KnownLLMProviders, logger),
		OCR:     registry.New[ports.OCRProvider](schema.CapExtractText, schema.KnownOCRProviders, logger),
		Vectors: registry.New[ports.VectorStoreProvider](schema.CapVectorUpsert, schema.KnownVectorProviders, logger),
	}

	for _, entry := range cfg.Providers.LLM {
		if !entry.Enabled {
			continue
		}
		name := schema.ProviderName(entry.Name)
		factory, ok := llmFactories[name]
		if !ok {
			logger.Error("unknown LLM provider in config", zap.String("name", entry.Name))
			continue
		}
		if err := r.LLM.Register(name, entry.ProviderConfig(), entry.Priority, factory); err != nil {
			logger.Warn("skipping misconfigured LLM provider",
				zap.String("name", entry.Name), zap.Error(err))
		}
	}

	for _, entry := range cfg.Providers.OCR {
		if !entry.Enabled {
			continue
		}
		name := schema.ProviderName(entry.Name)
		factory, ok := ocrFactories[name]
		if !ok {
			logger.Error("unknown OCR provider in config", zap.String("name", entry.Name))
			continue
		}
		if err := r.OCR.Register(name, entry.ProviderConfig(), entry.Priority, factory); err != nil {
			logger.Warn("skipping misconfigured OCR provider",
				zap.String("name", entry.Name), zap.Error(err))
		}
	}

	for _, entry := range cfg.Providers.Vector {
		if !entry.Enabled {
			continue
		}
		name := schema.ProviderName(entry.Name)
		factory, ok := vectorFactories[name]
		if !ok {
			logger.Error("unknown vector provider in config", zap.String("name", entry.Name))
			continue
		}
		if err := r.Vectors.Register(name, entry.ProviderConfig(), entry.Priority, factory); err != nil {
			logger.Warn("skipping misconfigured vector provider",
				zap.String("name", entry.Name), zap.Error(err))
		}
	}

	if len(r.LLM.FallbackOrder()) == 0 {
		logger.Warn("no LLM providers registered, chat and embed will be unavailable")
	}

	return r
}
