// Package mistral adapts the Mistral "La Plateforme" API. Mistral speaks the
// OpenAI wire format, so the adapter reuses the OpenAI transport under its
// own identity.
package mistral

import (
	"github.com/codemarcinu/ageny-online/internal/core/domain"
	"github.com/codemarcinu/ageny-online/internal/core/ports"
	"github.com/codemarcinu/ageny-online/internal/provider/openai"
	"github.com/codemarcinu/ageny-online/pkg/schema"
)

const defaultBaseURL = "https://api.mistral.ai/v1"

func New(config domain.ProviderConfig) (ports.ChatProvider, error) {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	return openai.NewCompatible(schema.ProviderMistral, config,
		[]string{"mistral-large-latest", "mistral-small-latest", "mistral-embed"})
}
