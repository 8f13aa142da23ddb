package domain

import "github.com/codemarcinu/ageny-online/pkg/schema"

// ProviderConfig is the unified configuration shape for a single provider.
// Which fields are required depends on the provider kind; Validate enforces
// that at registration time.
type ProviderConfig struct {
	APIKey      string            `json:"api_key" yaml:"api_key" mapstructure:"api_key"`
	Endpoint    string            `json:"endpoint" yaml:"endpoint" mapstructure:"endpoint"`
	BaseURL     string            `json:"base_url" yaml:"base_url" mapstructure:"base_url"`
	Environment string            `json:"environment" yaml:"environment" mapstructure:"environment"`
	Extra       map[string]string `json:"extra" yaml:"extra" mapstructure:"extra"`
}

// requiredFields maps each known provider to the config fields it cannot run
// without. BaseURL always has a vendor default and is never required.
var requiredFields = map[schema.ProviderName][]string{
	schema.ProviderOpenAI:        {"api_key"},
	schema.ProviderMistral:       {"api_key"},
	schema.ProviderAnthropic:     {"api_key"},
	schema.ProviderAzureVision:   {"api_key", "endpoint"},
	schema.ProviderGoogleVision:  {"api_key"},
	schema.ProviderMistralVision: {"api_key"},
	schema.ProviderPinecone:      {"api_key", "environment"},
	schema.ProviderWeaviate:      {"endpoint"},
}

func (c ProviderConfig) field(name string) string {
	switch name {
	case "api_key":
		return c.APIKey
	case "endpoint":
		return c.Endpoint
	case "environment":
		return c.Environment
	default:
		return ""
	}
}

// Validate returns a ConfigurationError listing every missing required field
// for the given provider, or nil when the config is complete. Unknown
// providers require at least an API key.
func (c ProviderConfig) Validate(name schema.ProviderName) error {
	required, ok := requiredFields[name]
	if !ok {
		required = []string{"api_key"}
	}

	var missing []string
	for _, f := range required {
		if c.field(f) == "" {
			missing = append(missing, f)
		}
	}

	if len(missing) > 0 {
		return &ConfigurationError{Provider: name, Missing: missing}
	}
	return nil
}
