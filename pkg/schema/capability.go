package schema

// Capability is a category of provider functionality. The set is fixed.
type Capability string

const (
	CapChat         Capability = "chat"
	CapEmbed        Capability = "embed"
	CapExtractText  Capability = "extract_text"
	CapVectorUpsert Capability = "vector_upsert"
	CapVectorQuery  Capability = "vector_query"
)

// ProviderName identifies a configured vendor adapter within a capability
// family's registry.
type ProviderName string

const (
	ProviderOpenAI        ProviderName = "openai"
	ProviderMistral       ProviderName = "mistral"
	ProviderAnthropic     ProviderName = "anthropic"
	ProviderAzureVision   ProviderName = "azure_vision"
	ProviderGoogleVision  ProviderName = "google_vision"
	ProviderMistralVision ProviderName = "mistral_vision"
	ProviderPinecone      ProviderName = "pinecone"
	ProviderWeaviate      ProviderName = "weaviate"
)

// KnownLLMProviders is the enumerable set of LLM vendors the gateway knows
// how to talk to, whether or not they are configured.
var KnownLLMProviders = []ProviderName{
	ProviderOpenAI,
	ProviderMistral,
	ProviderAnthropic,
}

// KnownOCRProviders is the enumerable set of OCR vendors.
var KnownOCRProviders = []ProviderName{
	ProviderAzureVision,
	ProviderGoogleVision,
	ProviderMistralVision,
}

// KnownVectorProviders is the enumerable set of vector-store vendors.
var KnownVectorProviders = []ProviderName{
	ProviderPinecone,
	ProviderWeaviate,
}
