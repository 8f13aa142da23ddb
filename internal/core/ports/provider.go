package ports

import (
	"context"

	"github.com/codemarcinu/ageny-online/pkg/schema"
)

// ChatProvider is the contract for an LLM vendor. Adapters perform a single
// upstream call per invocation; retries and fallback belong to the
// orchestrator. All failures surface as *domain.ProviderCallError.
type ChatProvider interface {
	Name() schema.ProviderName
	Chat(ctx context.Context, req *schema.ChatRequest) (*schema.ChatResponse, error)
	Embed(ctx context.Context, req *schema.EmbedRequest) (*schema.EmbedResponse, error)
	// Models never fails; it returns the vendor's known model identifiers,
	// or an empty slice when unknown.
	Models() []string
}

// OCRProvider is the contract for a text-extraction vendor.
type OCRProvider interface {
	Name() schema.ProviderName
	ExtractText(ctx context.Context, req *schema.OCRRequest) (*schema.OCRResponse, error)
	Models() []string
}

// VectorStoreProvider is the contract for a vector database vendor.
type VectorStoreProvider interface {
	Name() schema.ProviderName
	Upsert(ctx context.Context, req *schema.VectorUpsertRequest) (*schema.VectorUpsertResponse, error)
	Query(ctx context.Context, req *schema.VectorQueryRequest) (*schema.VectorQueryResponse, error)
}
