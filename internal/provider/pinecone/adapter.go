// Package pinecone adapts the Pinecone data-plane REST API.
package pinecone

import (
	"context"
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

type Adapter struct {
	config domain.ProviderConfig
	client *http.Client
}

func New(config domain.ProviderConfig) (ports.VectorStoreProvider, error) {
	return &Adapter{
		config: config,
		client: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (a *Adapter) Name() schema.ProviderName {
	return schema.ProviderPinecone
}

// indexURL builds the data-plane host for an index. An explicit endpoint in
// the config (e.g. a serverless index host) wins over the derived form.
func (a *Adapter) indexURL(index string) string {
	if a.config.Endpoint != "" {
		return strings.TrimRight(a.config.Endpoint, "/")
	}
	return fmt.Sprintf("https://%s.svc.%s.pinecone.io", index, a.config.Environment)
}

func (a *Adapter) headers() map[string]string {
	return map[string]string{"Api-Key": a.config.APIKey}
}

type upsertRequest struct {
	Vectors []schema.Vector `json:"vectors"`
}

type upsertResponse struct {
	UpsertedCount int `json:"upsertedCount"`
}

func (a *Adapter) Upsert(ctx context.Context, req *schema.VectorUpsertRequest) (*schema.VectorUpsertResponse, error) {
	url := a.indexURL(req.Index) + "/vectors/upsert"

	var resp upsertResponse
	if err := httpclient.PostJSON(ctx, a.client, url, a.headers(), upsertRequest{Vectors: req.Vectors}, &resp); err != nil {
		return nil, wrapCallError(a.Name(), "vector_upsert", err)
	}

	return &schema.VectorUpsertResponse{
		UpsertedCount: resp.UpsertedCount,
		Provider:      a.Name(),
	}, nil
}

type queryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeMetadata bool      `json:"includeMetadata"`
}

type queryResponse struct {
	Matches []struct {
		ID       string                 `json:"id"`
		Score    float64                `json:"score"`
		Metadata map[string]interface{} `json:"metadata"`
	} `json:"matches"`
}

func (a *Adapter) Query(ctx context.Context, req *schema.VectorQueryRequest) (*schema.VectorQueryResponse, error) {
	topK := req.TopK
	if topK == 0 {
		topK = 10
	}

	url := a.indexURL(req.Index) + "/query"
	payload := queryRequest{Vector: req.Vector, TopK: topK, IncludeMetadata: true}

	var resp queryResponse
	if err := httpclient.PostJSON(ctx, a.client, url, a.headers(), payload, &resp); err != nil {
		return nil, wrapCallError(a.Name(), "vector_query", err)
	}

	matches := make([]schema.VectorMatch, len(resp.Matches))
	for i, m := range resp.Matches {
		matches[i] = schema.VectorMatch{ID: m.ID, Score: m.Score, Metadata: m.Metadata}
	}

	return &schema.VectorQueryResponse{
		Matches:  matches,
		Provider: a.Name(),
	}, nil
}

func wrapCallError(name schema.ProviderName, op string, err error) error {
	var upstream *httpclient.UpstreamError
	if errors.As(err, &upstream) {
		return &domain.ProviderCallError{
			Provider:   name,
			Op:         op,
			StatusCode: upstream.StatusCode,
			Err:        err,
		}
	}
	return &domain.ProviderCallError{Provider: name, Op: op, Err: err}
}
