// Package weaviate adapts the Weaviate REST and GraphQL APIs. The index name
// maps to a Weaviate class; vectors ride alongside object properties.
package weaviate

import (
	"context"
	"encoding/json"
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
	return schema.ProviderWeaviate
}

func (a *Adapter) url(path string) string {
	return strings.TrimRight(a.config.Endpoint, "/") + path
}

func (a *Adapter) headers() map[string]string {
	h := map[string]string{}
	if a.config.APIKey != "" {
		h["Authorization"] = "Bearer " + a.config.APIKey
	}
	return h
}

type weaviateObject struct {
	Class      string                 `json:"class"`
	ID         string                 `json:"id,omitempty"`
	Vector     []float32              `json:"vector"`
	Properties map[string]interface{} `json:"properties"`
}

type batchRequest struct {
	Objects []weaviateObject `json:"objects"`
}

type batchResult struct {
	Result struct {
		Status string `json:"status"`
	} `json:"result"`
}

func (a *Adapter) Upsert(ctx context.Context, req *schema.VectorUpsertRequest) (*schema.VectorUpsertResponse, error) {
	objects := make([]weaviateObject, len(req.Vectors))
	for i, v := range req.Vectors {
		props := v.Metadata
		if props == nil {
			props = map[string]interface{}{}
		}
		objects[i] = weaviateObject{
			Class:      req.Index,
			ID:         v.ID,
			Vector:     v.Values,
			Properties: props,
		}
	}

	var results []batchResult
	if err := httpclient.PostJSON(ctx, a.client, a.url("/v1/batch/objects"), a.headers(), batchRequest{Objects: objects}, &results); err != nil {
		return nil, wrapCallError(a.Name(), "vector_upsert", err)
	}

	count := 0
	for _, r := range results {
		if r.Result.Status == "" || r.Result.Status == "SUCCESS" {
			count++
		}
	}

	return &schema.VectorUpsertResponse{
		UpsertedCount: count,
		Provider:      a.Name(),
	}, nil
}

type graphqlRequest struct {
	Query string `json:"query"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (a *Adapter) Query(ctx context.Context, req *schema.VectorQueryRequest) (*schema.VectorQueryResponse, error) {
	topK := req.TopK
	if topK == 0 {
		topK = 10
	}

	vector := make([]string, len(req.Vector))
	for i, v := range req.Vector {
		vector[i] = fmt.Sprintf("%g", v)
	}

	query := fmt.Sprintf(
		`{ Get { %s(nearVector: {vector: [%s]}, limit: %d) { _additional { id certainty } } } }`,
		req.Index, strings.Join(vector, ","), topK,
	)

	var resp graphqlResponse
	if err := httpclient.PostJSON(ctx, a.client, a.url("/v1/graphql"), a.headers(), graphqlRequest{Query: query}, &resp); err != nil {
		return nil, wrapCallError(a.Name(), "vector_query", err)
	}
	if len(resp.Errors) > 0 {
		return nil, &domain.ProviderCallError{
			Provider: a.Name(), Op: "vector_query",
			Err: errors.New(resp.Errors[0].Message),
		}
	}

	matches, err := parseMatches(resp.Data, req.Index)
	if err != nil {
		return nil, &domain.ProviderCallError{Provider: a.Name(), Op: "vector_query", Err: err}
	}

	return &schema.VectorQueryResponse{
		Matches:  matches,
		Provider: a.Name(),
	}, nil
}

func parseMatches(data json.RawMessage, class string) ([]schema.VectorMatch, error) {
	var parsed struct {
		Get map[string][]struct {
			Additional struct {
				ID        string  `json:"id"`
				Certainty float64 `json:"certainty"`
			} `json:"_additional"`
		} `json:"Get"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("malformed graphql payload: %w", err)
	}

	rows := parsed.Get[class]
	matches := make([]schema.VectorMatch, len(rows))
	for i, row := range rows {
		matches[i] = schema.VectorMatch{
			ID:    row.Additional.ID,
			Score: row.Additional.Certainty,
		}
	}
	return matches, nil
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
