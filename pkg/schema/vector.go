package schema

// Vector is a single embedding with its identity and optional metadata.
type Vector struct {
	ID       string                 `json:"id" binding:"required"`
	Values   []float32              `json:"values" binding:"required,min=1"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// VectorUpsertRequest writes vectors into a named index/collection.
type VectorUpsertRequest struct {
	Index    string       `json:"index" binding:"required"`
	Vectors  []Vector     `json:"vectors" binding:"required,min=1,dive"`
	Provider ProviderName `json:"provider,omitempty"`
}

type VectorUpsertResponse struct {
	UpsertedCount int          `json:"upserted_count"`
	Provider      ProviderName `json:"provider"`
	CostMicros    int64        `json:"cost_micros"`
	LatencyMS     int64        `json:"latency_ms"`
}

// VectorQueryRequest searches an index for the nearest neighbours of Vector.
type VectorQueryRequest struct {
	Index    string       `json:"index" binding:"required"`
	Vector   []float32    `json:"vector" binding:"required,min=1"`
	TopK     int          `json:"top_k,omitempty"`
	Provider ProviderName `json:"provider,omitempty"`
}

// VectorMatch is one scored neighbour.
type VectorMatch struct {
	ID       string                 `json:"id"`
	Score    float64                `json:"score"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

type VectorQueryResponse struct {
	Matches    []VectorMatch `json:"matches"`
	Provider   ProviderName  `json:"provider"`
	CostMicros int64         `json:"cost_micros"`
	LatencyMS  int64         `json:"latency_ms"`
}
