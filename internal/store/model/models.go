package model

import "time"

// RequestLog captures one completed capability call: what was asked, which
// provider served it, what it consumed and what it cost.
type RequestLog struct {
	ID              string    `db:"id" json:"id"`
	Capability      string    `db:"capability" json:"capability"`
	ProviderID      string    `db:"provider_id" json:"provider_id"`
	ModelHint       string    `db:"model_hint" json:"model_hint"`
	UpstreamModelID string    `db:"upstream_model_id" json:"upstream_model_id"`
	ConversationID  string    `db:"conversation_id" json:"conversation_id,omitempty"`
	InputTokens     int       `db:"input_tokens" json:"input_tokens"`
	OutputTokens    int       `db:"output_tokens" json:"output_tokens"`
	LatencyMS       int64     `db:"latency_ms" json:"latency_ms"`
	StatusCode      int       `db:"status_code" json:"status_code"`
	CostMicros      int64     `db:"cost_micros" json:"cost_micros"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// DailyStats is an aggregate over request logs for one day.
type DailyStats struct {
	Day          string `db:"day" json:"day"`
	Requests     int    `db:"requests" json:"requests"`
	InputTokens  int    `db:"input_tokens" json:"input_tokens"`
	OutputTokens int    `db:"output_tokens" json:"output_tokens"`
	CostMicros   int64  `db:"cost_micros" json:"cost_micros"`
}

// Conversation groups chat messages exchanged through the gateway.
type Conversation struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Message is one turn of a stored conversation.
type Message struct {
	ID             string    `db:"id" json:"id"`
	ConversationID string    `db:"conversation_id" json:"conversation_id"`
	Role           string    `db:"role" json:"role"`
	Content        string    `db:"content" json:"content"`
	ProviderID     string    `db:"provider_id" json:"provider_id,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
