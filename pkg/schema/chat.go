package schema

// ChatMessage is a single turn in a conversation.
type ChatMessage struct {
	Role    string `json:"role" binding:"required,oneof=user assistant system"`
	Content string `json:"content" binding:"required"`
}

// ChatRequest is the capability-agnostic chat envelope. Model is a logical
// hint ("gpt-4"); the model map translates it per provider before dispatch.
// Provider, when set, forces that single provider with no fallback.
type ChatRequest struct {
	Messages    []ChatMessage `json:"messages" binding:"required,min=1,dive"`
	Model       string        `json:"model,omitempty"`
	Provider    ProviderName  `json:"provider,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`

	// ConversationID links the exchange to a stored conversation.
	ConversationID string `json:"conversation_id,omitempty"`
}

// ChatResponse is the normalized result envelope for a chat call.
type ChatResponse struct {
	Text         string       `json:"text"`
	Model        string       `json:"model"`
	Provider     ProviderName `json:"provider"`
	FinishReason string       `json:"finish_reason,omitempty"`
	Usage        Usage        `json:"usage"`
	CostMicros   int64        `json:"cost_micros"`
	LatencyMS    int64        `json:"latency_ms"`
}

// EmbedRequest asks for embeddings of one or more texts.
type EmbedRequest struct {
	Texts    []string     `json:"texts" binding:"required,min=1"`
	Model    string       `json:"model,omitempty"`
	Provider ProviderName `json:"provider,omitempty"`
}

// EmbedResponse carries one vector per input text, in order.
type EmbedResponse struct {
	Embeddings [][]float64  `json:"embeddings"`
	Model      string       `json:"model"`
	Provider   ProviderName `json:"provider"`
	Usage      Usage        `json:"usage"`
	CostMicros int64        `json:"cost_micros"`
	LatencyMS  int64        `json:"latency_ms"`
}
