package schema

// Usage reports token (or operation) consumption for a single provider call.
// Vendors that omit usage degrade to zero values; the primary payload is
// never failed over missing usage.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}
