package schema

// DefaultOCRConfidence is the placeholder reported for vendors that do not
// return a confidence score. It is a documented sentinel, not a measurement.
const DefaultOCRConfidence = 0.95

// OCRRequest carries raw image bytes for text extraction. The HTTP layer
// fills Image from a multipart upload.
type OCRRequest struct {
	Image    []byte       `json:"-"`
	Model    string       `json:"model,omitempty"`
	Prompt   string       `json:"prompt,omitempty"`
	Provider ProviderName `json:"provider,omitempty"`
}

// OCRResponse is the normalized extraction result.
type OCRResponse struct {
	Text       string       `json:"text"`
	Confidence float64      `json:"confidence"`
	Model      string       `json:"model"`
	Provider   ProviderName `json:"provider"`
	Usage      Usage        `json:"usage"`
	CostMicros int64        `json:"cost_micros"`
	LatencyMS  int64        `json:"latency_ms"`
}
