package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/codemarcinu/ageny-online/pkg/schema"
)

// ConfigurationError reports a registration whose config is missing required
// fields. The offending provider remains unregistered.
type ConfigurationError struct {
	Provider schema.ProviderName
	Missing  []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("provider %s: missing required config fields: %s",
		e.Provider, strings.Join(e.Missing, ", "))
}

// NotConfiguredError means a capability has no registered providers, or an
// explicit override named a provider that was never registered.
type NotConfiguredError struct {
	Capability schema.Capability
	Provider   schema.ProviderName // empty when the whole capability is bare
}

func (e *NotConfiguredError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("provider %s is not configured for %s", e.Provider, e.Capability)
	}
	return fmt.Sprintf("no providers configured for %s", e.Capability)
}

// ProviderCallError is any failure of a single adapter invocation: transport,
// auth, malformed payload, or timeout. Adapters always raise it upward; only
// the fallback loop may swallow it.
type ProviderCallError struct {
	Provider   schema.ProviderName
	Op         string
	StatusCode int // 0 when the failure happened before an HTTP status existed
	Err        error
}

func (e *ProviderCallError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s %s failed (status %d): %v", e.Provider, e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderCallError) Unwrap() error { return e.Err }

// AllProvidersFailedError means every candidate in a multi-provider fallback
// attempt failed. Attempted preserves the order in which they were tried.
type AllProvidersFailedError struct {
	Capability schema.Capability
	Attempted  []schema.ProviderName
	Last       error
}

func (e *AllProvidersFailedError) Error() string {
	names := make([]string, len(e.Attempted))
	for i, p := range e.Attempted {
		names[i] = string(p)
	}
	return fmt.Sprintf("all providers failed for %s (tried %s): %v",
		e.Capability, strings.Join(names, ", "), e.Last)
}

func (e *AllProvidersFailedError) Unwrap() error { return e.Last }

// Problem implements RFC 9457.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	Extensions map[string]interface{} `json:"-"`

	Log error `json:"-"`
}

func (p *Problem) Error() string {
	return fmt.Sprintf("[%d] %s: %s", p.Status, p.Title, p.Detail)
}

func (p *Problem) MarshalJSON() ([]byte, error) {
	type alias Problem

	data := make(map[string]interface{})
	for k, v := range p.Extensions {
		data[k] = v
	}

	base, _ := json.Marshal(alias(*p))
	_ = json.Unmarshal(base, &data)

	return json.Marshal(data)
}

type ProblemOption func(*Problem)

// NewProblem creates a generic Problem.
func NewProblem(status int, title, detail string, opts ...ProblemOption) *Problem {
	p := &Problem{
		Type:       "about:blank",
		Title:      title,
		Status:     status,
		Detail:     detail,
		Extensions: make(map[string]interface{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WithExtension adds a custom key-value pair to the response body.
func WithExtension(key string, value interface{}) ProblemOption {
	return func(p *Problem) {
		p.Extensions[key] = value
	}
}

// WithLog attaches an internal error for server-side logging only.
func WithLog(err error) ProblemOption {
	return func(p *Problem) {
		p.Log = err
	}
}

// ValidationProblem wraps field-level binding failures.
func ValidationProblem(fieldErrors map[string]string) *Problem {
	return NewProblem(
		http.StatusBadRequest,
		"Validation Error",
		"One or more fields failed validation",
		WithExtension("errors", fieldErrors),
	)
}

// ProblemFrom maps the gateway error taxonomy onto an RFC 9457 problem.
// Configuration problems are client-correctable; provider failures are
// upstream failures. Attempted providers and the last error message are
// included so callers can diagnose without seeing credentials.
func ProblemFrom(err error) *Problem {
	var cfgErr *ConfigurationError
	if errors.As(err, &cfgErr) {
		return NewProblem(http.StatusUnprocessableEntity, "Provider Misconfigured", cfgErr.Error(),
			WithExtension("provider", cfgErr.Provider),
			WithExtension("missing_fields", cfgErr.Missing),
			WithLog(err),
		)
	}

	var ncErr *NotConfiguredError
	if errors.As(err, &ncErr) {
		return NewProblem(http.StatusServiceUnavailable, "No Provider Configured", ncErr.Error(),
			WithExtension("capability", ncErr.Capability),
			WithLog(err),
		)
	}

	var allErr *AllProvidersFailedError
	if errors.As(err, &allErr) {
		return NewProblem(http.StatusBadGateway, "All Providers Failed", allErr.Error(),
			WithExtension("capability", allErr.Capability),
			WithExtension("attempted", allErr.Attempted),
			WithLog(err),
		)
	}

	var callErr *ProviderCallError
	if errors.As(err, &callErr) {
		status := http.StatusBadGateway
		if callErr.StatusCode == http.StatusTooManyRequests {
			status = http.StatusTooManyRequests
		}
		return NewProblem(status, "Provider Call Failed", callErr.Error(),
			WithExtension("provider", callErr.Provider),
			WithLog(err),
		)
	}

	if p, ok := err.(*Problem); ok {
		return p
	}

	return NewProblem(http.StatusInternalServerError, "Internal Server Error",
		"An unexpected error occurred.", WithLog(err))
}
