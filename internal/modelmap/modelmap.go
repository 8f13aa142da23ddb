// Package modelmap translates capability-agnostic model hints into
// vendor-specific model names and prices completed calls. The tables are
// built once at startup; lookups are pure.
package modelmap

import "github.com/codemarcinu/ageny-online/pkg/schema"

// Rate is the price of one model in micro-dollars per 1000 units
// (tokens for LLMs, pages/images for OCR, operations for vector stores).
type Rate struct {
	InputMicrosPer1K  int64
	OutputMicrosPer1K int64
}

// Table holds the per-provider alias, default-model and rate tables.
type Table struct {
	aliases  map[schema.ProviderName]map[string]string
	defaults map[schema.ProviderName]map[schema.Capability]string
	rates    map[schema.ProviderName]map[string]Rate
}

// NewTable builds the table with the built-in vendor data.
func NewTable() *Table {
	return &Table{
		aliases:  builtinAliases,
		defaults: builtinDefaults,
		rates:    builtinRates,
	}
}

// Translate maps a logical model hint to the provider's concrete model name.
// Unknown hints pass through unchanged: unmapped models are assumed to be
// valid native names for that provider.
func (t *Table) Translate(hint string, provider schema.ProviderName) string {
	if byHint, ok := t.aliases[provider]; ok {
		if concrete, ok := byHint[hint]; ok {
			return concrete
		}
	}
	return hint
}

// Default returns the provider's default model for a capability, or an empty
// string when none is known.
func (t *Table) Default(provider schema.ProviderName, capability schema.Capability) string {
	if byCap, ok := t.defaults[provider]; ok {
		return byCap[capability]
	}
	return ""
}

// Resolve combines Default and Translate: an empty hint selects the
// provider's default model for the capability.
func (t *Table) Resolve(hint string, provider schema.ProviderName, capability schema.Capability) string {
	if hint == "" {
		return t.Default(provider, capability)
	}
	return t.Translate(hint, provider)
}

// CostMicros prices a completed call from the per-model rate table. Unknown
// models cost exactly zero; cost accounting never blocks the primary call.
func (t *Table) CostMicros(provider schema.ProviderName, model string, inputUnits, outputUnits int) int64 {
	byModel, ok := t.rates[provider]
	if !ok {
		return 0
	}
	rate, ok := byModel[model]
	if !ok {
		return 0
	}
	return (int64(inputUnits)*rate.InputMicrosPer1K + int64(outputUnits)*rate.OutputMicrosPer1K) / 1000
}
