package modelmap

import "github.com/codemarcinu/ageny-online/pkg/schema"

// builtinAliases lets callers ask for a logical model ("gpt-4") and get the
// closest concrete model on whichever provider ends up serving the request.
var builtinAliases = map[schema.ProviderName]map[string]string{
	schema.ProviderOpenAI: {
		"gpt-4":         "gpt-4o",
		"gpt-4-turbo":   "gpt-4-turbo",
		"gpt-3.5-turbo": "gpt-4o-mini",
		"embedding":     "text-embedding-3-small",
	},
	schema.ProviderMistral: {
		"gpt-4":         "mistral-large-latest",
		"gpt-4-turbo":   "mistral-large-latest",
		"gpt-3.5-turbo": "mistral-small-latest",
		"embedding":     "mistral-embed",
	},
	schema.ProviderAnthropic: {
		"gpt-4":         "claude-3-5-sonnet-20241022",
		"gpt-4-turbo":   "claude-3-5-sonnet-20241022",
		"gpt-3.5-turbo": "claude-3-5-haiku-20241022",
	},
	schema.ProviderMistralVision: {
		"ocr": "pixtral-12b-2409",
	},
}

var builtinDefaults = map[schema.ProviderName]map[schema.Capability]string{
	schema.ProviderOpenAI: {
		schema.CapChat:  "gpt-4o-mini",
		schema.CapEmbed: "text-embedding-3-small",
	},
	schema.ProviderMistral: {
		schema.CapChat:  "mistral-small-latest",
		schema.CapEmbed: "mistral-embed",
	},
	schema.ProviderAnthropic: {
		schema.CapChat: "claude-3-5-haiku-20241022",
	},
	schema.ProviderAzureVision: {
		schema.CapExtractText: "prebuilt-read",
	},
	schema.ProviderGoogleVision: {
		schema.CapExtractText: "text-detection",
	},
	schema.ProviderMistralVision: {
		schema.CapExtractText: "pixtral-12b-2409",
	},
}

// builtinRates holds micro-dollars per 1000 units. 1000 micros = $0.001.
var builtinRates = map[schema.ProviderName]map[string]Rate{
	schema.ProviderOpenAI: {
		"gpt-4o":                 {InputMicrosPer1K: 2500, OutputMicrosPer1K: 10000},
		"gpt-4o-mini":            {InputMicrosPer1K: 150, OutputMicrosPer1K: 600},
		"gpt-4-turbo":            {InputMicrosPer1K: 10000, OutputMicrosPer1K: 30000},
		"text-embedding-3-small": {InputMicrosPer1K: 20},
		"text-embedding-3-large": {InputMicrosPer1K: 130},
	},
	schema.ProviderMistral: {
		"mistral-large-latest": {InputMicrosPer1K: 2000, OutputMicrosPer1K: 6000},
		"mistral-small-latest": {InputMicrosPer1K: 200, OutputMicrosPer1K: 600},
		"mistral-embed":        {InputMicrosPer1K: 100},
	},
	schema.ProviderAnthropic: {
		"claude-3-5-sonnet-20241022": {InputMicrosPer1K: 3000, OutputMicrosPer1K: 15000},
		"claude-3-5-haiku-20241022":  {InputMicrosPer1K: 800, OutputMicrosPer1K: 4000},
	},
	schema.ProviderAzureVision: {
		"prebuilt-read": {InputMicrosPer1K: 1500000},
	},
	schema.ProviderGoogleVision: {
		"text-detection": {InputMicrosPer1K: 1500000},
	},
	schema.ProviderMistralVision: {
		"pixtral-12b-2409": {InputMicrosPer1K: 150, OutputMicrosPer1K: 150},
	},
}
