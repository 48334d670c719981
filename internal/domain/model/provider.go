package model

import (
	"strings"

	"profitscan-ai/internal/domain"
)

// AIProvider is the closed set of models a scan can run against.
type AIProvider string

const (
	// ProviderGPT4oMini is the default, cheapest text model.
	ProviderGPT4oMini AIProvider = "gpt-4o-mini"
	// Vision-capable alternatives.
	ProviderGPT4o         AIProvider = "gpt-4o"
	ProviderGemini15Flash AIProvider = "gemini-1.5-flash"
	ProviderClaude3Haiku  AIProvider = "claude-3-haiku"
)

// AllProviders lists every member of the closed set, default first.
func AllProviders() []AIProvider {
	return []AIProvider{ProviderGPT4oMini, ProviderGPT4o, ProviderGemini15Flash, ProviderClaude3Haiku}
}

// ParseProvider normalizes and validates a provider key coming off the
// wire. Unknown keys are rejected here so the estimator below can keep
// an exhaustive switch.
func ParseProvider(s string) (AIProvider, error) {
	switch AIProvider(strings.ToLower(strings.TrimSpace(s))) {
	case ProviderGPT4oMini:
		return ProviderGPT4oMini, nil
	case ProviderGPT4o:
		return ProviderGPT4o, nil
	case ProviderGemini15Flash:
		return ProviderGemini15Flash, nil
	case ProviderClaude3Haiku:
		return ProviderClaude3Haiku, nil
	}
	return "", domain.ErrUnknownProvider
}

// ProviderPricing is the USD price per million tokens for one provider,
// stored as micro-dollars to keep arithmetic integral.
type ProviderPricing struct {
	Provider               AIProvider
	InputPriceMicrosPer1M  int64
	OutputPriceMicrosPer1M int64
}

// Per-scan token profile. One scan is one AI analysis call with a fixed
// prompt shape, so the estimate uses constants rather than live counts.
const (
	ScanInputTokens  = 1500
	ScanOutputTokens = 500
)

const microsPerDollar = 1_000_000

// defaultPricing is the compiled-in price table (USD per 1M tokens,
// expressed in micro-dollars). Rows in provider_pricing override these
// at runtime.
var defaultPricing = map[AIProvider]ProviderPricing{
	ProviderGPT4oMini:     {ProviderGPT4oMini, 150_000, 600_000},
	ProviderGPT4o:         {ProviderGPT4o, 2_500_000, 10_000_000},
	ProviderGemini15Flash: {ProviderGemini15Flash, 75_000, 300_000},
	ProviderClaude3Haiku:  {ProviderClaude3Haiku, 250_000, 1_250_000},
}

// DefaultPricing returns the compiled-in table entry for p. The set is
// closed; callers reach this only through ParseProvider.
func DefaultPricing(p AIProvider) ProviderPricing {
	return defaultPricing[p]
}

// EstimateScanCostUSD computes the per-scan cost for the fixed token
// profile: input and output components are linear in their respective
// table prices.
func EstimateScanCostUSD(pr ProviderPricing) float64 {
	in := float64(ScanInputTokens) / 1_000_000 * float64(pr.InputPriceMicrosPer1M)
	out := float64(ScanOutputTokens) / 1_000_000 * float64(pr.OutputPriceMicrosPer1M)
	return (in + out) / microsPerDollar
}

// CostMicrosForUsage prices an actual call by its reported token usage.
func CostMicrosForUsage(pr ProviderPricing, inputTokens, outputTokens int) int64 {
	in := int64(inputTokens) * pr.InputPriceMicrosPer1M / 1_000_000
	out := int64(outputTokens) * pr.OutputPriceMicrosPer1M / 1_000_000
	return in + out
}
