/*
Copyright 2026 Arc Computer, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package llm

import "strings"

// Rates are the per-1K-token prices for one model.
type Rates struct {
	InputPer1K  float64
	OutputPer1K float64
}

// PricingTable maps "provider/model" to rates. Prefix matching on the
// model name tolerates dated model suffixes
// (e.g. "claude-sonnet-4-5@20250929").
type PricingTable map[string]Rates

// DefaultPricing reflects published list prices. Values are inputs to
// cost telemetry, not billing truth.
func DefaultPricing() PricingTable {
	return PricingTable{
		"anthropic/claude-sonnet-4-5":  {InputPer1K: 0.003, OutputPer1K: 0.015},
		"anthropic/claude-3-5-haiku":   {InputPer1K: 0.0008, OutputPer1K: 0.004},
		"anthropic/claude-opus-4-1":    {InputPer1K: 0.015, OutputPer1K: 0.075},
		"openai/gpt-4o":                {InputPer1K: 0.0025, OutputPer1K: 0.01},
		"openai/gpt-4o-mini":           {InputPer1K: 0.00015, OutputPer1K: 0.0006},
		"openai/gpt-4.1":               {InputPer1K: 0.002, OutputPer1K: 0.008},
		"openai/gpt-4.1-mini":          {InputPer1K: 0.0004, OutputPer1K: 0.0016},
	}
}

// defaultRates is the conservative fallback for unknown models.
var defaultRates = Rates{InputPer1K: 0.003, OutputPer1K: 0.015}

// Lookup resolves rates for a provider/model pair, falling back to the
// longest matching key prefix and then to conservative defaults.
func (t PricingTable) Lookup(provider, model string) Rates {
	key := provider + "/" + model
	if r, ok := t[key]; ok {
		return r
	}
	best := ""
	for k := range t {
		if strings.HasPrefix(key, k) && len(k) > len(best) {
			best = k
		}
	}
	if best != "" {
		return t[best]
	}
	return defaultRates
}

// Cost computes the USD cost of one call:
// in/1000*inputRate + out/1000*outputRate.
func (t PricingTable) Cost(provider, model string, inputTokens, outputTokens int64) float64 {
	r := t.Lookup(provider, model)
	return float64(inputTokens)/1000*r.InputPer1K + float64(outputTokens)/1000*r.OutputPer1K
}

// EstimateTokens approximates a token count as len(text)/4. The
// approximation propagates into cost telemetry and is flagged there via
// Completion.TokensEstimated.
func EstimateTokens(text string) int64 {
	return int64(len(text) / 4)
}
