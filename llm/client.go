/*
Copyright 2026 Arc Computer, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package llm

import "context"

// Request is a single completion request to a judge model.
type Request struct {
	// System is the optional system instruction.
	System string

	// Prompt is the user-turn content.
	Prompt string

	// MaxTokens bounds the response length. Zero means the client
	// default.
	MaxTokens int64

	// Temperature in [0,1]. Judges run cold (0.1) for consistency.
	Temperature float64
}

// Completion is a provider response plus the accounting the manager
// attaches to it.
type Completion struct {
	Text     string
	Provider string
	Model    string

	// InputTokens and OutputTokens come from provider usage metadata
	// when available, otherwise from the char/4 approximation.
	InputTokens  int64
	OutputTokens int64

	// TokensEstimated marks approximated token counts, so downstream
	// cost telemetry is not mistaken for billing truth.
	TokensEstimated bool

	// CostUSD is the computed cost of this call.
	CostUSD float64
}

// Client is a minimal completion client for one (provider, model)
// pair. Implementations wrap provider SDK errors in *TransportError.
type Client interface {
	Provider() string
	Model() string
	Complete(ctx context.Context, req Request) (*Completion, error)
}
