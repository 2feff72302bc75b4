/*
Copyright 2026 Arc Computer, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package llm

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Metrics records OpenTelemetry counters for judge-model usage: call
// counts, token usage, and USD cost. Counter creation degrades to
// no-ops rather than failing the caller.
type Metrics struct {
	calls            metric.Int64Counter
	promptTokens     metric.Int64Counter
	completionTokens metric.Int64Counter
	costUSD          metric.Float64Counter
}

// NewMetrics creates judge-usage metrics under the given meter name.
// The meter name is unified across the engine (e.g. "arc.eval.judge")
// with model and provider as dimensions.
func NewMetrics(meterName string) *Metrics {
	meter := otel.Meter(meterName, metric.WithInstrumentationVersion("1.0.0"))

	calls, err := meter.Int64Counter("genai.judge.calls",
		metric.WithDescription("The number of judge model calls"),
		metric.WithUnit("{calls}"))
	if err != nil {
		slog.Warn("Failed to create judge call counter, metrics disabled", "error", err, "meter", meterName)
		calls = noop.Int64Counter{}
	}

	promptTokens, err := meter.Int64Counter("genai.token.prompt",
		metric.WithDescription("The number of prompt tokens used"),
		metric.WithUnit("{tokens}"))
	if err != nil {
		slog.Warn("Failed to create prompt token counter, metrics disabled", "error", err, "meter", meterName)
		promptTokens = noop.Int64Counter{}
	}

	completionTokens, err := meter.Int64Counter("genai.token.completion",
		metric.WithDescription("The number of completion tokens used"),
		metric.WithUnit("{tokens}"))
	if err != nil {
		slog.Warn("Failed to create completion token counter, metrics disabled", "error", err, "meter", meterName)
		completionTokens = noop.Int64Counter{}
	}

	costUSD, err := meter.Float64Counter("genai.cost.usd",
		metric.WithDescription("Approximate judge model spend in USD"),
		metric.WithUnit("{usd}"))
	if err != nil {
		slog.Warn("Failed to create cost counter, metrics disabled", "error", err, "meter", meterName)
		costUSD = noop.Float64Counter{}
	}

	return &Metrics{
		calls:            calls,
		promptTokens:     promptTokens,
		completionTokens: completionTokens,
		costUSD:          costUSD,
	}
}

// RecordCall records one completed (or failed) judge call.
func (m *Metrics) RecordCall(ctx context.Context, c *Completion, outcome string) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("provider", c.Provider),
		attribute.String("model", c.Model),
		attribute.String("outcome", outcome),
	)
	m.calls.Add(ctx, 1, attrs)
	if c.InputTokens > 0 || c.OutputTokens > 0 {
		tokenAttrs := metric.WithAttributes(
			attribute.String("provider", c.Provider),
			attribute.String("model", c.Model),
			attribute.Bool("estimated", c.TokensEstimated),
		)
		m.promptTokens.Add(ctx, c.InputTokens, tokenAttrs)
		m.completionTokens.Add(ctx, c.OutputTokens, tokenAttrs)
	}
	if c.CostUSD > 0 {
		m.costUSD.Add(ctx, c.CostUSD, attrs)
	}
}
