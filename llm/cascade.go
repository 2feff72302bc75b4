/*
Copyright 2026 Arc Computer, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package llm

import (
	"context"
	"time"

	"github.com/chainguard-dev/clog"
	"golang.org/x/sync/errgroup"
)

// ItemState tracks one prompt through the cascade state machine.
// Transitions are driven by confidence threshold and transport outcome:
//
//	Pending -> CheapEvaluated -> (accepted)
//	Pending -> CheapEvaluated -> NeedsEscalation -> Escalated
//	Pending -> NeedsEscalation (cheap call failed) -> Escalated
//	... -> Failed (expensive call also failed)
type ItemState string

const (
	StatePending         ItemState = "pending"
	StateCheapEvaluated  ItemState = "cheap_evaluated"
	StateNeedsEscalation ItemState = "needs_escalation"
	StateEscalated       ItemState = "escalated"
	StateFailed          ItemState = "failed"
)

// CascadePrompt is one unit of work for the cascade.
type CascadePrompt struct {
	// ID keys the merged result; callers use scenario IDs.
	ID     string
	System string
	Prompt string
}

// CascadeItem is the per-prompt outcome.
type CascadeItem struct {
	ID         string
	State      ItemState
	Text       string
	Provider   string
	Model      string
	Confidence float64
	Escalated  bool
	Err        error
}

// CascadeTelemetry summarizes a cascade run for verbose/timing
// displays. Costs inherit the token approximation caveat from the
// pricing layer.
type CascadeTelemetry struct {
	CheapModel     string
	ExpensiveModel string
	CheapCalls     int
	ExpensiveCalls int
	Escalated      int
	Failed         int
	TotalCostUSD   float64
	// SavingsPct compares actual spend to an all-expensive-model
	// baseline over the same token volumes.
	SavingsPct float64
	Duration   time.Duration
}

// CascadeConfig tunes the batch cascade.
type CascadeConfig struct {
	// ConfidenceThreshold escalates cheap results below it. Zero means
	// the 0.7 default.
	ConfidenceThreshold float64

	// Workers bounds concurrent in-flight calls; clamped to [1,20],
	// default 8, respecting provider rate limits.
	Workers int
}

const (
	defaultCascadeConfidence = 0.7
	defaultCascadeWorkers    = 8
	maxCascadeWorkers        = 20
)

func (c CascadeConfig) confidence() float64 {
	if c.ConfidenceThreshold <= 0 {
		return defaultCascadeConfidence
	}
	return c.ConfidenceThreshold
}

func (c CascadeConfig) workers() int {
	switch {
	case c.Workers <= 0:
		return defaultCascadeWorkers
	case c.Workers > maxCascadeWorkers:
		return maxCascadeWorkers
	}
	return c.Workers
}

// Cascade evaluates all prompts with the cheap client first, then
// re-evaluates low-confidence or errored items with the expensive
// client. A transport error on one item never aborts the batch; the
// item is escalated, and if the expensive pass also fails it ends in
// StateFailed with the error attached. The returned map is keyed by
// prompt ID. Cascade itself errors only on context cancellation.
func (m *Manager) Cascade(ctx context.Context, prompts []CascadePrompt, cfg CascadeConfig) (map[string]*CascadeItem, *CascadeTelemetry, error) {
	cheap := m.Pick(false)
	expensive := m.Pick(true)
	if cheap == nil {
		return nil, nil, ErrUnavailable
	}

	log := clog.FromContext(ctx)
	start := time.Now()
	threshold := cfg.confidence()

	items := make([]*CascadeItem, len(prompts))
	costs := make([]float64, len(prompts))
	escCosts := make([]float64, len(prompts))
	baselines := make([]float64, len(prompts))

	tel := &CascadeTelemetry{
		CheapModel:     cheap.Model(),
		ExpensiveModel: expensive.Model(),
	}

	// Cheap pass over every prompt.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers())
	for i := range prompts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p := prompts[i]
			item := &CascadeItem{ID: p.ID, State: StatePending}
			items[i] = item

			completion, err := m.Complete(gctx, cheap, Request{System: p.System, Prompt: p.Prompt, Temperature: 0.1})
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				// Errored items are automatically low-confidence.
				item.State = StateNeedsEscalation
				item.Err = err
				return nil
			}

			item.State = StateCheapEvaluated
			item.Text = completion.Text
			item.Provider = completion.Provider
			item.Model = completion.Model
			item.Confidence = ExtractConfidence(completion.Text)
			costs[i] = completion.CostUSD
			baselines[i] = m.pricing.Cost(expensive.Provider(), expensive.Model(), completion.InputTokens, completion.OutputTokens)
			if item.Confidence < threshold {
				item.State = StateNeedsEscalation
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	tel.CheapCalls = len(prompts)

	// Expensive pass over escalation queue.
	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(cfg.workers())
	for i := range items {
		if items[i].State != StateNeedsEscalation {
			continue
		}
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			p := prompts[i]
			item := items[i]

			completion, err := m.Complete(egctx, expensive, Request{System: p.System, Prompt: p.Prompt, Temperature: 0.1})
			if err != nil {
				if egctx.Err() != nil {
					return egctx.Err()
				}
				// Keep the cheap result if one exists; the rule-based
				// verdict upstream stands either way.
				item.State = StateFailed
				item.Err = err
				return nil
			}

			item.State = StateEscalated
			item.Escalated = true
			item.Text = completion.Text
			item.Provider = completion.Provider
			item.Model = completion.Model
			item.Confidence = ExtractConfidence(completion.Text)
			item.Err = nil
			escCosts[i] = completion.CostUSD
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}

	merged := make(map[string]*CascadeItem, len(items))
	var actual, baseline float64
	for i, item := range items {
		merged[item.ID] = item
		actual += costs[i] + escCosts[i]
		switch item.State {
		case StateEscalated:
			tel.ExpensiveCalls++
			tel.Escalated++
			// The all-expensive baseline would have paid the expensive
			// rate exactly once for this item.
			baseline += escCosts[i]
		case StateFailed:
			tel.ExpensiveCalls++
			tel.Failed++
			baseline += baselines[i]
		default:
			baseline += baselines[i]
		}
	}
	tel.TotalCostUSD = actual
	if baseline > 0 && baseline >= actual {
		tel.SavingsPct = (baseline - actual) / baseline * 100
	}
	tel.Duration = time.Since(start)

	log.With("prompts", len(prompts)).
		With("escalated", tel.Escalated).
		With("failed", tel.Failed).
		With("total_cost_usd", tel.TotalCostUSD).
		With("savings_pct", tel.SavingsPct).
		With("duration", tel.Duration).
		Info("Cascade batch completed")

	return merged, tel, nil
}
