/*
Copyright 2026 Arc Computer, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package engine orchestrates hybrid evaluation: a deterministic rule
// pass over every scenario, a pure trigger policy deciding which
// verdicts deserve LLM judge review, and a batch optimizer that decides
// between per-scenario judge calls and one cascade batch. Evaluate
// never fails because a judge layer failed; the rule-based verdict
// always survives.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/google/uuid"

	"github.com/Arc-Computer/arc-eval-sub000/agentoutput"
	"github.com/Arc-Computer/arc-eval-sub000/judge"
	"github.com/Arc-Computer/arc-eval-sub000/llm"
	"github.com/Arc-Computer/arc-eval-sub000/rules"
	"github.com/Arc-Computer/arc-eval-sub000/scenario"
	"github.com/Arc-Computer/arc-eval-sub000/trigger"
	"github.com/Arc-Computer/arc-eval-sub000/verdict"
)

const (
	defaultBatchThreshold = 50
	defaultCascadeMin     = 10
)

// Telemetry snapshots cost and strategy data from the most recent
// evaluate call, for verbose and timing displays.
type Telemetry struct {
	RunID          string
	Strategy       string // "individual" or "cascade"
	Degraded       bool   // batch path failed, fell back to individual
	JudgeCalls     int
	CheapCalls     int
	ExpensiveCalls int
	TotalCostUSD   float64
	SavingsPct     float64
	Duration       time.Duration
}

// Engine evaluates agent outputs against a loaded scenario pack. The
// pack is read-only after construction; Evaluate is safe to call
// repeatedly. Concurrent engines may share one llm.Manager (and with it
// one cost ledger).
type Engine struct {
	domain    string
	scenarios []scenario.Scenario

	rules *rules.Evaluator
	judge judge.Interface
	mgr   *llm.Manager

	batchThreshold int
	cascadeMin     int
	cascadeCfg     llm.CascadeConfig

	mu   sync.Mutex
	last Telemetry
}

// New constructs an engine over a validated scenario pack. A nil or
// empty pack is a programmer error.
func New(pack *scenario.Pack, opts ...Option) (*Engine, error) {
	if pack == nil || len(pack.Scenarios) == 0 {
		return nil, errors.New("scenario pack is required")
	}
	for i := range pack.Scenarios {
		if err := pack.Scenarios[i].Validate(); err != nil {
			return nil, fmt.Errorf("invalid scenario pack: %w", err)
		}
	}

	e := &Engine{
		domain:         pack.Domain,
		scenarios:      pack.Scenarios,
		rules:          rules.New(),
		batchThreshold: defaultBatchThreshold,
		cascadeMin:     defaultCascadeMin,
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("applying engine option: %w", err)
		}
	}
	return e, nil
}

// Evaluate normalizes a raw agent output value (string, object, or
// array) and evaluates every scenario in the pack against it. Per-item
// parse failures are dropped, not fatal; if nothing normalizes, every
// scenario reports status "error". On context cancellation the results
// computed so far are returned alongside ctx.Err().
func (e *Engine) Evaluate(ctx context.Context, raw json.RawMessage) ([]verdict.Result, error) {
	outputs, dropped := agentoutput.Normalize(raw)
	if dropped > 0 {
		clog.FromContext(ctx).With("dropped", dropped).
			With("valid", len(outputs)).
			Warn("Some agent outputs could not be normalized")
	}
	return e.EvaluateOutputs(ctx, outputs)
}

// EvaluateOutputs evaluates every scenario against already-normalized
// outputs. Exactly one result per scenario is produced per call.
func (e *Engine) EvaluateOutputs(ctx context.Context, outputs []agentoutput.Output) ([]verdict.Result, error) {
	runID := uuid.NewString()
	log := clog.FromContext(ctx).With("run_id", runID)
	start := time.Now()

	// Deterministic rule pass over every scenario. Always cheap, and
	// the only pass that decides passed/failed.
	results := make([]verdict.Result, 0, len(e.scenarios))
	for i := range e.scenarios {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, e.rules.Evaluate(&e.scenarios[i], outputs))
	}

	escalations := e.collectEscalations(results)
	tel := Telemetry{RunID: runID, Strategy: "individual"}

	switch {
	case e.judge == nil:
		log.With("escalations", len(escalations)).
			Debug("Judge unavailable, keeping rule-based verdicts")

	case len(e.scenarios) >= e.batchThreshold && len(escalations) >= e.cascadeMin:
		tel.Strategy = "cascade"
		if err := e.judgeBatch(ctx, results, escalations, outputs, &tel); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return results, err
			}
			// Full-strategy downgrade: the whole set goes back through
			// the individual path, never a partial degrade.
			log.With("error", err).Warn("Batch judge path failed, degrading to individual evaluation")
			tel.Degraded = true
			if err := e.judgeIndividually(ctx, results, escalations, outputs, &tel); err != nil {
				return results, err
			}
		}

	default:
		if err := e.judgeIndividually(ctx, results, escalations, outputs, &tel); err != nil {
			return results, err
		}
	}

	tel.Duration = time.Since(start)
	if e.mgr != nil {
		tel.TotalCostUSD = e.mgr.Ledger().Total()
	}
	e.mu.Lock()
	e.last = tel
	e.mu.Unlock()

	log.With("scenarios", len(results)).
		With("escalations", len(escalations)).
		With("strategy", tel.Strategy).
		With("judge_calls", tel.JudgeCalls).
		With("duration", tel.Duration).
		Info("Evaluation completed")

	return results, nil
}

// Summary aggregates results and stamps the pack domain.
func (e *Engine) Summary(results []verdict.Result) verdict.Summary {
	s := verdict.Summarize(results)
	s.Domain = e.domain
	e.mu.Lock()
	s.RunID = e.last.RunID
	s.Duration = e.last.Duration
	e.mu.Unlock()
	return s
}

// Telemetry returns cost/strategy telemetry for the most recent
// evaluate call.
func (e *Engine) Telemetry() Telemetry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// collectEscalations applies the trigger policy and returns the indices
// of results needing judge review, in scenario order.
func (e *Engine) collectEscalations(results []verdict.Result) []int {
	var idx []int
	for i := range results {
		if trigger.ShouldTrigger(&results[i], &e.scenarios[i]) {
			idx = append(idx, i)
		}
	}
	return idx
}
