/*
Copyright 2026 Arc Computer, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package engine

import (
	"errors"

	"github.com/Arc-Computer/arc-eval-sub000/judge"
	"github.com/Arc-Computer/arc-eval-sub000/llm"
	"github.com/Arc-Computer/arc-eval-sub000/rules"
)

// Option configures an Engine.
type Option func(*Engine) error

// WithManager wires the judge-model manager. Without one the engine
// runs rule-only and every judge enhancement is skipped.
func WithManager(mgr *llm.Manager) Option {
	return func(e *Engine) error {
		if mgr == nil {
			return errors.New("manager cannot be nil")
		}
		e.mgr = mgr
		j, err := judge.New(mgr)
		if err != nil {
			return err
		}
		e.judge = j
		return nil
	}
}

// WithJudge injects a judge implementation directly. Primarily for
// tests; WithManager covers production wiring.
func WithJudge(j judge.Interface) Option {
	return func(e *Engine) error {
		if j == nil {
			return errors.New("judge cannot be nil")
		}
		e.judge = j
		return nil
	}
}

// WithRuleEvaluator overrides the default rule evaluator, e.g. to add
// domain-specific detectors.
func WithRuleEvaluator(r *rules.Evaluator) Option {
	return func(e *Engine) error {
		if r == nil {
			return errors.New("rule evaluator cannot be nil")
		}
		e.rules = r
		return nil
	}
}

// WithBatchThreshold sets the scenario count at or above which the
// engine switches from the individual path to the batch path. The
// default of 50 is a heuristic, not a derived cost model; tune it to
// your provider's batch economics.
func WithBatchThreshold(n int) Option {
	return func(e *Engine) error {
		if n < 1 {
			return errors.New("batch threshold must be positive")
		}
		e.batchThreshold = n
		return nil
	}
}

// WithCascadeMinEscalations sets the minimum escalation-queue size that
// justifies one cascade batch instead of per-scenario judge calls.
// Default 10.
func WithCascadeMinEscalations(n int) Option {
	return func(e *Engine) error {
		if n < 1 {
			return errors.New("cascade minimum must be positive")
		}
		e.cascadeMin = n
		return nil
	}
}

// WithCascadeConfig tunes cascade confidence threshold and worker pool.
func WithCascadeConfig(cfg llm.CascadeConfig) Option {
	return func(e *Engine) error {
		e.cascadeCfg = cfg
		return nil
	}
}
