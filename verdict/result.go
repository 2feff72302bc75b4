/*
Copyright 2026 Arc Computer, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package verdict holds evaluation results and their aggregation. A
// Result is produced by the rule evaluator, optionally enriched in
// place by judge analysis, and then owned by the caller.
package verdict

import (
	"time"

	"github.com/Arc-Computer/arc-eval-sub000/scenario"
)

// Status is the user-facing outcome of one scenario evaluation.
type Status string

const (
	StatusPassed Status = "passed"
	StatusFailed Status = "failed"
	// StatusError marks scenarios that could not be evaluated, e.g.
	// when no valid agent outputs remained after normalization.
	StatusError Status = "error"
)

// StatusOf derives the status from a pass/fail verdict. StatusError is
// assigned explicitly and never derived.
func StatusOf(passed bool) Status {
	if passed {
		return StatusPassed
	}
	return StatusFailed
}

// ExcerptLimit bounds the agent-output excerpt carried on a result.
const ExcerptLimit = 200

// Excerpt truncates s to ExcerptLimit characters for inclusion in a
// result.
func Excerpt(s string) string {
	if len(s) <= ExcerptLimit {
		return s
	}
	return s[:ExcerptLimit]
}

// Result is the outcome of evaluating one scenario against a set of
// agent outputs. Rule-based fields are always populated; judge fields
// are additive enhancements and a failed judge call leaves them empty
// without touching the rule verdict.
type Result struct {
	ScenarioID string  `json:"scenario_id"`
	Passed     bool    `json:"passed"`
	Status     Status  `json:"status"`
	Confidence float64 `json:"confidence"`

	FailureReason string `json:"failure_reason,omitempty"`

	// OutputExcerpt carries up to ExcerptLimit characters of the agent
	// output that drove the verdict, to aid debugging.
	OutputExcerpt string `json:"agent_output,omitempty"`

	Severity   scenario.Severity `json:"severity"`
	Compliance []string          `json:"compliance,omitempty"`

	// Judge enhancement fields.
	JudgeUsed       bool     `json:"judge_used,omitempty"`
	JudgeReasoning  string   `json:"judge_reasoning,omitempty"`
	JudgeConfidence float64  `json:"judge_confidence,omitempty"`
	Improvements    []string `json:"improvement_recommendations,omitempty"`
	DebugInsights   []string `json:"debug_insights,omitempty"`
}

// Summary aggregates a result set for renderers and exporters.
type Summary struct {
	RunID                string        `json:"run_id,omitempty"`
	Domain               string        `json:"domain,omitempty"`
	TotalScenarios       int           `json:"total_scenarios"`
	Passed               int           `json:"passed"`
	Failed               int           `json:"failed"`
	Errors               int           `json:"errors"`
	CriticalFailures     int           `json:"critical_failures"`
	HighFailures         int           `json:"high_failures"`
	ComplianceFrameworks []string      `json:"compliance_frameworks"`
	Duration             time.Duration `json:"duration,omitempty"`
}
