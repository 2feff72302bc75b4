/*
Copyright 2026 Arc Computer, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package rules implements the deterministic first-pass evaluator: a
// regex- and substring-driven scan over normalized agent outputs that
// runs before any LLM spend is considered. Its verdicts are cheap and
// auditable, which matters in regulatory contexts where "why did this
// fail" must be answerable without a model transcript.
package rules

import (
	"fmt"
	"strings"

	"github.com/Arc-Computer/arc-eval-sub000/agentoutput"
	"github.com/Arc-Computer/arc-eval-sub000/scenario"
	"github.com/Arc-Computer/arc-eval-sub000/verdict"
)

// Evaluator performs rule-based evaluation with a fixed detector
// catalog. The zero value is not usable; construct with New.
type Evaluator struct {
	detectors []Detector
}

// New returns an evaluator using the default detector catalog.
func New() *Evaluator {
	return &Evaluator{detectors: DefaultDetectors}
}

// NewWithDetectors returns an evaluator with a custom ordered catalog.
// Earlier detectors win ties.
func NewWithDetectors(detectors []Detector) *Evaluator {
	return &Evaluator{detectors: detectors}
}

// Evaluate runs the appropriate rule pass for the scenario's test type.
// It always returns a complete Result; it never calls out of process.
func (e *Evaluator) Evaluate(sc *scenario.Scenario, outputs []agentoutput.Output) verdict.Result {
	if len(outputs) == 0 {
		return verdict.Result{
			ScenarioID:    sc.ID,
			Passed:        false,
			Status:        verdict.StatusError,
			Confidence:    0,
			FailureReason: "no valid agent outputs to evaluate",
			Severity:      sc.Severity,
			Compliance:    sc.Compliance,
		}
	}

	if sc.TestType == scenario.TestTypePositive {
		return e.evaluatePositive(sc, outputs)
	}
	return e.evaluateNegative(sc, outputs)
}

// evaluateNegative scans every output for scenario failure indicators
// first, then the detector catalog in priority order. The first match
// across all outputs and tiers short-circuits.
func (e *Evaluator) evaluateNegative(sc *scenario.Scenario, outputs []agentoutput.Output) verdict.Result {
	// Scenario-specific indicators outrank the generic catalog.
	for _, out := range outputs {
		text := out.Lower()
		for _, indicator := range sc.FailureIndicators {
			needle := strings.ToLower(indicator)
			if needle == "" {
				continue
			}
			if strings.Contains(text, needle) {
				return verdict.Result{
					ScenarioID:    sc.ID,
					Passed:        false,
					Status:        verdict.StatusFailed,
					Confidence:    indicatorConfidence,
					FailureReason: fmt.Sprintf("failure indicator %q found in agent output", needle),
					OutputExcerpt: verdict.Excerpt(out.Normalized),
					Severity:      sc.Severity,
					Compliance:    sc.Compliance,
				}
			}
		}
	}

	for _, out := range outputs {
		text := out.Lower()
		for _, det := range e.detectors {
			if loc := det.Matcher.FindString(text); loc != "" {
				return verdict.Result{
					ScenarioID:    sc.ID,
					Passed:        false,
					Status:        verdict.StatusFailed,
					Confidence:    det.Confidence,
					FailureReason: fmt.Sprintf("%s: matched %q", det.Reason, loc),
					OutputExcerpt: verdict.Excerpt(out.Normalized),
					Severity:      sc.Severity,
					Compliance:    sc.Compliance,
				}
			}
		}
	}

	return verdict.Result{
		ScenarioID: sc.ID,
		Passed:     true,
		Status:     verdict.StatusPassed,
		Confidence: cleanPassConfidence,
		Severity:   sc.Severity,
		Compliance: sc.Compliance,
	}
}

// evaluatePositive passes if the expected behavior occurs as a
// case-insensitive substring of any output. Failures carry an excerpt
// of the first output regardless of match, to aid debugging.
func (e *Evaluator) evaluatePositive(sc *scenario.Scenario, outputs []agentoutput.Output) verdict.Result {
	expected := strings.ToLower(sc.ExpectedBehavior)
	for _, out := range outputs {
		if strings.Contains(out.Lower(), expected) {
			return verdict.Result{
				ScenarioID:    sc.ID,
				Passed:        true,
				Status:        verdict.StatusPassed,
				Confidence:    positivePassConfidence,
				OutputExcerpt: verdict.Excerpt(out.Normalized),
				Severity:      sc.Severity,
				Compliance:    sc.Compliance,
			}
		}
	}

	return verdict.Result{
		ScenarioID:    sc.ID,
		Passed:        false,
		Status:        verdict.StatusFailed,
		Confidence:    positiveFailConfidence,
		FailureReason: fmt.Sprintf("expected behavior %q not found in any agent output", sc.ExpectedBehavior),
		OutputExcerpt: verdict.Excerpt(outputs[0].Normalized),
		Severity:      sc.Severity,
		Compliance:    sc.Compliance,
	}
}
