/*
Copyright 2026 Arc Computer, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package trigger decides whether a rule-based verdict should be
// escalated to an LLM judge. The policy is a pure function with no side
// effects so it can be unit tested exhaustively.
package trigger

import (
	"github.com/Arc-Computer/arc-eval-sub000/scenario"
	"github.com/Arc-Computer/arc-eval-sub000/verdict"
)

// ConfidenceFloor is the rule-confidence below which a verdict is
// considered ambiguous enough to warrant judge review.
const ConfidenceFloor = 0.7

// ShouldTrigger reports whether the judge should review this verdict.
// Checks run in priority order; the first that holds wins:
//
//  1. The scenario failed. Judges add the most value explaining and
//     derisking failures.
//  2. Rule confidence is below ConfidenceFloor.
//  3. The scenario severity is critical or high.
//
// Confident passes on low-severity scenarios skip the judge entirely.
func ShouldTrigger(res *verdict.Result, sc *scenario.Scenario) bool {
	if !res.Passed {
		return true
	}
	if res.Confidence < ConfidenceFloor {
		return true
	}
	if sc.HighStakes() {
		return true
	}
	return false
}
