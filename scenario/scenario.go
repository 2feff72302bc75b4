/*
Copyright 2026 Arc Computer, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package scenario

import (
	"errors"
	"fmt"
)

// Severity classifies how damaging a scenario failure is.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// valid reports whether s is one of the known severities.
func (s Severity) valid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// TestType distinguishes scenarios that require a behavior from
// scenarios that forbid one.
type TestType string

const (
	// TestTypePositive scenarios pass when the agent exhibits the
	// expected behavior.
	TestTypePositive TestType = "positive"
	// TestTypeNegative scenarios pass when none of the failure
	// indicators appear in the agent output.
	TestTypeNegative TestType = "negative"
)

func (t TestType) valid() bool {
	return t == TestTypePositive || t == TestTypeNegative
}

// Scenario is a single compliance test case from a domain pack
// (finance, security, ML). Scenarios are immutable once loaded for a run.
type Scenario struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Severity    Severity `yaml:"severity" json:"severity"`
	TestType    TestType `yaml:"test_type" json:"test_type"`

	// FailureIndicators are scanned as case-insensitive substrings by
	// the rule evaluator for negative scenarios. Order is preserved
	// from the pack; earlier indicators win ties.
	FailureIndicators []string `yaml:"failure_indicators" json:"failure_indicators"`

	// ExpectedBehavior is the substring a positive scenario requires.
	ExpectedBehavior string `yaml:"expected_behavior" json:"expected_behavior"`

	// Compliance lists the regulatory framework tags this scenario
	// maps to (e.g. "SOX", "PCI-DSS", "EU-AI-Act").
	Compliance []string `yaml:"compliance" json:"compliance"`

	Remediation string `yaml:"remediation" json:"remediation"`
	Category    string `yaml:"category" json:"category"`
}

// Validate checks that the scenario is well formed. Malformed scenarios
// are a programmer/pack error and are rejected at load time, never
// mid-evaluation.
func (s *Scenario) Validate() error {
	if s.ID == "" {
		return errors.New("scenario id is required")
	}
	if s.Name == "" {
		return fmt.Errorf("scenario %q: name is required", s.ID)
	}
	if !s.Severity.valid() {
		return fmt.Errorf("scenario %q: invalid severity %q", s.ID, s.Severity)
	}
	if !s.TestType.valid() {
		return fmt.Errorf("scenario %q: invalid test_type %q", s.ID, s.TestType)
	}
	if s.TestType == TestTypePositive && s.ExpectedBehavior == "" {
		return fmt.Errorf("scenario %q: positive scenario requires expected_behavior", s.ID)
	}
	return nil
}

// HighStakes reports whether the scenario severity warrants judge
// escalation regardless of the rule verdict.
func (s *Scenario) HighStakes() bool {
	return s.Severity == SeverityCritical || s.Severity == SeverityHigh
}
