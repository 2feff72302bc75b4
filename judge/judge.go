/*
Copyright 2026 Arc Computer, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package judge invokes an LLM to review scenarios where deterministic
// rules are not enough: failures, ambiguous verdicts, and high-severity
// scenarios. Judge output is strictly additive to the rule verdict; a
// failed judge call leaves the rule-based result untouched.
package judge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Arc-Computer/arc-eval-sub000/llm"
	"github.com/Arc-Computer/arc-eval-sub000/scenario"
	"github.com/Arc-Computer/arc-eval-sub000/verdict"
)

// Judgment is the judge's own pass/fail opinion.
type Judgment string

const (
	JudgmentPass Judgment = "pass"
	JudgmentFail Judgment = "fail"
)

// Request carries everything the judge needs about one scenario.
type Request struct {
	Scenario *scenario.Scenario

	// Outputs are the normalized agent outputs under evaluation.
	Outputs []string

	// RuleVerdict is the deterministic first-pass result the judge is
	// reviewing.
	RuleVerdict *verdict.Result
}

// Validate checks the request is complete.
func (r *Request) Validate() error {
	if r.Scenario == nil {
		return errors.New("scenario is required")
	}
	if len(r.Outputs) == 0 {
		return errors.New("at least one agent output is required")
	}
	if r.RuleVerdict == nil {
		return errors.New("rule verdict is required")
	}
	return nil
}

// Judgement is the judge's structured analysis of one scenario.
type Judgement struct {
	Judgment   Judgment `json:"judgment" jsonschema:"required,enum=pass,enum=fail"`
	Confidence float64  `json:"confidence" jsonschema:"required,description=Certainty of this judgment from 0.0 to 1.0"`
	Reasoning  string   `json:"reasoning" jsonschema:"required,description=Explanation of the judgment"`

	// Suggestions are concrete remediation recommendations.
	Suggestions []string `json:"suggestions"`

	// RewardSignals grade named compliance dimensions from 0.0 to 1.0
	// (e.g. policy_adherence, transparency).
	RewardSignals map[string]float64 `json:"reward_signals,omitempty"`

	// ModelUsed and EvaluationTime are filled by the caller, not the
	// model.
	ModelUsed      string        `json:"-"`
	EvaluationTime time.Duration `json:"-"`
}

// Interface is the contract for judge implementations. Fakes implement
// it in tests; the production implementation routes through llm.Manager.
type Interface interface {
	Judge(ctx context.Context, req *Request) (*Judgement, error)
}

// Option configures the manager-backed judge.
type Option func(*managed) error

// WithPreferPrimary controls whether single judge calls request the
// expensive model. The manager can still downgrade on cost threshold.
func WithPreferPrimary(prefer bool) Option {
	return func(j *managed) error {
		j.preferPrimary = prefer
		return nil
	}
}

// managed is the production judge over an llm.Manager.
type managed struct {
	mgr           *llm.Manager
	preferPrimary bool
}

// New creates a judge backed by the given manager.
func New(mgr *llm.Manager, opts ...Option) (Interface, error) {
	if mgr == nil {
		return nil, llm.ErrUnavailable
	}
	j := &managed{mgr: mgr, preferPrimary: true}
	for _, opt := range opts {
		if err := opt(j); err != nil {
			return nil, fmt.Errorf("applying judge option: %w", err)
		}
	}
	return j, nil
}

// Judge implements Interface.
func (j *managed) Judge(ctx context.Context, req *Request) (*Judgement, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid judge request: %w", err)
	}

	prompt, err := BuildPrompt(req)
	if err != nil {
		return nil, fmt.Errorf("building judge prompt: %w", err)
	}

	client := j.mgr.Pick(j.preferPrimary)
	start := time.Now()
	completion, err := j.mgr.Complete(ctx, client, llm.Request{
		System:      SystemPrompt,
		Prompt:      prompt,
		Temperature: 0.1,
	})
	if err != nil {
		return nil, err
	}

	judgement, err := ParseJudgement(completion.Text)
	if err != nil {
		return nil, fmt.Errorf("parsing judge response from %s: %w", completion.Model, err)
	}
	judgement.ModelUsed = completion.Model
	judgement.EvaluationTime = time.Since(start)
	return judgement, nil
}
