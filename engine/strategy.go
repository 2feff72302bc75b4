/*
Copyright 2026 Arc Computer, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/chainguard-dev/clog"

	"github.com/Arc-Computer/arc-eval-sub000/agentoutput"
	"github.com/Arc-Computer/arc-eval-sub000/judge"
	"github.com/Arc-Computer/arc-eval-sub000/llm"
	"github.com/Arc-Computer/arc-eval-sub000/verdict"
)

// judgeIndividually runs at most one judge call per escalated scenario.
// Judge failures of any kind leave the rule-based verdict untouched:
// unavailability stops further attempts, transport errors skip the one
// item.
func (e *Engine) judgeIndividually(ctx context.Context, results []verdict.Result, escalations []int, outputs []agentoutput.Output, tel *Telemetry) error {
	log := clog.FromContext(ctx)
	texts := outputTexts(outputs)

	for _, i := range escalations {
		if err := ctx.Err(); err != nil {
			return err
		}
		if results[i].Status == verdict.StatusError {
			// Nothing to judge without valid outputs.
			continue
		}

		tel.JudgeCalls++
		judgement, err := e.judge.Judge(ctx, &judge.Request{
			Scenario:    &e.scenarios[i],
			Outputs:     texts,
			RuleVerdict: &results[i],
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			if errors.Is(err, llm.ErrUnavailable) {
				log.With("scenario", e.scenarios[i].ID).
					Debug("Judge unavailable, keeping rule-based verdict")
				return nil
			}
			log.With("scenario", e.scenarios[i].ID).
				With("error", err).
				Debug("Judge call failed, keeping rule-based verdict")
			continue
		}
		enrich(&results[i], judgement)
	}
	return nil
}

// judgeBatch submits the whole escalation queue as one cascade batch.
// Enhancements are buffered and applied only after the cascade
// succeeds, so a failure here leaves the result set byte-identical to
// the pre-judge state and the caller can degrade cleanly.
func (e *Engine) judgeBatch(ctx context.Context, results []verdict.Result, escalations []int, outputs []agentoutput.Output, tel *Telemetry) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("batch judge path panicked: %v", r)
		}
	}()

	if e.mgr == nil {
		return llm.ErrUnavailable
	}
	log := clog.FromContext(ctx)
	texts := outputTexts(outputs)

	prompts := make([]llm.CascadePrompt, 0, len(escalations))
	byID := make(map[string]int, len(escalations))
	for _, i := range escalations {
		if results[i].Status == verdict.StatusError {
			continue
		}
		prompt, perr := judge.BuildPrompt(&judge.Request{
			Scenario:    &e.scenarios[i],
			Outputs:     texts,
			RuleVerdict: &results[i],
		})
		if perr != nil {
			return fmt.Errorf("building cascade prompt for %s: %w", e.scenarios[i].ID, perr)
		}
		prompts = append(prompts, llm.CascadePrompt{
			ID:     e.scenarios[i].ID,
			System: judge.SystemPrompt,
			Prompt: prompt,
		})
		byID[e.scenarios[i].ID] = i
	}
	if len(prompts) == 0 {
		return nil
	}

	items, cascadeTel, err := e.mgr.Cascade(ctx, prompts, e.cascadeCfg)
	if err != nil {
		return err
	}

	// Parse everything before touching results.
	type enhancement struct {
		idx       int
		judgement *judge.Judgement
	}
	enhancements := make([]enhancement, 0, len(items))
	for id, item := range items {
		idx, ok := byID[id]
		if !ok {
			continue
		}
		if item.State == llm.StateFailed {
			log.With("scenario", id).With("error", item.Err).
				Debug("Cascade item failed on both tiers, keeping rule-based verdict")
			continue
		}
		judgement, perr := judge.ParseJudgement(item.Text)
		if perr != nil {
			log.With("scenario", id).With("model", item.Model).With("error", perr).
				Debug("Unparseable cascade judgement, keeping rule-based verdict")
			continue
		}
		judgement.ModelUsed = item.Model
		enhancements = append(enhancements, enhancement{idx: idx, judgement: judgement})
	}

	for _, enh := range enhancements {
		enrich(&results[enh.idx], enh.judgement)
	}

	tel.JudgeCalls = len(prompts)
	tel.CheapCalls = cascadeTel.CheapCalls
	tel.ExpensiveCalls = cascadeTel.ExpensiveCalls
	tel.SavingsPct = cascadeTel.SavingsPct
	return nil
}

// enrich applies a judgement to a result. Strictly additive: the
// rule-based passed/status/confidence fields are never rewritten, per
// the auditability contract.
func enrich(res *verdict.Result, j *judge.Judgement) {
	res.JudgeUsed = true
	res.JudgeReasoning = j.Reasoning
	res.JudgeConfidence = j.Confidence
	res.Improvements = j.Suggestions

	judgePassed := j.Judgment == judge.JudgmentPass
	if judgePassed != res.Passed {
		res.DebugInsights = append(res.DebugInsights,
			fmt.Sprintf("judge (%s) disagrees with rule verdict: judge says %s with confidence %.2f",
				j.ModelUsed, j.Judgment, j.Confidence))
	}
	// Sorted for stable output across runs.
	names := make([]string, 0, len(j.RewardSignals))
	for name := range j.RewardSignals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		res.DebugInsights = append(res.DebugInsights,
			fmt.Sprintf("reward signal %s: %.2f", name, j.RewardSignals[name]))
	}
}

func outputTexts(outputs []agentoutput.Output) []string {
	texts := make([]string, len(outputs))
	for i, out := range outputs {
		texts[i] = out.Normalized
	}
	return texts
}
