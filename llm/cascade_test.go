/*
Copyright 2026 Arc Computer, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package llm_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Arc-Computer/arc-eval-sub000/llm"
)

const (
	confidentJudgement = `{"judgment": "pass", "confidence": 0.95, "reasoning": "clean transcript"}`
	hesitantJudgement  = `{"judgment": "fail", "confidence": 0.30, "reasoning": "borderline"}`
)

func cascadePrompts(ids ...string) []llm.CascadePrompt {
	prompts := make([]llm.CascadePrompt, len(ids))
	for i, id := range ids {
		prompts[i] = llm.CascadePrompt{
			ID:     id,
			System: "judge system",
			Prompt: "evaluate scenario " + id,
		}
	}
	return prompts
}

func newCascadeManager(t *testing.T, cheap, expensive *fakeClient) *llm.Manager {
	t.Helper()
	mgr, err := llm.NewManager(expensive, cheap, llm.WithRetryConfig(fastRetry()))
	if err != nil {
		t.Fatal(err)
	}
	return mgr
}

func TestCascade_NoEscalations(t *testing.T) {
	t.Parallel()

	cheap := newCheap(nil)
	cheap.fn = func(_ int, _ llm.Request) (*llm.Completion, error) {
		return cheap.reply(confidentJudgement), nil
	}
	expensive := newExpensive(nil)
	expensive.fn = func(int, llm.Request) (*llm.Completion, error) {
		t.Error("expensive model must not be called when every cheap result is confident")
		return nil, errors.New("unexpected call")
	}

	mgr := newCascadeManager(t, cheap, expensive)
	items, tel, err := mgr.Cascade(context.Background(), cascadePrompts("a", "b", "c"), llm.CascadeConfig{})
	if err != nil {
		t.Fatal(err)
	}

	if len(items) != 3 {
		t.Fatalf("items = %d, want 3", len(items))
	}
	for id, item := range items {
		if item.State != llm.StateCheapEvaluated {
			t.Fatalf("item %s state = %q, want %q", id, item.State, llm.StateCheapEvaluated)
		}
		if item.Model != cheap.model {
			t.Fatalf("item %s model = %q, want cheap model", id, item.Model)
		}
		if item.Escalated {
			t.Fatalf("item %s unexpectedly escalated", id)
		}
	}
	if tel.CheapCalls != 3 || tel.ExpensiveCalls != 0 || tel.Escalated != 0 || tel.Failed != 0 {
		t.Fatalf("unexpected telemetry: %+v", tel)
	}
	if tel.SavingsPct <= 0 {
		t.Fatalf("savings = %v, want positive when everything stays on the cheap model", tel.SavingsPct)
	}
}

func TestCascade_EscalatesLowConfidence(t *testing.T) {
	t.Parallel()

	cheap := newCheap(nil)
	cheap.fn = func(_ int, req llm.Request) (*llm.Completion, error) {
		if strings.Contains(req.Prompt, "scenario b") {
			return cheap.reply(hesitantJudgement), nil
		}
		return cheap.reply(confidentJudgement), nil
	}
	expensive := newExpensive(nil)
	expensive.fn = func(_ int, _ llm.Request) (*llm.Completion, error) {
		return expensive.reply(confidentJudgement), nil
	}

	mgr := newCascadeManager(t, cheap, expensive)
	items, tel, err := mgr.Cascade(context.Background(), cascadePrompts("a", "b", "c"), llm.CascadeConfig{})
	if err != nil {
		t.Fatal(err)
	}

	b := items["b"]
	if b.State != llm.StateEscalated || !b.Escalated {
		t.Fatalf("item b = %+v, want escalated", b)
	}
	if b.Model != expensive.model {
		t.Fatalf("item b model = %q, want expensive model after escalation", b.Model)
	}
	if b.Confidence != 0.95 {
		t.Fatalf("item b confidence = %v, want expensive-pass 0.95", b.Confidence)
	}
	for _, id := range []string{"a", "c"} {
		if items[id].State != llm.StateCheapEvaluated {
			t.Fatalf("item %s state = %q, want cheap result kept", id, items[id].State)
		}
	}
	if tel.Escalated != 1 || tel.ExpensiveCalls != 1 || tel.CheapCalls != 3 {
		t.Fatalf("unexpected telemetry: %+v", tel)
	}
	if got := expensive.callCount(); got != 1 {
		t.Fatalf("expensive calls = %d, want 1", got)
	}
}

func TestCascade_CustomThreshold(t *testing.T) {
	t.Parallel()

	// 0.30 is below the default threshold but above a custom 0.2, so
	// nothing escalates.
	cheap := newCheap(nil)
	cheap.fn = func(int, llm.Request) (*llm.Completion, error) {
		return cheap.reply(hesitantJudgement), nil
	}
	expensive := newExpensive(nil)
	expensive.fn = func(int, llm.Request) (*llm.Completion, error) {
		t.Error("unexpected expensive call below custom threshold")
		return nil, errors.New("unexpected call")
	}

	mgr := newCascadeManager(t, cheap, expensive)
	items, _, err := mgr.Cascade(context.Background(), cascadePrompts("a"), llm.CascadeConfig{ConfidenceThreshold: 0.2})
	if err != nil {
		t.Fatal(err)
	}
	if items["a"].State != llm.StateCheapEvaluated {
		t.Fatalf("item a state = %q, want cheap result accepted", items["a"].State)
	}
}

func TestCascade_ItemErrorDoesNotAbortBatch(t *testing.T) {
	t.Parallel()

	cheap := newCheap(nil)
	cheap.fn = func(_ int, req llm.Request) (*llm.Completion, error) {
		if strings.Contains(req.Prompt, "scenario b") {
			return nil, &llm.TransportError{Provider: cheap.provider, Model: cheap.model, StatusCode: 400, Err: errors.New("bad request")}
		}
		return cheap.reply(confidentJudgement), nil
	}
	expensive := newExpensive(nil)
	expensive.fn = func(_ int, _ llm.Request) (*llm.Completion, error) {
		return expensive.reply(confidentJudgement), nil
	}

	mgr := newCascadeManager(t, cheap, expensive)
	items, tel, err := mgr.Cascade(context.Background(), cascadePrompts("a", "b", "c"), llm.CascadeConfig{})
	if err != nil {
		t.Fatal(err)
	}

	b := items["b"]
	if b.State != llm.StateEscalated {
		t.Fatalf("item b state = %q, want errored cheap call to escalate", b.State)
	}
	if b.Err != nil {
		t.Fatalf("item b error = %v, want cleared after successful escalation", b.Err)
	}
	if items["a"].State != llm.StateCheapEvaluated || items["c"].State != llm.StateCheapEvaluated {
		t.Fatal("sibling items must be unaffected by one item's transport error")
	}
	if tel.Failed != 0 {
		t.Fatalf("failed = %d, want 0", tel.Failed)
	}
}

func TestCascade_FailedOnBothTiers(t *testing.T) {
	t.Parallel()

	permanent := func(f *fakeClient) func(int, llm.Request) (*llm.Completion, error) {
		return func(_ int, req llm.Request) (*llm.Completion, error) {
			if strings.Contains(req.Prompt, "scenario b") {
				return nil, &llm.TransportError{Provider: f.provider, Model: f.model, StatusCode: 400, Err: errors.New("bad request")}
			}
			return f.reply(confidentJudgement), nil
		}
	}
	cheap := newCheap(nil)
	cheap.fn = permanent(cheap)
	expensive := newExpensive(nil)
	expensive.fn = permanent(expensive)

	mgr := newCascadeManager(t, cheap, expensive)
	items, tel, err := mgr.Cascade(context.Background(), cascadePrompts("a", "b"), llm.CascadeConfig{})
	if err != nil {
		t.Fatal(err)
	}

	b := items["b"]
	if b.State != llm.StateFailed {
		t.Fatalf("item b state = %q, want %q", b.State, llm.StateFailed)
	}
	if b.Err == nil {
		t.Fatal("failed item must carry its error")
	}
	if items["a"].State != llm.StateCheapEvaluated {
		t.Fatal("sibling item must survive a two-tier failure elsewhere")
	}
	if tel.Failed != 1 {
		t.Fatalf("failed = %d, want 1", tel.Failed)
	}
}

func TestCascade_CanceledContext(t *testing.T) {
	t.Parallel()

	cheap := newCheap(nil)
	cheap.fn = func(int, llm.Request) (*llm.Completion, error) {
		return cheap.reply(confidentJudgement), nil
	}
	expensive := newExpensive(nil)
	expensive.fn = cheap.fn

	mgr := newCascadeManager(t, cheap, expensive)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := mgr.Cascade(ctx, cascadePrompts("a", "b"), llm.CascadeConfig{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestCascadeConfigDefaults(t *testing.T) {
	t.Parallel()

	// Worker clamping is observable through successful completion of a
	// batch wider than the cap; correctness rather than concurrency is
	// asserted here.
	cheap := newCheap(nil)
	cheap.fn = func(int, llm.Request) (*llm.Completion, error) {
		return cheap.reply(confidentJudgement), nil
	}
	expensive := newExpensive(nil)
	expensive.fn = cheap.fn

	mgr := newCascadeManager(t, cheap, expensive)
	ids := make([]string, 30)
	for i := range ids {
		ids[i] = strings.Repeat("x", i+1)
	}
	items, tel, err := mgr.Cascade(context.Background(), cascadePrompts(ids...), llm.CascadeConfig{Workers: 1000})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 30 {
		t.Fatalf("items = %d, want 30", len(items))
	}
	if tel.CheapCalls != 30 {
		t.Fatalf("cheap calls = %d, want 30", tel.CheapCalls)
	}
}
