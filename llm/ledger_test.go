/*
Copyright 2026 Arc Computer, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package llm_test

import (
	"math"
	"sync"
	"testing"

	"github.com/Arc-Computer/arc-eval-sub000/llm"
)

func TestLedgerRecord(t *testing.T) {
	t.Parallel()
	l := llm.NewLedger(0)

	l.Record(0.01)
	l.Record(0.02)
	l.Record(0)

	if got := l.Total(); math.Abs(got-0.03) > 1e-9 {
		t.Fatalf("Total = %v, want 0.03", got)
	}
	if got := l.Calls(); got != 3 {
		t.Fatalf("Calls = %d, want 3", got)
	}
}

func TestLedgerIgnoresNegative(t *testing.T) {
	t.Parallel()
	l := llm.NewLedger(0)

	l.Record(0.05)
	l.Record(-1)

	if got := l.Total(); got != 0.05 {
		t.Fatalf("Total = %v, want 0.05 after negative record", got)
	}
	if got := l.Calls(); got != 1 {
		t.Fatalf("Calls = %d, want 1", got)
	}
}

func TestLedgerMonotonicUnderConcurrency(t *testing.T) {
	t.Parallel()
	l := llm.NewLedger(0)

	const workers = 16
	const perWorker = 100
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				l.Record(0.001)
			}
		}()
	}
	wg.Wait()

	want := float64(workers*perWorker) * 0.001
	if got := l.Total(); math.Abs(got-want) > 1e-6 {
		t.Fatalf("Total = %v, want %v", got, want)
	}
	if got := l.Calls(); got != workers*perWorker {
		t.Fatalf("Calls = %d, want %d", got, workers*perWorker)
	}
}

func TestLedgerThreshold(t *testing.T) {
	t.Parallel()

	t.Run("zero threshold never trips", func(t *testing.T) {
		t.Parallel()
		l := llm.NewLedger(0)
		l.Record(1000)
		if l.OverThreshold() {
			t.Fatal("zero threshold must disable downgrades")
		}
	})

	t.Run("trips only past threshold", func(t *testing.T) {
		t.Parallel()
		l := llm.NewLedger(0.10)
		l.Record(0.10)
		if l.OverThreshold() {
			t.Fatal("exactly at threshold should not trip")
		}
		l.Record(0.01)
		if !l.OverThreshold() {
			t.Fatal("expected threshold crossing after additional spend")
		}
	})
}
