/*
Copyright 2026 Arc Computer, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package llm

import "sync"

// Ledger is the process-scoped cost ledger shared by everything that
// spends judge-model tokens. It is an explicit handle, not a package
// singleton, so tests and concurrent engine instances cannot interfere.
// Total is monotonically non-decreasing for the ledger's lifetime.
type Ledger struct {
	mu        sync.Mutex
	total     float64
	calls     int
	threshold float64
}

// NewLedger creates a ledger with the given cost threshold in USD.
// A zero threshold disables threshold-based downgrades.
func NewLedger(threshold float64) *Ledger {
	return &Ledger{threshold: threshold}
}

// Record adds one completed call's cost. Negative costs are ignored to
// preserve monotonicity.
func (l *Ledger) Record(costUSD float64) {
	if costUSD < 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.total += costUSD
	l.calls++
}

// Total returns the accumulated cost in USD.
func (l *Ledger) Total() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total
}

// Calls returns the number of recorded calls.
func (l *Ledger) Calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

// Threshold returns the configured cost threshold.
func (l *Ledger) Threshold() float64 { return l.threshold }

// OverThreshold reports whether accumulated spend has crossed the
// threshold, which downgrades subsequent primary-model selections.
func (l *Ledger) OverThreshold() bool {
	if l.threshold <= 0 {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total > l.threshold
}
