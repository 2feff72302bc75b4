/*
Copyright 2026 Arc Computer, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chainguard-dev/clog"
)

// Manager owns model selection, per-call cost accounting, and retry.
// It holds a primary (expensive, higher quality) and a fallback (cheap)
// client; either may be nil, and selection degrades accordingly. One
// Manager is safe for concurrent use; the ledger serializes cost
// updates.
type Manager struct {
	primary  Client
	fallback Client
	ledger   *Ledger
	pricing  PricingTable
	metrics  *Metrics
	retry    RetryConfig
	timeout  time.Duration
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager) error

// WithLedger shares an existing cost ledger, e.g. across engines in one
// process.
func WithLedger(l *Ledger) ManagerOption {
	return func(m *Manager) error {
		if l == nil {
			return errors.New("ledger cannot be nil")
		}
		m.ledger = l
		return nil
	}
}

// WithPricing overrides the pricing table.
func WithPricing(t PricingTable) ManagerOption {
	return func(m *Manager) error {
		if len(t) == 0 {
			return errors.New("pricing table cannot be empty")
		}
		m.pricing = t
		return nil
	}
}

// WithRetryConfig overrides transient-error retry behavior.
func WithRetryConfig(cfg RetryConfig) ManagerOption {
	return func(m *Manager) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		m.retry = cfg
		return nil
	}
}

// WithCallTimeout sets the per-call deadline applied to every
// completion call. A timeout surfaces as a retryable TransportError,
// never as a run failure.
func WithCallTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) error {
		if d <= 0 {
			return errors.New("call timeout must be positive")
		}
		m.timeout = d
		return nil
	}
}

// NewManager creates a manager over a primary and fallback client. At
// least one client must be non-nil.
func NewManager(primary, fallback Client, opts ...ManagerOption) (*Manager, error) {
	if primary == nil && fallback == nil {
		return nil, ErrUnavailable
	}
	m := &Manager{
		primary:  primary,
		fallback: fallback,
		ledger:   NewLedger(0),
		pricing:  DefaultPricing(),
		metrics:  NewMetrics("arc.eval.judge"),
		retry:    DefaultRetryConfig(),
		timeout:  30 * time.Second,
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, fmt.Errorf("applying manager option: %w", err)
		}
	}
	return m, nil
}

// Ledger exposes the shared cost ledger.
func (m *Manager) Ledger() *Ledger { return m.ledger }

// Pick selects a client. The primary is returned unless the caller
// prefers the cheap model or accumulated spend has crossed the ledger
// threshold, in which case the fallback is used. With only one client
// configured, that client always wins.
func (m *Manager) Pick(preferPrimary bool) Client {
	if m.primary == nil {
		return m.fallback
	}
	if m.fallback == nil {
		return m.primary
	}
	if !preferPrimary || m.ledger.OverThreshold() {
		return m.fallback
	}
	return m.primary
}

// Complete executes one call against the given client with per-call
// timeout and retry, then records cost into the ledger and metrics.
// Token counts missing from provider usage are approximated as
// char_count/4 and flagged on the completion.
func (m *Manager) Complete(ctx context.Context, client Client, req Request) (*Completion, error) {
	if client == nil {
		return nil, ErrUnavailable
	}

	operation := fmt.Sprintf("%s/%s", client.Provider(), client.Model())
	completion, err := retryWithBackoff(ctx, m.retry, operation, func() (*Completion, error) {
		callCtx := ctx
		if m.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, m.timeout)
			defer cancel()
		}
		c, err := client.Complete(callCtx, req)
		if err != nil {
			// Map a per-call deadline into a transport error so the
			// escalation path treats it like any other transient
			// failure.
			if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				return nil, &TransportError{Provider: client.Provider(), Model: client.Model(), Err: err}
			}
			return nil, err
		}
		return c, nil
	})
	if err != nil {
		m.metrics.RecordCall(ctx, &Completion{Provider: client.Provider(), Model: client.Model()}, "error")
		return nil, err
	}

	if completion.InputTokens == 0 && completion.OutputTokens == 0 {
		completion.InputTokens = EstimateTokens(req.System + req.Prompt)
		completion.OutputTokens = EstimateTokens(completion.Text)
		completion.TokensEstimated = true
	}
	completion.CostUSD = m.pricing.Cost(completion.Provider, completion.Model, completion.InputTokens, completion.OutputTokens)
	m.ledger.Record(completion.CostUSD)
	m.metrics.RecordCall(ctx, completion, "ok")

	clog.FromContext(ctx).With("provider", completion.Provider).
		With("model", completion.Model).
		With("input_tokens", completion.InputTokens).
		With("output_tokens", completion.OutputTokens).
		With("estimated", completion.TokensEstimated).
		With("cost_usd", completion.CostUSD).
		Debug("Judge model call completed")

	return completion, nil
}
