/*
Copyright 2026 Arc Computer, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnavailable indicates no judge client is configured (missing
// credentials or no manager). Callers treat it as "skip enhancement",
// never as a run failure.
var ErrUnavailable = errors.New("no judge model client configured")

// TransportError wraps a provider API failure with enough context to
// classify it for retry and cascade escalation.
type TransportError struct {
	Provider   string
	Model      string
	StatusCode int // 0 when the failure never reached the provider
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Provider, e.Model, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Model, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Retryable reports whether the failure is transient: rate limits,
// overload, server errors, and timeouts.
func (e *TransportError) Retryable() bool {
	switch e.StatusCode {
	case 429, 500, 502, 503, 504, 529:
		return true
	}
	if e.StatusCode == 0 {
		// No HTTP status: network-level failure or timeout. Retryable
		// unless the caller canceled.
		return !errors.Is(e.Err, context.Canceled)
	}
	return false
}

// IsRetryable classifies any error for the retry loop.
func IsRetryable(err error) bool {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Retryable()
	}
	return errors.Is(err, context.DeadlineExceeded)
}
