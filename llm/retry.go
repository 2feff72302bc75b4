/*
Copyright 2026 Arc Computer, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package llm

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/chainguard-dev/clog"
)

// RetryConfig controls backoff for transient provider errors (429 rate
// limits, 5xx, 529 overloaded).
type RetryConfig struct {
	// MaxRetries is the number of retry attempts after the first call.
	// Zero disables retries.
	MaxRetries int
	// BaseBackoff is the initial backoff, doubled per attempt.
	BaseBackoff time.Duration
	// MaxBackoff caps the exponential growth.
	MaxBackoff time.Duration
	// MaxJitter is the random jitter added to each backoff.
	MaxJitter time.Duration
}

// Validate checks the configuration for negative values.
func (c RetryConfig) Validate() error {
	if c.MaxRetries < 0 {
		return errors.New("max retries cannot be negative")
	}
	if c.BaseBackoff < 0 || c.MaxBackoff < 0 || c.MaxJitter < 0 {
		return errors.New("backoff durations cannot be negative")
	}
	return nil
}

// DefaultRetryConfig uses longer backoffs than typical HTTP retries
// because provider quota limits recover slowly.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:  3,
		BaseBackoff: time.Second,
		MaxBackoff:  30 * time.Second,
		MaxJitter:   500 * time.Millisecond,
	}
}

// retryWithBackoff runs fn with exponential backoff, retrying only
// errors that IsRetryable classifies as transient.
func retryWithBackoff[T any](ctx context.Context, cfg RetryConfig, operation string, fn func() (T, error)) (T, error) {
	var result T
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		result, lastErr = fn()
		if lastErr == nil {
			return result, nil
		}
		if !IsRetryable(lastErr) {
			return result, lastErr
		}
		if attempt >= cfg.MaxRetries {
			break
		}

		backoff := min(cfg.BaseBackoff<<attempt, cfg.MaxBackoff)
		if cfg.MaxJitter > 0 {
			backoff += rand.N(cfg.MaxJitter)
		}

		clog.FromContext(ctx).With("operation", operation).
			With("attempt", attempt+1).
			With("backoff", backoff).
			With("error", lastErr.Error()).
			Warn("Transient judge API error, retrying")

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return result, fmt.Errorf("%s failed after %d retries: %w", operation, cfg.MaxRetries, lastErr)
}
