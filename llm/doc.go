/*
Copyright 2026 Arc Computer, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package llm manages the judge-model API surface: provider clients,
// cost-aware model selection, per-call cost accounting, retry for
// transient provider errors, and the two-tier cascade batch strategy
// that runs a cheap model broadly and reserves the expensive model for
// low-confidence outcomes.
package llm
