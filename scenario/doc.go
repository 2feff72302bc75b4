/*
Copyright 2026 Arc Computer, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package scenario defines compliance test scenarios and loads domain
// scenario packs from YAML. A pack is validated once at load time and
// treated as immutable for the lifetime of an evaluation engine.
package scenario
