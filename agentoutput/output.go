/*
Copyright 2026 Arc Computer, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package agentoutput normalizes heterogeneous raw agent outputs into
// canonical text for evaluation. Raw items arrive as arbitrary JSON
// (string, object, or array); each recognized variant maps to one or
// more Outputs, and unrecognized shapes produce a typed *ParseError so
// callers can drop the item without suppressing unrelated failures.
package agentoutput

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Output is the normalized form of one raw agent output. Instances are
// transient: created per evaluation, discarded afterwards.
type Output struct {
	// Normalized is the canonical text scanned by evaluators.
	Normalized string

	// Raw preserves the original JSON for excerpts and debugging.
	Raw json.RawMessage
}

// Lower returns the normalized text lowercased for case-insensitive
// matching.
func (o Output) Lower() string {
	return strings.ToLower(o.Normalized)
}

// ParseError reports a raw item whose shape could not be normalized.
type ParseError struct {
	// Shape names the offending JSON variant ("number", "object
	// without text field", ...).
	Shape string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot normalize agent output (%s): %v", e.Shape, e.Err)
	}
	return fmt.Sprintf("cannot normalize agent output (%s)", e.Shape)
}

func (e *ParseError) Unwrap() error { return e.Err }

// textFields are the object keys recognized as carrying the agent's
// response text, in priority order. Matches the common export shapes of
// agent frameworks (OpenAI-style "output", LangChain-style "content").
var textFields = []string{"output", "response", "content", "text", "completion", "final_answer"}

// Parse normalizes one raw JSON value into outputs. A JSON string is a
// single output; an object yields one output from its first recognized
// text field; an array is flattened element by element, where a single
// bad element fails the whole item (callers wanting per-element
// tolerance use Normalize).
func Parse(raw json.RawMessage) ([]Output, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, &ParseError{Shape: "invalid json", Err: err}
	}
	return parseValue(v, raw)
}

func parseValue(v any, raw json.RawMessage) ([]Output, error) {
	switch t := v.(type) {
	case string:
		if strings.TrimSpace(t) == "" {
			return nil, &ParseError{Shape: "empty string"}
		}
		return []Output{{Normalized: t, Raw: raw}}, nil

	case map[string]any:
		for _, field := range textFields {
			if s, ok := t[field].(string); ok && strings.TrimSpace(s) != "" {
				return []Output{{Normalized: s, Raw: raw}}, nil
			}
		}
		return nil, &ParseError{Shape: "object without a recognized text field"}

	case []any:
		if len(t) == 0 {
			return nil, &ParseError{Shape: "empty array"}
		}
		outputs := make([]Output, 0, len(t))
		for i, elem := range t {
			elemRaw, err := json.Marshal(elem)
			if err != nil {
				return nil, &ParseError{Shape: fmt.Sprintf("array element %d", i), Err: err}
			}
			parsed, err := parseValue(elem, elemRaw)
			if err != nil {
				return nil, &ParseError{Shape: fmt.Sprintf("array element %d", i), Err: err}
			}
			outputs = append(outputs, parsed...)
		}
		return outputs, nil

	case nil:
		return nil, &ParseError{Shape: "null"}

	default:
		return nil, &ParseError{Shape: fmt.Sprintf("%T", v)}
	}
}

// Normalize maps a raw JSON value to the uniform output list used by
// the engine. Top-level arrays are normalized element by element and
// elements that fail to parse are dropped; the returned count of
// dropped items lets callers log without inspecting errors. A non-array
// value behaves like a one-element array.
func Normalize(raw json.RawMessage) (outputs []Output, dropped int) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, 1
	}

	items, ok := v.([]any)
	if !ok {
		parsed, err := parseValue(v, raw)
		if err != nil {
			return nil, 1
		}
		return parsed, 0
	}

	for _, elem := range items {
		elemRaw, err := json.Marshal(elem)
		if err != nil {
			dropped++
			continue
		}
		parsed, err := parseValue(elem, elemRaw)
		if err != nil {
			dropped++
			continue
		}
		outputs = append(outputs, parsed...)
	}
	return outputs, dropped
}
