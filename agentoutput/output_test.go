/*
Copyright 2026 Arc Computer, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agentoutput_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Arc-Computer/arc-eval-sub000/agentoutput"
)

func texts(outs []agentoutput.Output) []string {
	ts := make([]string, len(outs))
	for i, o := range outs {
		ts[i] = o.Normalized
	}
	return ts
}

func TestParse(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{"bare string", `"transaction approved"`, []string{"transaction approved"}},
		{"output field", `{"output": "approved", "text": "ignored"}`, []string{"approved"}},
		{"response field", `{"response": "denied"}`, []string{"denied"}},
		{"content field", `{"content": "escalated"}`, []string{"escalated"}},
		{"final_answer field", `{"final_answer": "done"}`, []string{"done"}},
		{"array of strings", `["first", "second"]`, []string{"first", "second"}},
		{"array of objects", `[{"output": "a"}, {"text": "b"}]`, []string{"a", "b"}},
		{"mixed array", `["plain", {"completion": "wrapped"}]`, []string{"plain", "wrapped"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			outs, err := agentoutput.Parse(json.RawMessage(tc.raw))
			if err != nil {
				t.Fatalf("Parse(%s) = %v", tc.raw, err)
			}
			if diff := cmp.Diff(tc.want, texts(outs)); diff != "" {
				t.Fatalf("Parse(%s) mismatch (-want +got):\n%s", tc.raw, diff)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
	}{
		{"number", `42`},
		{"boolean", `true`},
		{"null", `null`},
		{"empty string", `""`},
		{"whitespace string", `"   "`},
		{"object without text field", `{"status": "ok"}`},
		{"object with non-string text field", `{"output": 7}`},
		{"empty array", `[]`},
		{"array with bad element", `["fine", 42]`},
		{"invalid json", `{not json`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := agentoutput.Parse(json.RawMessage(tc.raw))
			if err == nil {
				t.Fatalf("Parse(%s) succeeded, want *ParseError", tc.raw)
			}
			var pe *agentoutput.ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Parse(%s) error %T, want *ParseError", tc.raw, err)
			}
			if pe.Shape == "" {
				t.Fatal("ParseError.Shape is empty")
			}
		})
	}
}

func TestNormalize_DropsBadElements(t *testing.T) {
	t.Parallel()

	raw := json.RawMessage(`["good one", 42, {"output": "good two"}, null, {"status": "ok"}]`)
	outs, dropped := agentoutput.Normalize(raw)

	if dropped != 3 {
		t.Fatalf("dropped = %d, want 3", dropped)
	}
	want := []string{"good one", "good two"}
	if diff := cmp.Diff(want, texts(outs)); diff != "" {
		t.Fatalf("Normalize mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_NonArray(t *testing.T) {
	t.Parallel()

	outs, dropped := agentoutput.Normalize(json.RawMessage(`{"output": "single"}`))
	if dropped != 0 {
		t.Fatalf("dropped = %d, want 0", dropped)
	}
	if len(outs) != 1 || outs[0].Normalized != "single" {
		t.Fatalf("outputs = %v, want one %q output", texts(outs), "single")
	}
}

func TestNormalize_NothingValid(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		raw     string
		dropped int
	}{
		{"invalid json", `{broken`, 1},
		{"bare number", `42`, 1},
		{"array of garbage", `[1, 2, 3]`, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			outs, dropped := agentoutput.Normalize(json.RawMessage(tc.raw))
			if len(outs) != 0 {
				t.Fatalf("outputs = %v, want none", texts(outs))
			}
			if dropped != tc.dropped {
				t.Fatalf("dropped = %d, want %d", dropped, tc.dropped)
			}
		})
	}
}

func TestOutputLower(t *testing.T) {
	t.Parallel()
	o := agentoutput.Output{Normalized: "Skip KYC"}
	if got := o.Lower(); got != "skip kyc" {
		t.Fatalf("Lower() = %q, want %q", got, "skip kyc")
	}
}
