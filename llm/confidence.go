/*
Copyright 2026 Arc Computer, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package llm

import (
	"regexp"
	"strconv"
	"strings"
)

// confidenceField matches an explicit confidence value in a JSON-ish
// response body.
var confidenceField = regexp.MustCompile(`"confidence"\s*:\s*(-?[0-9]+(?:\.[0-9]+)?)`)

// hedgingMarkers signal an uncertain response. Checked before
// certaintyMarkers so a hedged response never scores high.
var hedgingMarkers = []string{
	"might", "may be", "possibly", "unclear", "uncertain",
	"ambiguous", "cannot determine", "hard to say", "not sure",
	"difficult to tell", "insufficient information",
}

// certaintyMarkers signal a confident response.
var certaintyMarkers = []string{
	"clearly", "definitely", "explicitly", "certainly",
	"without doubt", "unambiguous", "beyond question",
}

// defaultResponseConfidence is assumed when a response carries neither
// an explicit confidence nor recognizable hedging or certainty
// language.
const defaultResponseConfidence = 0.75

const (
	hedgedConfidence    = 0.4
	confidentConfidence = 0.9
)

// Clamp bounds v to [0,1].
func Clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// ExtractConfidence derives a confidence value from a model response.
// An explicit "confidence" field wins; otherwise a deterministic
// heuristic over hedging and certainty language applies. The result is
// always in [0,1].
func ExtractConfidence(text string) float64 {
	if m := confidenceField.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return Clamp(v)
		}
	}

	lower := strings.ToLower(text)
	for _, marker := range hedgingMarkers {
		if strings.Contains(lower, marker) {
			return hedgedConfidence
		}
	}
	for _, marker := range certaintyMarkers {
		if strings.Contains(lower, marker) {
			return confidentConfidence
		}
	}
	return defaultResponseConfidence
}
