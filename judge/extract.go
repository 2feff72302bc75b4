/*
Copyright 2026 Arc Computer, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Arc-Computer/arc-eval-sub000/llm"
)

// extractJSON pulls the JSON payload out of a model response that may
// wrap it in markdown code fences or surrounding prose.
func extractJSON(text string) string {
	// Fenced block wins when present.
	if start := strings.Index(text, "```json"); start >= 0 {
		body := text[start+len("```json"):]
		if end := strings.Index(body, "```"); end >= 0 {
			return strings.TrimSpace(body[:end])
		}
		return strings.TrimSpace(body)
	}

	trimmed := strings.TrimSpace(text)
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	// Fall back to the outermost object when the model added prose
	// around bare JSON.
	if !strings.HasPrefix(trimmed, "{") {
		if open := strings.Index(trimmed, "{"); open >= 0 {
			if last := strings.LastIndex(trimmed, "}"); last > open {
				return trimmed[open : last+1]
			}
		}
	}
	return trimmed
}

// ParseJudgement parses a model response into a Judgement, validating
// the judgment value and clamping confidence to [0,1]. It is exported
// so the cascade batch path can parse raw cascade item text.
func ParseJudgement(text string) (*Judgement, error) {
	payload := extractJSON(text)
	if payload == "" {
		return nil, errors.New("empty judge response")
	}

	var j Judgement
	if err := json.Unmarshal([]byte(payload), &j); err != nil {
		return nil, fmt.Errorf("unmarshaling judgement: %w", err)
	}

	switch j.Judgment {
	case JudgmentPass, JudgmentFail:
	default:
		return nil, fmt.Errorf("unexpected judgment value %q", j.Judgment)
	}

	j.Confidence = llm.Clamp(j.Confidence)
	for k, v := range j.RewardSignals {
		j.RewardSignals[k] = llm.Clamp(v)
	}
	return &j, nil
}
