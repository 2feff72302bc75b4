/*
Copyright 2026 Arc Computer, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package verdict

import (
	"sort"

	"github.com/Arc-Computer/arc-eval-sub000/scenario"
)

// Summarize aggregates results into counts, critical/high failure
// tallies, and the sorted set of compliance frameworks touched.
func Summarize(results []Result) Summary {
	s := Summary{TotalScenarios: len(results)}

	frameworks := make(map[string]struct{})
	for i := range results {
		r := &results[i]
		switch r.Status {
		case StatusPassed:
			s.Passed++
		case StatusFailed:
			s.Failed++
			switch r.Severity {
			case scenario.SeverityCritical:
				s.CriticalFailures++
			case scenario.SeverityHigh:
				s.HighFailures++
			}
		case StatusError:
			s.Errors++
		}
		for _, fw := range r.Compliance {
			frameworks[fw] = struct{}{}
		}
	}

	s.ComplianceFrameworks = make([]string, 0, len(frameworks))
	for fw := range frameworks {
		s.ComplianceFrameworks = append(s.ComplianceFrameworks, fw)
	}
	sort.Strings(s.ComplianceFrameworks)

	return s
}
