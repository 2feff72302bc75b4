/*
Copyright 2026 Arc Computer, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/Arc-Computer/arc-eval-sub000/engine"
	"github.com/Arc-Computer/arc-eval-sub000/verdict"
)

// newTable creates a table writer with the markdown styling used across
// all arc-eval output.
func newTable(headers []string, w io.Writer) *tablewriter.Table {
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		MaxWidth: 100,
		Behavior: tw.Behavior{TrimSpace: tw.Off},
	}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{
				Left:   tw.On,
				Top:    tw.Off,
				Right:  tw.On,
				Bottom: tw.Off,
			},
		}),
	)
}

func renderResults(w io.Writer, results []verdict.Result) {
	table := newTable([]string{"Scenario", "Status", "Severity", "Confidence", "Reason"}, w)
	for i := range results {
		r := &results[i]
		reason := r.FailureReason
		if r.JudgeUsed && r.JudgeReasoning != "" {
			reason = r.JudgeReasoning
		}
		_ = table.Append([]string{
			r.ScenarioID,
			string(r.Status),
			string(r.Severity),
			fmt.Sprintf("%.2f", r.Confidence),
			truncate(reason, 60),
		})
	}
	_ = table.Render()
	fmt.Fprintln(w)
}

func renderSummary(w io.Writer, s verdict.Summary) {
	table := newTable([]string{"Metric", "Value"}, w)
	_ = table.Append([]string{"Domain", s.Domain})
	_ = table.Append([]string{"Total scenarios", fmt.Sprintf("%d", s.TotalScenarios)})
	_ = table.Append([]string{"Passed", fmt.Sprintf("%d", s.Passed)})
	_ = table.Append([]string{"Failed", fmt.Sprintf("%d", s.Failed)})
	_ = table.Append([]string{"Errors", fmt.Sprintf("%d", s.Errors)})
	_ = table.Append([]string{"Critical failures", fmt.Sprintf("%d", s.CriticalFailures)})
	_ = table.Append([]string{"High failures", fmt.Sprintf("%d", s.HighFailures)})
	_ = table.Append([]string{"Frameworks", strings.Join(s.ComplianceFrameworks, ", ")})
	_ = table.Render()
	fmt.Fprintln(w)
}

func renderTelemetry(w io.Writer, t engine.Telemetry) {
	table := newTable([]string{"Telemetry", "Value"}, w)
	_ = table.Append([]string{"Run", t.RunID})
	_ = table.Append([]string{"Strategy", t.Strategy})
	_ = table.Append([]string{"Degraded", fmt.Sprintf("%t", t.Degraded)})
	_ = table.Append([]string{"Judge calls", fmt.Sprintf("%d", t.JudgeCalls)})
	_ = table.Append([]string{"Cheap calls", fmt.Sprintf("%d", t.CheapCalls)})
	_ = table.Append([]string{"Expensive calls", fmt.Sprintf("%d", t.ExpensiveCalls)})
	_ = table.Append([]string{"Total cost (USD, approx)", fmt.Sprintf("%.4f", t.TotalCostUSD)})
	_ = table.Append([]string{"Savings vs all-expensive", fmt.Sprintf("%.1f%%", t.SavingsPct)})
	_ = table.Append([]string{"Duration", t.Duration.String()})
	_ = table.Render()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
