/*
Copyright 2026 Arc Computer, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package main implements the arc-eval CLI: evaluate a file of
// normalized agent outputs against a domain compliance scenario pack
// and print pass/fail verdicts with remediation guidance.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/chainguard-dev/clog"
	"github.com/sethvargo/go-envconfig"

	"github.com/Arc-Computer/arc-eval-sub000/engine"
	"github.com/Arc-Computer/arc-eval-sub000/llm"
	"github.com/Arc-Computer/arc-eval-sub000/scenario"
)

type config struct {
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	AnthropicModel  string `env:"ANTHROPIC_MODEL,default=claude-sonnet-4-5"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	OpenAIModel     string `env:"OPENAI_MODEL,default=gpt-4o-mini"`

	// CostThresholdUSD downgrades primary-model selection once
	// accumulated spend crosses it.
	CostThresholdUSD float64 `env:"COST_THRESHOLD_USD,default=10.0"`

	BatchThreshold int  `env:"BATCH_THRESHOLD,default=50"`
	CascadeMin     int  `env:"CASCADE_MIN_ESCALATIONS,default=10"`
	Verbose        bool `env:"VERBOSE,default=false"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	packPath := flag.String("scenarios", "", "path to the YAML scenario pack")
	outputsPath := flag.String("outputs", "", "path to the agent outputs JSON file")
	flag.Parse()

	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		clog.FatalContextf(ctx, "processing config: %v", err)
	}
	if *packPath == "" || *outputsPath == "" {
		clog.FatalContextf(ctx, "both -scenarios and -outputs are required")
	}

	pack, err := scenario.LoadPackFile(*packPath)
	if err != nil {
		clog.FatalContextf(ctx, "loading scenario pack: %v", err)
	}

	raw, err := os.ReadFile(*outputsPath)
	if err != nil {
		clog.FatalContextf(ctx, "reading agent outputs: %v", err)
	}

	opts := []engine.Option{
		engine.WithBatchThreshold(cfg.BatchThreshold),
		engine.WithCascadeMinEscalations(cfg.CascadeMin),
	}
	if mgr := newManager(ctx, &cfg); mgr != nil {
		opts = append(opts, engine.WithManager(mgr))
	}

	eng, err := engine.New(pack, opts...)
	if err != nil {
		clog.FatalContextf(ctx, "constructing engine: %v", err)
	}

	clog.InfoContextf(ctx, "Evaluating %d scenarios in domain %q", len(pack.Scenarios), pack.Domain)
	results, err := eng.Evaluate(ctx, json.RawMessage(raw))
	if err != nil {
		clog.FatalContextf(ctx, "evaluation aborted: %v", err)
	}

	summary := eng.Summary(results)
	renderResults(os.Stdout, results)
	renderSummary(os.Stdout, summary)
	if cfg.Verbose {
		renderTelemetry(os.Stdout, eng.Telemetry())
	}

	if summary.CriticalFailures > 0 {
		os.Exit(1)
	}
}

// newManager wires judge-model clients from whatever credentials are
// present. With neither key the engine runs rule-only.
func newManager(ctx context.Context, cfg *config) *llm.Manager {
	var primary, fallback llm.Client
	if cfg.AnthropicAPIKey != "" {
		primary = llm.NewAnthropic(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	}
	if cfg.OpenAIAPIKey != "" {
		fallback = llm.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	}
	if primary == nil && fallback == nil {
		clog.InfoContext(ctx, "No judge credentials configured, running rule-only evaluation")
		return nil
	}

	mgr, err := llm.NewManager(primary, fallback,
		llm.WithLedger(llm.NewLedger(cfg.CostThresholdUSD)))
	if err != nil {
		clog.FatalContextf(ctx, "constructing judge manager: %v", err)
	}
	return mgr
}
