/*
Copyright 2026 Arc Computer, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package llm

import (
	"context"
	"errors"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicProvider = "anthropic"

// AnthropicClient implements Client over the Anthropic Messages API.
type AnthropicClient struct {
	client anthropic.Client
	model  string
}

// NewAnthropic creates a client for the given model authenticated with
// an API key.
func NewAnthropic(apiKey, model string) *AnthropicClient {
	return &AnthropicClient{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (c *AnthropicClient) Provider() string { return anthropicProvider }
func (c *AnthropicClient) Model() string    { return c.model }

// Complete issues one non-streaming message call.
func (c *AnthropicClient) Complete(ctx context.Context, req Request) (*Completion, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2048
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	params.Temperature = anthropic.Float(req.Temperature)
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, c.wrap(err)
	}

	var text string
	for _, content := range message.Content {
		if content.Type == "text" {
			text = content.Text
		}
	}
	if text == "" {
		return nil, &TransportError{
			Provider: anthropicProvider,
			Model:    c.model,
			Err:      errors.New("no text content in response"),
		}
	}

	return &Completion{
		Text:         text,
		Provider:     anthropicProvider,
		Model:        c.model,
		InputTokens:  message.Usage.InputTokens,
		OutputTokens: message.Usage.OutputTokens,
	}, nil
}

// wrap converts SDK errors into *TransportError, preserving the HTTP
// status for retry classification.
func (c *AnthropicClient) wrap(err error) error {
	te := &TransportError{Provider: anthropicProvider, Model: c.model, Err: err}
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		te.StatusCode = apierr.StatusCode
	}
	return te
}
