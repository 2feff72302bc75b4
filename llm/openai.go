/*
Copyright 2026 Arc Computer, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package llm

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const openaiProvider = "openai"

// OpenAIClient implements Client over the OpenAI chat completions API.
// It typically serves as the cheap cascade tier.
type OpenAIClient struct {
	client openai.Client
	model  string
}

// NewOpenAI creates a client for the given model authenticated with an
// API key.
func NewOpenAI(apiKey, model string) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (c *OpenAIClient) Provider() string { return openaiProvider }
func (c *OpenAIClient) Model() string    { return c.model }

// Complete issues one non-streaming chat completion call.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (*Completion, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2048
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(c.model),
		Messages:            messages,
		MaxCompletionTokens: openai.Int(maxTokens),
		Temperature:         openai.Float(req.Temperature),
	})
	if err != nil {
		return nil, c.wrap(err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, &TransportError{
			Provider: openaiProvider,
			Model:    c.model,
			Err:      errors.New("no text content in response"),
		}
	}

	return &Completion{
		Text:         resp.Choices[0].Message.Content,
		Provider:     openaiProvider,
		Model:        c.model,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}, nil
}

func (c *OpenAIClient) wrap(err error) error {
	te := &TransportError{Provider: openaiProvider, Model: c.model, Err: err}
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		te.StatusCode = apierr.StatusCode
	}
	return te
}
