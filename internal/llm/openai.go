// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/pdiddy/summary-engine/pkg/types"
)

// OpenAITransport targets the OpenAI chat completions API through the
// official openai-go SDK.
type OpenAITransport struct {
	Model string
	Opts  []option.RequestOption
}

// NewOpenAITransport builds a transport from config, validating the
// required fields.
func NewOpenAITransport(cfg types.LLMConfig) (*OpenAITransport, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key missing; provide llm.api_key or .secrets/openai-api-key")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("llm model is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.MaxRetries > 0 {
		opts = append(opts, option.WithMaxRetries(cfg.MaxRetries))
	}

	return &OpenAITransport{Model: cfg.Model, Opts: opts}, nil
}

// Complete sends one chat completion with the prompt and payload as two
// user messages and extracts the first choice plus usage totals.
func (o *OpenAITransport) Complete(ctx context.Context, prompt, payload string) (Completion, error) {
	client := openai.NewClient(o.Opts...)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
			openai.UserMessage(payload),
		},
	})
	if err != nil {
		return Completion{}, fmt.Errorf("calling OpenAI API: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Completion{}, fmt.Errorf("openai: empty choices")
	}

	return Completion{
		Text: resp.Choices[0].Message.Content,
		Usage: types.UsageRecord{
			InputTokens:  int(resp.Usage.PromptTokens),
			OutputTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:  int(resp.Usage.TotalTokens),
		},
	}, nil
}

// NewTransport selects a transport implementation from config. The
// default provider is openai.
func NewTransport(cfg types.LLMConfig) (Transport, error) {
	switch cfg.Provider {
	case types.ProviderAnthropic:
		return NewAnthropicTransport(cfg)
	case types.ProviderOpenAI, "":
		return NewOpenAITransport(cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider %q: use openai or anthropic", cfg.Provider)
	}
}
