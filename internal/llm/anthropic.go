// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/summary-engine/internal/httputil"
	"github.com/pdiddy/summary-engine/pkg/types"
)

// defaultAnthropicURL is the Messages API endpoint.
const defaultAnthropicURL = "https://api.anthropic.com/v1/messages"

// AnthropicTransport targets the Anthropic Messages API. Prompt and
// payload travel as two user messages; rate-limit responses are retried
// with backoff below the budget boundary, so one Complete call is one
// budget attempt regardless of 429s.
type AnthropicTransport struct {
	APIKey     string
	Model      string
	BaseURL    string
	MaxRetries int
	Client     *http.Client
}

// NewAnthropicTransport builds a transport from config, validating the
// required fields.
func NewAnthropicTransport(cfg types.LLMConfig) (*AnthropicTransport, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic api key missing; provide llm.api_key or .secrets/anthropic-api-key")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("llm model is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &AnthropicTransport{
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		BaseURL:    cfg.BaseURL,
		MaxRetries: cfg.MaxRetries,
		Client:     &http.Client{Timeout: timeout},
	}, nil
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []anthropicContent `json:"content"`
	Usage   anthropicUsage     `json:"usage"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Complete sends one Messages API request and extracts the first text
// block plus usage totals.
func (a *AnthropicTransport) Complete(ctx context.Context, prompt, payload string) (Completion, error) {
	reqBody := anthropicRequest{
		Model:     a.Model,
		MaxTokens: 8192,
		Messages: []anthropicMessage{
			{Role: "user", Content: prompt},
			{Role: "user", Content: payload},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return Completion{}, fmt.Errorf("marshaling request: %w", err)
	}

	url := a.BaseURL
	if url == "" {
		url = defaultAnthropicURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return Completion{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	client := a.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, a.MaxRetries)
	if err != nil {
		return Completion{}, fmt.Errorf("calling Anthropic API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Completion{}, fmt.Errorf("Anthropic API returned %d: %s", resp.StatusCode, string(body))
	}

	var aResp anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&aResp); err != nil {
		return Completion{}, fmt.Errorf("decoding Anthropic response: %w", err)
	}

	usage := types.UsageRecord{
		InputTokens:  aResp.Usage.InputTokens,
		OutputTokens: aResp.Usage.OutputTokens,
		TotalTokens:  aResp.Usage.InputTokens + aResp.Usage.OutputTokens,
	}

	for _, block := range aResp.Content {
		if block.Type != "text" || block.Text == "" {
			continue
		}
		return Completion{Text: block.Text, Usage: usage}, nil
	}

	return Completion{}, fmt.Errorf("no text content in Anthropic API response")
}
