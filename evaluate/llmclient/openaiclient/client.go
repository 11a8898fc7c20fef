/*
Copyright 2026 ReadmeScope Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package openaiclient implements the llmclient.Client contract against
// OpenAI-compatible chat-completion endpoints, including hosted inference
// gateways that speak the same protocol.
package openaiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/chainguard-dev/clog"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/readmescope/readmescope/evaluate/llmclient"
	"github.com/readmescope/readmescope/evaluate/llmclient/retry"
)

const providerName = "openai"

// Client calls an OpenAI-compatible API.
type Client struct {
	client      openai.Client
	retryConfig retry.Config
}

// New creates an OpenAI client. baseURL may be empty for the default API
// endpoint. SDK-internal retries are disabled; this package owns the retry
// budget.
func New(apiKey, baseURL string, retryConfig retry.Config) (*Client, error) {
	if apiKey == "" {
		return nil, &llmclient.InputError{Msg: "openai api key is required"}
	}
	if retryConfig.MaxAttempts == 0 {
		retryConfig = retry.DefaultConfig()
	}
	if err := retryConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid retry config: %w", err)
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Client{client: openai.NewClient(opts...), retryConfig: retryConfig}, nil
}

// Generate implements llmclient.Client.
func (c *Client) Generate(ctx context.Context, prompt string, opts llmclient.Options) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}
	log := clog.FromContext(ctx).With("provider", providerName).With("model", opts.Model)
	log.With("prompt_length", len(prompt)).Info("Calling OpenAI-compatible endpoint")

	text, err := retry.Do(ctx, c.retryConfig, "openai_generate", IsRetryable, func() (string, error) {
		return c.generateOnce(ctx, prompt, opts)
	})
	if err != nil {
		var exhausted *retry.ExhaustedError
		if errors.As(err, &exhausted) {
			return "", &llmclient.UnavailableError{Provider: providerName, Attempts: exhausted.Attempts, Err: exhausted.Err}
		}
		return "", fmt.Errorf("openai generate: %w", err)
	}
	return text, nil
}

func (c *Client) generateOnce(ctx context.Context, prompt string, opts llmclient.Options) (string, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: opts.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxTokens:   openai.Int(int64(opts.EffectiveMaxTokens())),
		Temperature: openai.Float(opts.Temperature),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("response contained no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// IsRetryable reports whether err is a transient OpenAI API error.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
		return false
	}
	// Errors without a status are connection-level and worth retrying.
	return true
}
