/*
Copyright 2026 ReadmeScope Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package anthropicclient implements the llmclient.Client contract against
// the Anthropic Claude API.
package anthropicclient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/chainguard-dev/clog"

	"github.com/readmescope/readmescope/evaluate/llmclient"
	"github.com/readmescope/readmescope/evaluate/llmclient/retry"
)

const providerName = "anthropic"

// Client calls the Anthropic API.
type Client struct {
	client      anthropic.Client
	retryConfig retry.Config
}

// New creates a Claude client. SDK-internal retries are disabled; this
// package owns the retry budget.
func New(apiKey string, retryConfig retry.Config) (*Client, error) {
	if apiKey == "" {
		return nil, &llmclient.InputError{Msg: "anthropic api key is required"}
	}
	if retryConfig.MaxAttempts == 0 {
		retryConfig = retry.DefaultConfig()
	}
	if err := retryConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid retry config: %w", err)
	}
	return &Client{
		client:      anthropic.NewClient(option.WithAPIKey(apiKey), option.WithMaxRetries(0)),
		retryConfig: retryConfig,
	}, nil
}

// Generate implements llmclient.Client.
func (c *Client) Generate(ctx context.Context, prompt string, opts llmclient.Options) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}
	log := clog.FromContext(ctx).With("provider", providerName).With("model", opts.Model)
	log.With("prompt_length", len(prompt)).Info("Calling Anthropic")

	text, err := retry.Do(ctx, c.retryConfig, "anthropic_generate", IsRetryable, func() (string, error) {
		return c.generateOnce(ctx, prompt, opts)
	})
	if err != nil {
		var exhausted *retry.ExhaustedError
		if errors.As(err, &exhausted) {
			return "", &llmclient.UnavailableError{Provider: providerName, Attempts: exhausted.Attempts, Err: exhausted.Err}
		}
		return "", fmt.Errorf("anthropic generate: %w", err)
	}
	return text, nil
}

func (c *Client) generateOnce(ctx context.Context, prompt string, opts llmclient.Options) (string, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(opts.Model),
		MaxTokens: int64(opts.EffectiveMaxTokens()),
		Messages: []anthropic.MessageParam{{
			Role: anthropic.MessageParamRoleUser,
			Content: []anthropic.ContentBlockParamUnion{
				anthropic.NewTextBlock(prompt),
			},
		}},
	}
	params.Temperature = anthropic.Float(opts.Temperature)

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}

// IsRetryable reports whether err is a transient Anthropic API error:
// rate limit, overloaded, or transient server errors.
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
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429, 500, 502, 503, 504, 529:
			return true
		}
		return false
	}
	// Errors without a status are connection-level and worth retrying.
	return true
}
