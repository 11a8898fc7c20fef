/*
Copyright 2026 ReadmeScope Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package geminiclient implements the llmclient.Client contract against the
// Google Gemini API.
package geminiclient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chainguard-dev/clog"
	"google.golang.org/genai"

	"github.com/readmescope/readmescope/evaluate/llmclient"
	"github.com/readmescope/readmescope/evaluate/llmclient/retry"
)

const providerName = "gemini"

// Client calls the Gemini API. Stateless between calls apart from the
// underlying SDK connection.
type Client struct {
	client      *genai.Client
	retryConfig retry.Config
}

// New creates a Gemini client. apiKey is required; retryConfig zero value
// selects retry.DefaultConfig.
func New(ctx context.Context, apiKey string, retryConfig retry.Config) (*Client, error) {
	if apiKey == "" {
		return nil, &llmclient.InputError{Msg: "gemini api key is required"}
	}
	if retryConfig.MaxAttempts == 0 {
		retryConfig = retry.DefaultConfig()
	}
	if err := retryConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid retry config: %w", err)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &Client{client: client, retryConfig: retryConfig}, nil
}

// Generate implements llmclient.Client.
func (c *Client) Generate(ctx context.Context, prompt string, opts llmclient.Options) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}
	log := clog.FromContext(ctx).With("provider", providerName).With("model", opts.Model)
	log.With("prompt_length", len(prompt)).Info("Calling Gemini")

	text, err := retry.Do(ctx, c.retryConfig, "gemini_generate", IsRetryable, func() (string, error) {
		return c.generateOnce(ctx, prompt, opts)
	})
	if err != nil {
		var exhausted *retry.ExhaustedError
		if errors.As(err, &exhausted) {
			return "", &llmclient.UnavailableError{Provider: providerName, Attempts: exhausted.Attempts, Err: exhausted.Err}
		}
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return text, nil
}

func (c *Client) generateOnce(ctx context.Context, prompt string, opts llmclient.Options) (string, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(opts.Temperature)),
		MaxOutputTokens: int32(opts.EffectiveMaxTokens()),
	}
	resp, err := c.client.Models.GenerateContent(ctx, opts.Model, genai.Text(prompt), config)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// IsRetryable reports whether err is a transient Gemini error: rate limit,
// quota exhaustion, server errors, or a timed-out attempt. The genai SDK
// surfaces HTTP status codes in the error message.
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
	errStr := err.Error()
	for _, marker := range []string{
		"429", "RESOURCE_EXHAUSTED", "Resource exhausted", "rate limit",
		"500", "502", "503", "504", "Overloaded", "server error", "connection refused",
	} {
		if strings.Contains(errStr, marker) {
			return true
		}
	}
	return false
}
