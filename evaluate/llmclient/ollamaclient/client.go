/*
Copyright 2026 ReadmeScope Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package ollamaclient implements the llmclient.Client contract against a
// local Ollama instance over its /api/generate HTTP endpoint.
package ollamaclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/chainguard-dev/clog"

	"github.com/readmescope/readmescope/evaluate/llmclient"
	"github.com/readmescope/readmescope/evaluate/llmclient/retry"
)

const (
	providerName   = "ollama"
	DefaultBaseURL = "http://localhost:11434"
)

// Client calls an Ollama server.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	retryConfig retry.Config
}

// New creates an Ollama client. An empty baseURL selects DefaultBaseURL;
// retryConfig zero value selects retry.DefaultConfig.
func New(baseURL string, retryConfig retry.Config) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if retryConfig.MaxAttempts == 0 {
		retryConfig = retry.DefaultConfig()
	}
	if err := retryConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid retry config: %w", err)
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{},
		retryConfig: retryConfig,
	}, nil
}

type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options generateParams `json:"options"`
}

type generateParams struct {
	NumPredict  int     `json:"num_predict"`
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// statusError carries a non-2xx HTTP status for transient classification.
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("ollama returned status %d: %s", e.status, e.body)
}

// Generate implements llmclient.Client.
func (c *Client) Generate(ctx context.Context, prompt string, opts llmclient.Options) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}
	log := clog.FromContext(ctx).With("provider", providerName).With("model", opts.Model)
	log.With("prompt_length", len(prompt)).Info("Calling Ollama")

	text, err := retry.Do(ctx, c.retryConfig, "ollama_generate", IsRetryable, func() (string, error) {
		return c.generateOnce(ctx, prompt, opts)
	})
	if err != nil {
		var exhausted *retry.ExhaustedError
		if errors.As(err, &exhausted) {
			return "", &llmclient.UnavailableError{Provider: providerName, Attempts: exhausted.Attempts, Err: exhausted.Err}
		}
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	return text, nil
}

func (c *Client) generateOnce(ctx context.Context, prompt string, opts llmclient.Options) (string, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	body, err := json.Marshal(generateRequest{
		Model:  opts.Model,
		Prompt: prompt,
		Stream: false,
		Options: generateParams{
			NumPredict:  opts.EffectiveMaxTokens(),
			Temperature: opts.Temperature,
		},
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", &statusError{status: resp.StatusCode, body: strings.TrimSpace(string(data))}
	}

	var out generateResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	return out.Response, nil
}

// IsRetryable reports whether err is a transient Ollama error: connection
// failures, timeouts, rate limiting, or server errors.
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
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var status *statusError
	if errors.As(err, &status) {
		switch status.status {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
		return false
	}
	return strings.Contains(err.Error(), "connection refused")
}
