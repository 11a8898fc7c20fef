/*
Copyright 2026 ReadmeScope Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package factory resolves a configured provider name to a concrete
// llmclient.Client. New providers are added here by implementing
// llmclient.Client, never by branching inside the pipeline.
package factory

import (
	"context"
	"fmt"
	"strings"

	"github.com/readmescope/readmescope/evaluate/llmclient"
	"github.com/readmescope/readmescope/evaluate/llmclient/anthropicclient"
	"github.com/readmescope/readmescope/evaluate/llmclient/geminiclient"
	"github.com/readmescope/readmescope/evaluate/llmclient/ollamaclient"
	"github.com/readmescope/readmescope/evaluate/llmclient/openaiclient"
	"github.com/readmescope/readmescope/evaluate/llmclient/retry"
)

// Supported provider names.
const (
	ProviderGemini    = "gemini"
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config carries the provider credentials and endpoints resolved once per
// process. Only the fields for the selected provider are consulted.
type Config struct {
	Provider string

	GeminiAPIKey    string
	AnthropicAPIKey string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	OllamaBaseURL   string

	Retry retry.Config
}

// New resolves cfg.Provider to a concrete client.
func New(ctx context.Context, cfg Config) (llmclient.Client, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderGemini, "":
		return geminiclient.New(ctx, cfg.GeminiAPIKey, cfg.Retry)
	case ProviderOllama:
		return ollamaclient.New(cfg.OllamaBaseURL, cfg.Retry)
	case ProviderOpenAI:
		return openaiclient.New(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.Retry)
	case ProviderAnthropic:
		return anthropicclient.New(cfg.AnthropicAPIKey, cfg.Retry)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q (supported: %s, %s, %s, %s)",
			cfg.Provider, ProviderGemini, ProviderOllama, ProviderOpenAI, ProviderAnthropic)
	}
}
