/*
Copyright 2026 ReadmeScope Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package llmclient defines the provider-agnostic contract for LLM
// backends. Each backend wraps exactly one outbound call per attempt and
// applies a bounded retry policy for transient failures; everything above
// this package is backend-agnostic.
package llmclient

import (
	"context"
	"fmt"
	"time"
)

// Client is the single capability every backend implements: prompt in, raw
// model text out. Implementations are stateless between calls and safe for
// concurrent use.
type Client interface {
	// Generate sends the prompt and returns the raw response text. The
	// context bounds the whole call including retries; cancellation aborts
	// the in-flight provider request.
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
}

// Provider-accepted generation bounds. Out-of-range values fail fast before
// any network call.
const (
	MaxTokensLimit   = 1 << 20
	MaxTemperature   = 2.0
	DefaultMaxTokens = 20480
)

// Options are the per-call generation parameters.
type Options struct {
	// Model is the provider model name. Required.
	Model string
	// MaxTokens bounds the response length. Zero selects DefaultMaxTokens.
	MaxTokens int
	// Temperature in [0, MaxTemperature].
	Temperature float64
	// Timeout bounds a single attempt. Zero disables the per-attempt bound
	// (the call context still applies).
	Timeout time.Duration
}

// Validate checks the options against provider-accepted ranges.
func (o Options) Validate() error {
	if o.Model == "" {
		return &InputError{Msg: "model name is required"}
	}
	if o.MaxTokens < 0 || o.MaxTokens > MaxTokensLimit {
		return &InputError{Msg: fmt.Sprintf("max_tokens %d out of range [0, %d]", o.MaxTokens, MaxTokensLimit)}
	}
	if o.Temperature < 0 || o.Temperature > MaxTemperature {
		return &InputError{Msg: fmt.Sprintf("temperature %g out of range [0, %g]", o.Temperature, MaxTemperature)}
	}
	return nil
}

// EffectiveMaxTokens resolves the zero default.
func (o Options) EffectiveMaxTokens() int {
	if o.MaxTokens == 0 {
		return DefaultMaxTokens
	}
	return o.MaxTokens
}
