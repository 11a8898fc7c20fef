/*
Copyright 2026 ReadmeScope Authors
SPDX-License-Identifier: Apache-2.0
*/

package llmclient_test

import (
	"errors"
	"testing"

	"github.com/readmescope/readmescope/evaluate/llmclient"
)

func TestOptionsValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		opts    llmclient.Options
		wantErr bool
	}{
		{"valid", llmclient.Options{Model: "gemini-2.5-flash", MaxTokens: 1024, Temperature: 0.2}, false},
		{"zero max tokens ok", llmclient.Options{Model: "m", Temperature: 0}, false},
		{"missing model", llmclient.Options{MaxTokens: 10}, true},
		{"negative max tokens", llmclient.Options{Model: "m", MaxTokens: -1}, true},
		{"huge max tokens", llmclient.Options{Model: "m", MaxTokens: llmclient.MaxTokensLimit + 1}, true},
		{"negative temperature", llmclient.Options{Model: "m", Temperature: -0.1}, true},
		{"too hot", llmclient.Options{Model: "m", Temperature: 2.1}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.opts.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil {
				var inputErr *llmclient.InputError
				if !errors.As(err, &inputErr) {
					t.Fatalf("validation failure should be an InputError, got %T", err)
				}
			}
		})
	}
}

func TestEffectiveMaxTokens(t *testing.T) {
	t.Parallel()
	if got := (llmclient.Options{}).EffectiveMaxTokens(); got != llmclient.DefaultMaxTokens {
		t.Errorf("zero MaxTokens should default to %d, got %d", llmclient.DefaultMaxTokens, got)
	}
	if got := (llmclient.Options{MaxTokens: 512}).EffectiveMaxTokens(); got != 512 {
		t.Errorf("explicit MaxTokens should be kept, got %d", got)
	}
}

func TestUnavailableErrorUnwraps(t *testing.T) {
	t.Parallel()
	cause := errors.New("connection refused")
	err := &llmclient.UnavailableError{Provider: "ollama", Attempts: 3, Err: cause}
	if !errors.Is(err, cause) {
		t.Error("UnavailableError must unwrap to its cause")
	}
}
