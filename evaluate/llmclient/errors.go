/*
Copyright 2026 ReadmeScope Authors
SPDX-License-Identifier: Apache-2.0
*/

package llmclient

import "fmt"

// InputError marks bad or missing required input. It fails fast: no retry,
// no network call.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string { return e.Msg }

// UnavailableError is returned when a provider is unreachable or the retry
// budget is exhausted. It carries the last underlying cause.
type UnavailableError struct {
	Provider string
	Attempts int
	Err      error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("model unavailable: %s failed after %d attempt(s): %v", e.Provider, e.Attempts, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }
