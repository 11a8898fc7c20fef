/*
Copyright 2026 ReadmeScope Authors
SPDX-License-Identifier: Apache-2.0
*/

package pipeline

import (
	"errors"
	"fmt"

	"github.com/readmescope/readmescope/evaluate/extractor"
	"github.com/readmescope/readmescope/evaluate/llmclient"
	"github.com/readmescope/readmescope/evaluate/schemavalidator"
)

// Stage names the pipeline phase an error escaped from.
type Stage string

const (
	// StageQueued covers failures before any work starts: rejected options
	// or cancellation while waiting for a concurrency slot.
	StageQueued   Stage = "queued"
	StagePrompt   Stage = "building_prompt"
	StageModel    Stage = "calling_model"
	StageParse    Stage = "parsing_json"
	StageValidate Stage = "validating"
)

// Kind is the error taxonomy exposed to callers and mapped to transport
// codes by the server layer.
type Kind string

const (
	KindInput            Kind = "input_error"
	KindModelUnavailable Kind = "model_unavailable"
	KindParse            Kind = "json_parse_error"
	KindSchema           Kind = "schema_invalid"
	KindInternal         Kind = "internal_error"
)

// StageError wraps a failure with the stage it escaped from. The wrapped
// error keeps its type so Classify and errors.As still see it.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Classify maps an error anywhere in the chain to its taxonomy kind.
func Classify(err error) Kind {
	var (
		inputErr    *llmclient.InputError
		unavailable *llmclient.UnavailableError
		parseErr    *extractor.ParseError
		invalid     *schemavalidator.InvalidError
	)
	switch {
	case errors.As(err, &inputErr):
		return KindInput
	case errors.As(err, &unavailable):
		return KindModelUnavailable
	case errors.As(err, &parseErr):
		return KindParse
	case errors.As(err, &invalid):
		return KindSchema
	default:
		return KindInternal
	}
}

// Suggestions extracts recovery hints when the error carries them.
func Suggestions(err error) []string {
	var invalid *schemavalidator.InvalidError
	if errors.As(err, &invalid) {
		return invalid.Result.Suggestions
	}
	return nil
}
