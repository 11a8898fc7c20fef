/*
Copyright 2026 ReadmeScope Authors
SPDX-License-Identifier: Apache-2.0
*/

package pipeline

import (
	"github.com/readmescope/readmescope/evaluate/progress"
	"github.com/readmescope/readmescope/taxonomy"
)

// EventType discriminates streamed events.
type EventType string

const (
	EventProgress EventType = "progress"
	EventResult   EventType = "result"
	EventRendered EventType = "rendered"
	EventError    EventType = "error"
)

// StreamEvent is one streamed pipeline event. Exactly one payload field is
// set, selected by Type. A run emits zero or more progress events followed
// by either result and rendered events, or a single error event.
type StreamEvent struct {
	Type     EventType                 `json:"type"`
	JobID    string                    `json:"job_id"`
	Progress *progress.Event           `json:"progress,omitempty"`
	Result   taxonomy.EvaluationResult `json:"result,omitempty"`
	Rendered string                    `json:"rendered,omitempty"`
	Error    *ErrorPayload             `json:"error,omitempty"`
}

// ErrorPayload is the streamed form of a failed run.
type ErrorPayload struct {
	Kind        Kind     `json:"kind"`
	Stage       Stage    `json:"stage,omitempty"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
}
