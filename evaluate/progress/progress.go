/*
Copyright 2026 ReadmeScope Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package progress tracks an evaluation run through its fixed stages and
// derives percentage and remaining-time estimates from stage weights.
package progress

import (
	"sync"
	"time"
)

// Stage is a named phase of an evaluation run.
type Stage string

const (
	StageBuildingPrompt Stage = "BUILDING_PROMPT"
	StageCallingModel   Stage = "CALLING_MODEL"
	StageParsingJSON    Stage = "PARSING_JSON"
	StageValidating     Stage = "VALIDATING"
	StageCompleted      Stage = "COMPLETED"
	StageError          Stage = "ERROR"
)

// stagePercent maps each stage to the cumulative weight of the work
// completed when the stage is entered. The model call dominates the budget.
var stagePercent = map[Stage]int{
	StageBuildingPrompt: 0,
	StageCallingModel:   5,
	StageParsingJSON:    65,
	StageValidating:     80,
	StageCompleted:      100,
}

// Event is one progress update. EstimatedRemainingSeconds is nil when no
// estimate is possible, at 0% and in terminal stages.
type Event struct {
	Stage                     Stage    `json:"stage"`
	Message                   string   `json:"message"`
	Percentage                int      `json:"percentage"`
	ElapsedSeconds            float64  `json:"elapsed_seconds"`
	EstimatedRemainingSeconds *float64 `json:"estimated_remaining_seconds"`
}

// Sink receives progress events as they happen.
type Sink func(Event)

// Tracker emits monotonic progress events for one run. It is safe for
// concurrent use, though a run normally advances from a single goroutine.
type Tracker struct {
	mu      sync.Mutex
	sink    Sink
	started time.Time
	now     func() time.Time
	last    int
}

// NewTracker starts the clock and wires the sink. A nil sink discards
// events.
func NewTracker(sink Sink) *Tracker {
	return newTracker(sink, time.Now)
}

func newTracker(sink Sink, now func() time.Time) *Tracker {
	if sink == nil {
		sink = func(Event) {}
	}
	return &Tracker{sink: sink, started: now(), now: now}
}

// Advance records entry into stage and emits an event. The percentage never
// decreases: an out-of-order stage keeps the highest value seen, and ERROR
// freezes at whatever was last reported.
func (t *Tracker) Advance(stage Stage, message string) Event {
	t.mu.Lock()
	defer t.mu.Unlock()

	percentage, ok := stagePercent[stage]
	if !ok || percentage < t.last {
		percentage = t.last
	}
	t.last = percentage

	elapsed := t.now().Sub(t.started).Seconds()
	event := Event{
		Stage:                     stage,
		Message:                   message,
		Percentage:                percentage,
		ElapsedSeconds:            elapsed,
		EstimatedRemainingSeconds: estimate(stage, percentage, elapsed),
	}
	t.sink(event)
	return event
}

// estimate extrapolates remaining time linearly from progress so far. No
// estimate exists at 0% (nothing to extrapolate from) or once the run is
// terminal.
func estimate(stage Stage, percentage int, elapsed float64) *float64 {
	if percentage <= 0 || stage == StageCompleted || stage == StageError {
		return nil
	}
	remaining := elapsed * float64(100-percentage) / float64(percentage)
	return &remaining
}
