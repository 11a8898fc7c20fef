/*
Copyright 2026 ReadmeScope Authors
SPDX-License-Identifier: Apache-2.0
*/

package progress

import (
	"testing"
	"time"
)

// fakeClock advances a fixed step per call after the first.
func fakeClock(step time.Duration) func() time.Time {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	return func() time.Time {
		t := base.Add(time.Duration(calls) * step)
		calls++
		return t
	}
}

func TestAdvanceEmitsStagePercentages(t *testing.T) {
	t.Parallel()
	var events []Event
	tracker := newTracker(func(e Event) { events = append(events, e) }, fakeClock(time.Second))

	for _, stage := range []Stage{StageBuildingPrompt, StageCallingModel, StageParsingJSON, StageValidating, StageCompleted} {
		tracker.Advance(stage, "")
	}

	want := []int{0, 5, 65, 80, 100}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i, e := range events {
		if e.Percentage != want[i] {
			t.Errorf("event %d (%s): percentage = %v, want %v", i, e.Stage, e.Percentage, want[i])
		}
	}
}

func TestNoEstimateAtZeroPercent(t *testing.T) {
	t.Parallel()
	tracker := newTracker(nil, fakeClock(time.Second))
	event := tracker.Advance(StageBuildingPrompt, "building prompt")
	if event.EstimatedRemainingSeconds != nil {
		t.Errorf("estimate at 0%% = %v, want nil", *event.EstimatedRemainingSeconds)
	}
}

func TestLinearEstimate(t *testing.T) {
	t.Parallel()
	tracker := newTracker(nil, fakeClock(time.Second))
	tracker.Advance(StageBuildingPrompt, "")
	// Second Advance sees elapsed = 2s at 5%: remaining = 2 * 95/5 = 38s.
	event := tracker.Advance(StageCallingModel, "")
	if event.EstimatedRemainingSeconds == nil {
		t.Fatal("expected an estimate at 5%")
	}
	if got := *event.EstimatedRemainingSeconds; got != 38 {
		t.Errorf("estimate = %v, want 38", got)
	}
}

func TestTerminalStagesHaveNoEstimate(t *testing.T) {
	t.Parallel()
	tracker := newTracker(nil, fakeClock(time.Second))
	tracker.Advance(StageValidating, "")
	if e := tracker.Advance(StageCompleted, ""); e.EstimatedRemainingSeconds != nil {
		t.Error("COMPLETED should not carry an estimate")
	}
}

func TestErrorFreezesPercentage(t *testing.T) {
	t.Parallel()
	tracker := newTracker(nil, fakeClock(time.Second))
	tracker.Advance(StageParsingJSON, "")
	event := tracker.Advance(StageError, "model output unusable")
	if event.Percentage != 65 {
		t.Errorf("ERROR percentage = %v, want frozen at 65", event.Percentage)
	}
	if event.EstimatedRemainingSeconds != nil {
		t.Error("ERROR should not carry an estimate")
	}
}

func TestPercentageIsMonotonic(t *testing.T) {
	t.Parallel()
	tracker := newTracker(nil, fakeClock(time.Second))
	tracker.Advance(StageValidating, "")
	// A stage reported out of order never lowers the percentage.
	if e := tracker.Advance(StageCallingModel, ""); e.Percentage != 80 {
		t.Errorf("percentage dropped to %v", e.Percentage)
	}
}

func TestElapsedUsesTrackerClock(t *testing.T) {
	t.Parallel()
	tracker := newTracker(nil, fakeClock(500*time.Millisecond))
	tracker.Advance(StageBuildingPrompt, "")
	event := tracker.Advance(StageCallingModel, "")
	if event.ElapsedSeconds != 1 {
		t.Errorf("elapsed = %v, want 1", event.ElapsedSeconds)
	}
}
