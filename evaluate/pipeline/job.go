/*
Copyright 2026 ReadmeScope Authors
SPDX-License-Identifier: Apache-2.0
*/

package pipeline

import (
	"sync"
	"time"

	"github.com/readmescope/readmescope/evaluate/progress"
	"github.com/readmescope/readmescope/taxonomy"
)

// State is the lifecycle state of a job. Transitions are strictly
// QUEUED -> RUNNING -> {COMPLETED, FAILED}.
type State string

const (
	StateQueued    State = "QUEUED"
	StateRunning   State = "RUNNING"
	StateCompleted State = "COMPLETED"
	StateFailed    State = "FAILED"
)

// Job is a snapshot of one evaluation run. The registry hands out copies;
// mutating a snapshot has no effect on the tracked job.
type Job struct {
	ID         string         `json:"id"`
	State      State          `json:"state"`
	CreatedAt  time.Time      `json:"created_at"`
	StartedAt  *time.Time     `json:"started_at,omitempty"`
	FinishedAt *time.Time     `json:"finished_at,omitempty"`
	Progress   progress.Event `json:"progress"`

	Result   taxonomy.EvaluationResult `json:"result,omitempty"`
	Rendered string                    `json:"rendered,omitempty"`

	Error     string `json:"error,omitempty"`
	ErrorKind Kind   `json:"error_kind,omitempty"`
}

// registry tracks jobs for the lifetime of the process, in submission
// order.
type registry struct {
	mu    sync.RWMutex
	jobs  map[string]*Job
	order []string
	now   func() time.Time
}

func newRegistry(now func() time.Time) *registry {
	return &registry{jobs: make(map[string]*Job), now: now}
}

func (r *registry) add(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[id] = &Job{ID: id, State: StateQueued, CreatedAt: r.now()}
	r.order = append(r.order, id)
}

func (r *registry) start(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job := r.jobs[id]; job != nil {
		now := r.now()
		job.State = StateRunning
		job.StartedAt = &now
	}
}

func (r *registry) progress(id string, event progress.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job := r.jobs[id]; job != nil {
		job.Progress = event
	}
}

func (r *registry) complete(id string, result taxonomy.EvaluationResult, rendered string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job := r.jobs[id]; job != nil {
		now := r.now()
		job.State = StateCompleted
		job.FinishedAt = &now
		job.Result = result
		job.Rendered = rendered
	}
}

func (r *registry) fail(id string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job := r.jobs[id]; job != nil {
		now := r.now()
		job.State = StateFailed
		job.FinishedAt = &now
		job.Error = err.Error()
		job.ErrorKind = Classify(err)
	}
}

func (r *registry) get(id string) (Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

// list returns all jobs in submission order.
func (r *registry) list() []Job {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Job, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.jobs[id])
	}
	return out
}
