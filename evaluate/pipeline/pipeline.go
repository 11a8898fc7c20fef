/*
Copyright 2026 ReadmeScope Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package pipeline orchestrates a full README evaluation: prompt assembly,
// model call, JSON extraction, schema validation, and rendering. It bounds
// concurrent model calls with a weighted semaphore and tracks every run as
// a job with a strict QUEUED -> RUNNING -> {COMPLETED, FAILED} lifecycle.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/readmescope/readmescope/evaluate/extractor"
	"github.com/readmescope/readmescope/evaluate/llmclient"
	"github.com/readmescope/readmescope/evaluate/progress"
	"github.com/readmescope/readmescope/evaluate/promptbuilder"
	"github.com/readmescope/readmescope/evaluate/render"
	"github.com/readmescope/readmescope/evaluate/schemavalidator"
	"github.com/readmescope/readmescope/taxonomy"
)

// DefaultCapacity bounds concurrent model calls. Queued runs wait in FIFO
// order for a slot.
const DefaultCapacity = 3

// Config assembles a Pipeline.
type Config struct {
	// Client is the LLM backend. Required.
	Client llmclient.Client
	// SchemaPath optionally overrides the embedded taxonomy schema.
	SchemaPath string
	// Capacity bounds concurrent model calls. Zero selects DefaultCapacity.
	Capacity int64
	// Defaults supply per-call options a request leaves unset. Defaults.Model
	// is required.
	Defaults llmclient.Options
	// Metrics is optional; nil disables instrumentation.
	Metrics *Metrics
}

// Request is one evaluation request.
type Request struct {
	// Readme is the raw README text. May be empty: the model then reports
	// every category as absent.
	Readme string `json:"readme"`
	// Extra carries optional additional instructions appended to the prompt.
	Extra string `json:"extra,omitempty"`
	// Model overrides the configured default model when non-empty.
	Model string `json:"model,omitempty"`
	// MaxTokens overrides the default response bound when non-zero.
	MaxTokens int `json:"max_tokens,omitempty"`
	// Temperature overrides the default when non-nil.
	Temperature *float64 `json:"temperature,omitempty"`
}

// Outcome is a successful evaluation.
type Outcome struct {
	JobID    string                    `json:"job_id"`
	Result   taxonomy.EvaluationResult `json:"result"`
	Rendered string                    `json:"rendered"`
}

// Pipeline runs evaluations. Safe for concurrent use.
type Pipeline struct {
	client     llmclient.Client
	validator  *schemavalidator.Validator
	schemaText string
	defaults   llmclient.Options
	sem        *semaphore.Weighted
	registry   *registry
	metrics    *Metrics
}

// New builds a Pipeline, compiling the taxonomy schema once.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Client == nil {
		return nil, errors.New("pipeline: client is required")
	}
	if cfg.Defaults.Model == "" {
		return nil, errors.New("pipeline: default model is required")
	}
	schemaText, err := taxonomy.SchemaText(cfg.SchemaPath)
	if err != nil {
		return nil, err
	}
	validator, err := schemavalidator.New(schemaText)
	if err != nil {
		return nil, err
	}
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Pipeline{
		client:     cfg.Client,
		validator:  validator,
		schemaText: schemaText,
		defaults:   cfg.Defaults,
		sem:        semaphore.NewWeighted(capacity),
		registry:   newRegistry(time.Now),
		metrics:    cfg.Metrics,
	}, nil
}

// SchemaText returns the schema the pipeline validates against.
func (p *Pipeline) SchemaText() string { return p.schemaText }

// Job returns a snapshot of the identified job.
func (p *Pipeline) Job(id string) (Job, bool) { return p.registry.get(id) }

// Jobs returns snapshots of every job in submission order.
func (p *Pipeline) Jobs() []Job { return p.registry.list() }

// Evaluate runs one evaluation synchronously and returns the outcome or
// the stage-wrapped error. The context bounds the whole run including the
// wait for a concurrency slot.
func (p *Pipeline) Evaluate(ctx context.Context, req Request) (*Outcome, error) {
	return p.execute(ctx, req, nil)
}

// Stream runs one evaluation, emitting progress events as stages advance,
// then either result and rendered events or a single error event. Emit is
// called from the evaluating goroutine; it must not block indefinitely.
func (p *Pipeline) Stream(ctx context.Context, req Request, emit func(StreamEvent)) {
	_, _ = p.execute(ctx, req, emit)
}

func (p *Pipeline) execute(ctx context.Context, req Request, emit func(StreamEvent)) (*Outcome, error) {
	jobID := uuid.NewString()
	p.registry.add(jobID)
	log := clog.FromContext(ctx).With("job", jobID)

	sink := func(event progress.Event) {
		p.registry.progress(jobID, event)
		if emit != nil {
			e := event
			emit(StreamEvent{Type: EventProgress, JobID: jobID, Progress: &e})
		}
	}

	outcome, err := p.run(clog.WithLogger(ctx, log), jobID, req, progress.NewTracker(sink))
	if err != nil {
		p.registry.fail(jobID, err)
		p.metrics.recordOutcome(string(Classify(err)))
		log.With("kind", Classify(err)).Errorf("evaluation failed: %v", err)
		if emit != nil {
			emit(StreamEvent{Type: EventError, JobID: jobID, Error: errorPayload(err)})
		}
		return nil, err
	}

	p.registry.complete(jobID, outcome.Result, outcome.Rendered)
	p.metrics.recordOutcome("completed")
	log.Infof("evaluation completed")
	if emit != nil {
		emit(StreamEvent{Type: EventResult, JobID: jobID, Result: outcome.Result})
		emit(StreamEvent{Type: EventRendered, JobID: jobID, Rendered: outcome.Rendered})
	}
	return outcome, nil
}

func (p *Pipeline) run(ctx context.Context, jobID string, req Request, tracker *progress.Tracker) (*Outcome, error) {
	opts := p.optionsFor(req)
	if err := opts.Validate(); err != nil {
		tracker.Advance(progress.StageError, err.Error())
		return nil, &StageError{Stage: StageQueued, Err: err}
	}

	// FIFO wait for a model-call slot; cancellation while queued aborts the
	// run before any work happens.
	if err := p.sem.Acquire(ctx, 1); err != nil {
		tracker.Advance(progress.StageError, "canceled while queued")
		return nil, &StageError{Stage: StageQueued, Err: err}
	}
	defer p.sem.Release(1)
	p.registry.start(jobID)
	p.metrics.slotAcquired()
	defer p.metrics.slotReleased()

	tracker.Advance(progress.StageBuildingPrompt, "building evaluation prompt")
	prompt, err := p.timedPrompt(req)
	if err != nil {
		return nil, p.fail(tracker, StagePrompt, err)
	}

	tracker.Advance(progress.StageCallingModel, fmt.Sprintf("calling model %s", opts.Model))
	start := time.Now()
	raw, err := p.client.Generate(ctx, prompt, opts)
	p.metrics.observeStage(StageModel, time.Since(start).Seconds())
	if err != nil {
		return nil, p.fail(tracker, StageModel, err)
	}

	tracker.Advance(progress.StageParsingJSON, "extracting JSON from model output")
	start = time.Now()
	doc, err := extractor.Extract(raw)
	if err == nil {
		doc = extractor.Normalize(doc)
	}
	p.metrics.observeStage(StageParse, time.Since(start).Seconds())
	if err != nil {
		return nil, p.fail(tracker, StageParse, err)
	}

	tracker.Advance(progress.StageValidating, "validating against taxonomy schema")
	start = time.Now()
	validation := p.validator.Validate(doc)
	p.metrics.observeStage(StageValidate, time.Since(start).Seconds())
	if !validation.Valid {
		return nil, p.fail(tracker, StageValidate, &schemavalidator.InvalidError{Result: validation})
	}

	result, err := taxonomy.FromDocument(doc)
	if err != nil {
		return nil, p.fail(tracker, StageValidate, err)
	}

	tracker.Advance(progress.StageCompleted, "evaluation complete")
	return &Outcome{
		JobID:    jobID,
		Result:   result,
		Rendered: render.Markdown(result),
	}, nil
}

func (p *Pipeline) timedPrompt(req Request) (string, error) {
	start := time.Now()
	prompt, err := promptbuilder.Build(p.schemaText, req.Readme, req.Extra)
	p.metrics.observeStage(StagePrompt, time.Since(start).Seconds())
	return prompt, err
}

func (p *Pipeline) fail(tracker *progress.Tracker, stage Stage, err error) error {
	tracker.Advance(progress.StageError, err.Error())
	return &StageError{Stage: stage, Err: err}
}

// optionsFor merges request overrides onto the configured defaults.
func (p *Pipeline) optionsFor(req Request) llmclient.Options {
	opts := p.defaults
	if req.Model != "" {
		opts.Model = req.Model
	}
	if req.MaxTokens != 0 {
		opts.MaxTokens = req.MaxTokens
	}
	if req.Temperature != nil {
		opts.Temperature = *req.Temperature
	}
	return opts
}

func errorPayload(err error) *ErrorPayload {
	payload := &ErrorPayload{
		Kind:        Classify(err),
		Message:     err.Error(),
		Suggestions: Suggestions(err),
	}
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		payload.Stage = stageErr.Stage
	}
	return payload
}
