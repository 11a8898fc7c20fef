/*
Copyright 2026 ReadmeScope Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package resultstore persists finished evaluations so reports survive the
// process and can be listed later.
package resultstore

import (
	"context"
	"time"

	"github.com/readmescope/readmescope/taxonomy"
)

// Record is one persisted evaluation.
type Record struct {
	// ID is the job ID of the run that produced this record.
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	// Source identifies the evaluated input: an owner/repo reference, or
	// "inline" for pasted README text.
	Source string `json:"source"`
	// Model is the model that produced the evaluation.
	Model string `json:"model"`

	Result   taxonomy.EvaluationResult `json:"result"`
	Rendered string                    `json:"rendered"`
}

// Store persists evaluation records. Implementations are safe for
// concurrent use.
type Store interface {
	// Save persists the record, replacing any record with the same ID.
	Save(ctx context.Context, record Record) error
	// Get returns the record with the given ID, and whether it exists.
	Get(ctx context.Context, id string) (Record, bool, error)
	// List returns up to limit records, newest first. A non-positive limit
	// selects a backend default.
	List(ctx context.Context, limit int) ([]Record, error)
	Close() error
}
