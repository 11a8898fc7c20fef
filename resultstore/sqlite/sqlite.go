/*
Copyright 2026 ReadmeScope Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package sqlite persists evaluation records in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "modernc.org/sqlite"

	"github.com/readmescope/readmescope/resultstore"
	"github.com/readmescope/readmescope/taxonomy"
)

const defaultListLimit = 50

type sqliteStore struct {
	db *sql.DB
}

// Open opens (creating if needed) a SQLite-backed store at path, with WAL
// mode enabled.
func Open(ctx context.Context, path string) (resultstore.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// WAL lets concurrent pipeline runs save while the API lists.
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS evaluations (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	source TEXT NOT NULL,
	model TEXT NOT NULL,
	result_json TEXT NOT NULL,
	rendered TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_evaluations_created_at ON evaluations(created_at);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

func (s *sqliteStore) Save(ctx context.Context, record resultstore.Record) error {
	resultJSON, err := json.Marshal(record.Result)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO evaluations (id, created_at, source, model, result_json, rendered)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	created_at=excluded.created_at,
	source=excluded.source,
	model=excluded.model,
	result_json=excluded.result_json,
	rendered=excluded.rendered;
`, record.ID, record.CreatedAt.UTC().Format(time.RFC3339Nano), record.Source, record.Model, string(resultJSON), record.Rendered)
	return err
}

func (s *sqliteStore) Get(ctx context.Context, id string) (resultstore.Record, bool, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, created_at, source, model, result_json, rendered
FROM evaluations
WHERE id = ?;
`, id)
	record, err := scanRecord(row.Scan)
	if err == sql.ErrNoRows {
		return resultstore.Record{}, false, nil
	}
	if err != nil {
		return resultstore.Record{}, false, err
	}
	return record, true, nil
}

func (s *sqliteStore) List(ctx context.Context, limit int) ([]resultstore.Record, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, created_at, source, model, result_json, rendered
FROM evaluations
ORDER BY created_at DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []resultstore.Record
	for rows.Next() {
		record, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func scanRecord(scan func(...any) error) (resultstore.Record, error) {
	var (
		record     resultstore.Record
		createdAt  string
		resultJSON string
	)
	if err := scan(&record.ID, &createdAt, &record.Source, &record.Model, &resultJSON, &record.Rendered); err != nil {
		return resultstore.Record{}, err
	}
	if parsed, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		record.CreatedAt = parsed
	}
	record.Result = taxonomy.EvaluationResult{}
	if err := json.Unmarshal([]byte(resultJSON), &record.Result); err != nil {
		return resultstore.Record{}, err
	}
	return record, nil
}
