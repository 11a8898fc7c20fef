/*
Copyright 2026 ReadmeScope Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package jsonfile persists evaluation records as one JSON file per record.
// It is the zero-dependency default backend; pick the sqlite backend for
// larger volumes.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/readmescope/readmescope/resultstore"
)

const defaultListLimit = 50

type fileStore struct {
	dir string
	mu  sync.RWMutex
}

// Open creates dir if needed and returns a store writing one
// <id>.json file per record.
func Open(dir string) (resultstore.Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating result directory %s: %w", dir, err)
	}
	return &fileStore{dir: dir}, nil
}

func (s *fileStore) Close() error { return nil }

func (s *fileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *fileStore) Save(_ context.Context, record resultstore.Record) error {
	if record.ID == "" || strings.ContainsAny(record.ID, `/\`) {
		return fmt.Errorf("invalid record id %q", record.ID)
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Write-then-rename so readers never observe a partial record.
	tmp := s.path(record.ID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path(record.ID))
}

func (s *fileStore) Get(_ context.Context, id string) (resultstore.Record, bool, error) {
	if strings.ContainsAny(id, `/\`) {
		return resultstore.Record{}, false, fmt.Errorf("invalid record id %q", id)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		return resultstore.Record{}, false, nil
	}
	if err != nil {
		return resultstore.Record{}, false, err
	}
	var record resultstore.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return resultstore.Record{}, false, err
	}
	return record, true, nil
}

func (s *fileStore) List(_ context.Context, limit int) ([]resultstore.Record, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var records []resultstore.Record
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		var record resultstore.Record
		if err := json.Unmarshal(data, &record); err != nil {
			// A foreign file in the directory is not our problem.
			continue
		}
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}
