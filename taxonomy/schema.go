/*
Copyright 2026 ReadmeScope Authors
SPDX-License-Identifier: Apache-2.0
*/

package taxonomy

import (
	_ "embed"
	"fmt"
	"os"
)

// canonicalSchema is the versioned taxonomy contract shipped with the
// binary. It is loaded once at process start and treated as immutable for
// the process lifetime.
//
//go:embed taxonomy.schema.json
var canonicalSchema []byte

// SchemaText returns the canonical schema document. When path is non-empty
// the document is read from disk instead, which lets operators pin a
// different schema revision without rebuilding.
func SchemaText(path string) (string, error) {
	if path == "" {
		return string(canonicalSchema), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading schema override %s: %w", path, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("schema override %s is empty", path)
	}
	return string(data), nil
}
