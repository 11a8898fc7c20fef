/*
Copyright 2026 ReadmeScope Authors
SPDX-License-Identifier: Apache-2.0
*/

package extractor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/readmescope/readmescope/taxonomy"
)

// Field-shape coercion rules. Models bend field types in predictable ways
// (a lone string where an array belongs, "true" where a boolean belongs,
// a {note: n} object where a bare score belongs); the rules are data so the
// repair logic stays testable in isolation rather than scattered through
// conditionals.
var listFields = map[string]bool{
	taxonomy.FieldEvidences:             true,
	taxonomy.FieldJustifications:        true,
	taxonomy.FieldSuggestedImprovements: true,
}

// Checklist string variants tolerated from model output.
var truthyStrings = map[string]bool{
	"true": true, "yes": true, "present": true, "1": true, "y": true, "✔": true,
}
var falsyStrings = map[string]bool{
	"false": true, "no": true, "absent": true, "0": true, "n": true, "✖": true, "n/a": true,
}

// Normalize applies the tolerated coercions to an extracted document, in
// place of nothing: the input is not mutated. For every known category:
// list fields that arrived as a single string become one-element slices,
// checklist values are coerced to booleans, quality values to integers,
// and keys outside the category's allowed set are dropped (a tolerated
// model quirk, not an error). Unknown top-level keys are preserved for the
// validator to reject. Normalize is deterministic, order-preserving, and
// idempotent.
func Normalize(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	for key, value := range doc {
		if !taxonomy.IsCategory(key) {
			out[key] = value
			continue
		}
		category, ok := value.(map[string]any)
		if !ok {
			out[key] = value
			continue
		}
		spec, _ := taxonomy.SpecFor(taxonomy.Category(key))
		out[key] = normalizeCategory(category, spec)
	}
	return out
}

func normalizeCategory(category map[string]any, spec taxonomy.Spec) map[string]any {
	out := make(map[string]any, len(category))
	for field, value := range category {
		if !spec.Allows(field) {
			continue
		}
		switch {
		case listFields[field]:
			out[field] = coerceStringList(value)
		case field == taxonomy.FieldChecklist:
			out[field] = coerceChecklist(value)
		case field == taxonomy.FieldQuality:
			out[field] = coerceQuality(value)
		default:
			out[field] = value
		}
	}
	return out
}

// coerceStringList turns a lone string into a one-element list and
// stringifies non-string items, preserving order.
func coerceStringList(value any) any {
	switch v := value.(type) {
	case string:
		return []any{v}
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			if s, ok := item.(string); ok {
				out[i] = s
			} else {
				out[i] = fmt.Sprintf("%v", item)
			}
		}
		return out
	default:
		return value
	}
}

func coerceChecklist(value any) any {
	checks, ok := value.(map[string]any)
	if !ok {
		return value
	}
	out := make(map[string]any, len(checks))
	for name, v := range checks {
		if b, ok := coerceBool(v); ok {
			out[name] = b
		}
		// Uncoercible values are dropped rather than guessed.
	}
	return out
}

func coerceBool(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		if truthyStrings[s] {
			return true, true
		}
		if falsyStrings[s] {
			return false, true
		}
		return false, false
	case float64:
		return v != 0, true
	default:
		return false, false
	}
}

func coerceQuality(value any) any {
	scores, ok := value.(map[string]any)
	if !ok {
		return value
	}
	out := make(map[string]any, len(scores))
	for name, v := range scores {
		if n, ok := coerceScore(v); ok {
			out[name] = n
		}
	}
	return out
}

// coerceScore accepts a bare number, a numeric string, or the nested
// {note: n} object shape some models produce.
func coerceScore(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return float64(int(v)), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return float64(n), true
	case map[string]any:
		if note, ok := v["note"]; ok {
			return coerceScore(note)
		}
		return 0, false
	default:
		return 0, false
	}
}
