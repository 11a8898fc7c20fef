/*
Copyright 2026 ReadmeScope Authors
SPDX-License-Identifier: Apache-2.0
*/

package schemavalidator_test

import (
	"strings"
	"testing"

	"github.com/readmescope/readmescope/evaluate/schemavalidator"
	"github.com/readmescope/readmescope/taxonomy"
)

func newValidator(t *testing.T) *schemavalidator.Validator {
	t.Helper()
	schemaText, err := taxonomy.SchemaText("")
	if err != nil {
		t.Fatalf("SchemaText: %v", err)
	}
	v, err := schemavalidator.New(schemaText)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return v
}

func TestValidateAcceptsWellFormedDocument(t *testing.T) {
	t.Parallel()
	v := newValidator(t)
	doc := map[string]any{
		"what": map[string]any{
			"checklist": map[string]any{
				"clear_description": true,
				"features_scope":    false,
				"target_audience":   true,
			},
			"quality": map[string]any{
				"clarity":           float64(4),
				"understandability": float64(3),
			},
			"evidences":      []any{"L0001: a linter for README files"},
			"justifications": []any{"the opening line states the purpose"},
		},
		"other": map[string]any{
			"checklist": map[string]any{"generic_sections": false},
			"evidences": []any{},
		},
	}
	result := v.Validate(doc)
	if !result.Valid {
		t.Fatalf("document should be valid, got violations: %+v", result.Violations)
	}
}

func TestValidateAcceptsEmptyDocument(t *testing.T) {
	t.Parallel()
	// Categories may be omitted entirely.
	if result := newValidator(t).Validate(map[string]any{}); !result.Valid {
		t.Fatalf("empty document should be valid: %+v", result.Violations)
	}
}

func TestValidateRejectsUnknownCategory(t *testing.T) {
	t.Parallel()
	result := newValidator(t).Validate(map[string]any{
		"sponsorship": map[string]any{},
	})
	if result.Valid {
		t.Fatal("unknown category should be rejected")
	}
	if len(result.Suggestions) != len(result.Violations) {
		t.Errorf("want one suggestion per violation, got %d/%d", len(result.Suggestions), len(result.Violations))
	}
}

func TestValidateRejectsScoreOutOfRange(t *testing.T) {
	t.Parallel()
	result := newValidator(t).Validate(map[string]any{
		"license": map[string]any{
			"quality": map[string]any{"clarity": float64(6)},
		},
	})
	if result.Valid {
		t.Fatal("score 6 should be rejected")
	}
	found := false
	for _, s := range result.Suggestions {
		if strings.Contains(s, "between 1 and 5") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a range suggestion, got %v", result.Suggestions)
	}
}

func TestValidateRejectsUnknownCheck(t *testing.T) {
	t.Parallel()
	result := newValidator(t).Validate(map[string]any{
		"who": map[string]any{
			"checklist": map[string]any{"invented_check": true},
		},
	})
	if result.Valid {
		t.Fatal("unknown checklist entry should be rejected")
	}
	found := false
	for _, violation := range result.Violations {
		if violation.Keyword == "additionalProperties" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an additionalProperties violation, got %+v", result.Violations)
	}
}

func TestValidateRejectsQualityOnOther(t *testing.T) {
	t.Parallel()
	result := newValidator(t).Validate(map[string]any{
		"other": map[string]any{
			"quality": map[string]any{"clarity": float64(3)},
		},
	})
	if result.Valid {
		t.Fatal("quality is not allowed on the other category")
	}
}

func TestValidateReportsEveryViolation(t *testing.T) {
	t.Parallel()
	result := newValidator(t).Validate(map[string]any{
		"what": map[string]any{
			"quality":   map[string]any{"clarity": float64(0)},
			"evidences": "not a list",
		},
	})
	if result.Valid {
		t.Fatal("document should be invalid")
	}
	if len(result.Violations) < 2 {
		t.Errorf("want all violations reported, got %+v", result.Violations)
	}
}

func TestNewRejectsGarbageSchema(t *testing.T) {
	t.Parallel()
	if _, err := schemavalidator.New("{not json"); err == nil {
		t.Fatal("expected compile error")
	}
}
