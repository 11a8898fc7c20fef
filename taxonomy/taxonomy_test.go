/*
Copyright 2026 ReadmeScope Authors
SPDX-License-Identifier: Apache-2.0
*/

package taxonomy_test

import (
	"encoding/json"
	"testing"

	"github.com/readmescope/readmescope/taxonomy"
)

func TestCategoriesCoverSpecs(t *testing.T) {
	t.Parallel()
	cats := taxonomy.Categories()
	if len(cats) != 11 {
		t.Fatalf("expected 11 categories, got %d", len(cats))
	}
	seen := map[taxonomy.Category]bool{}
	for _, c := range cats {
		if seen[c] {
			t.Fatalf("category %q listed twice", c)
		}
		seen[c] = true
		if _, ok := taxonomy.SpecFor(c); !ok {
			t.Fatalf("category %q has no spec", c)
		}
	}
}

func TestOtherHasNoQualityOrJustifications(t *testing.T) {
	t.Parallel()
	spec, ok := taxonomy.SpecFor(taxonomy.Other)
	if !ok {
		t.Fatal("missing spec for other")
	}
	if spec.HasQuality() {
		t.Error("other must not carry quality scores")
	}
	if spec.Allows(taxonomy.FieldQuality) {
		t.Error("other must not allow the quality field")
	}
	if spec.Allows(taxonomy.FieldJustifications) {
		t.Error("other must not allow the justifications field")
	}
	if !spec.Allows(taxonomy.FieldChecklist) {
		t.Error("other must allow the checklist field")
	}
}

func TestScoredCategoriesAllowAllFields(t *testing.T) {
	t.Parallel()
	for _, c := range taxonomy.Categories() {
		if c == taxonomy.Other {
			continue
		}
		spec, _ := taxonomy.SpecFor(c)
		for _, f := range []string{
			taxonomy.FieldChecklist, taxonomy.FieldQuality, taxonomy.FieldEvidences,
			taxonomy.FieldJustifications, taxonomy.FieldSuggestedImprovements,
		} {
			if !spec.Allows(f) {
				t.Errorf("category %q should allow field %q", c, f)
			}
		}
		if !spec.HasQuality() {
			t.Errorf("category %q should carry quality scores", c)
		}
	}
}

// The embedded schema document must stay in lockstep with the Go field
// tables: same categories, same checks, same score names.
func TestEmbeddedSchemaMatchesTables(t *testing.T) {
	t.Parallel()
	text, err := taxonomy.SchemaText("")
	if err != nil {
		t.Fatalf("loading embedded schema: %v", err)
	}

	var doc struct {
		Properties map[string]struct {
			Properties map[string]struct {
				Properties map[string]json.RawMessage `json:"properties"`
			} `json:"properties"`
			AdditionalProperties bool `json:"additionalProperties"`
		} `json:"properties"`
		AdditionalProperties bool `json:"additionalProperties"`
	}
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		t.Fatalf("embedded schema is not valid JSON: %v", err)
	}

	if doc.AdditionalProperties {
		t.Error("top level must set additionalProperties=false")
	}
	if len(doc.Properties) != len(taxonomy.Categories()) {
		t.Fatalf("schema has %d categories, tables have %d", len(doc.Properties), len(taxonomy.Categories()))
	}
	for _, c := range taxonomy.Categories() {
		cat, ok := doc.Properties[string(c)]
		if !ok {
			t.Errorf("schema missing category %q", c)
			continue
		}
		if cat.AdditionalProperties {
			t.Errorf("category %q must set additionalProperties=false", c)
		}
		spec, _ := taxonomy.SpecFor(c)
		for field := range cat.Properties {
			if !spec.Allows(field) {
				t.Errorf("schema category %q declares field %q outside the allowed set", c, field)
			}
		}
		for _, check := range spec.ChecklistChecks {
			if _, ok := cat.Properties[taxonomy.FieldChecklist].Properties[check]; !ok {
				t.Errorf("schema category %q missing checklist check %q", c, check)
			}
		}
		for _, score := range spec.QualityScores {
			if _, ok := cat.Properties[taxonomy.FieldQuality].Properties[score]; !ok {
				t.Errorf("schema category %q missing quality score %q", c, score)
			}
		}
	}
}

func TestFromDocumentRoundTrip(t *testing.T) {
	t.Parallel()
	doc := map[string]any{
		"how_installation": map[string]any{
			"checklist":      map[string]any{"has_prereqs": false},
			"quality":        map[string]any{"clarity": 1},
			"evidences":      []any{},
			"justifications": []any{"no install section found"},
		},
	}
	result, err := taxonomy.FromDocument(doc)
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}
	cat, ok := result[taxonomy.HowInstallation]
	if !ok {
		t.Fatal("how_installation missing from result")
	}
	if cat.Quality["clarity"] != 1 {
		t.Errorf("clarity = %d, want 1", cat.Quality["clarity"])
	}
	if got, want := len(cat.Justifications), 1; got != want {
		t.Errorf("justifications length = %d, want %d", got, want)
	}
	if present := result.Present(); len(present) != 1 || present[0] != taxonomy.HowInstallation {
		t.Errorf("Present() = %v, want [how_installation]", present)
	}
}
