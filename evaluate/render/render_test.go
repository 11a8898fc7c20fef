/*
Copyright 2026 ReadmeScope Authors
SPDX-License-Identifier: Apache-2.0
*/

package render_test

import (
	"strings"
	"testing"

	"github.com/readmescope/readmescope/evaluate/render"
	"github.com/readmescope/readmescope/taxonomy"
)

func sampleResult() taxonomy.EvaluationResult {
	return taxonomy.EvaluationResult{
		taxonomy.What: {
			Checklist: map[string]bool{"clear_description": true, "features_scope": false},
			Quality:   map[string]int{"clarity": 4, "conciseness": 2},
			Evidences: []string{"L0001: a linter for README files"},
		},
		taxonomy.HowInstallation: {
			Checklist:             map[string]bool{"reproducible_commands": true},
			Quality:               map[string]int{"clarity": 1},
			Justifications:        []string{"install steps assume an undocumented toolchain"},
			SuggestedImprovements: []string{"list the prerequisites before the install commands"},
		},
		taxonomy.License: {
			Checklist: map[string]bool{"license_type": true},
		},
	}
}

func TestMarkdownCanonicalOrder(t *testing.T) {
	t.Parallel()
	out := render.Markdown(sampleResult())

	what := strings.Index(out, "## what")
	install := strings.Index(out, "## how_installation")
	license := strings.Index(out, "## license")
	if what == -1 || install == -1 || license == -1 {
		t.Fatalf("missing category headings in:\n%s", out)
	}
	if !(what < install && install < license) {
		t.Errorf("categories out of canonical order:\n%s", out)
	}
	if strings.Contains(out, "## why") {
		t.Error("absent categories must be skipped")
	}
}

func TestMarkdownIsDeterministic(t *testing.T) {
	t.Parallel()
	result := sampleResult()
	first := render.Markdown(result)
	for i := 0; i < 5; i++ {
		if got := render.Markdown(result); got != first {
			t.Fatal("rendering is not deterministic")
		}
	}
}

func TestMarkdownTablesAndScores(t *testing.T) {
	t.Parallel()
	out := render.Markdown(sampleResult())
	for _, want := range []string{
		"| Check",
		"| Present",
		"clear_description",
		"| Dimension",
		"| Score",
		"1/5", // the low how_installation clarity score
		"4/5",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMarkdownBulletSections(t *testing.T) {
	t.Parallel()
	out := render.Markdown(sampleResult())
	if !strings.Contains(out, "- L0001: a linter for README files") {
		t.Error("evidences should render as bullets")
	}
	if !strings.Contains(out, "### Suggested improvements") {
		t.Error("missing suggested improvements section")
	}
}

func TestMarkdownEmptyResult(t *testing.T) {
	t.Parallel()
	out := render.Markdown(taxonomy.EvaluationResult{})
	if !strings.HasPrefix(out, "# README Evaluation") {
		t.Errorf("empty result should still carry the title, got:\n%s", out)
	}
	if strings.Contains(out, "## ") {
		t.Error("no category sections expected for an empty result")
	}
}

func TestMarkdownQualityRowsFollowFieldTableOrder(t *testing.T) {
	t.Parallel()
	out := render.Markdown(taxonomy.EvaluationResult{
		taxonomy.What: {
			Quality: map[string]int{"consistency": 3, "clarity": 5},
		},
	})
	clarity := strings.Index(out, "clarity")
	consistency := strings.Index(out, "consistency")
	if clarity == -1 || consistency == -1 || clarity > consistency {
		t.Errorf("quality rows must follow the field table order:\n%s", out)
	}
}
