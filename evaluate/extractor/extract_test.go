/*
Copyright 2026 ReadmeScope Authors
SPDX-License-Identifier: Apache-2.0
*/

package extractor

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtractBareObject(t *testing.T) {
	t.Parallel()
	doc, err := Extract(`{"what": {"checklist": {"has_description": true}}}`)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if _, ok := doc["what"]; !ok {
		t.Error("missing what key")
	}
}

func TestExtractFencedJSON(t *testing.T) {
	t.Parallel()
	raw := "Here is the evaluation you asked for:\n\n```json\n{\"license\": {\"checklist\": {\"has_license\": true}}}\n```\n\nLet me know if you need anything else."
	doc, err := Extract(raw)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if _, ok := doc["license"]; !ok {
		t.Error("missing license key")
	}
}

func TestExtractFenceWithoutInfoString(t *testing.T) {
	t.Parallel()
	raw := "```\n{\"who\": {}}\n```"
	doc, err := Extract(raw)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if _, ok := doc["who"]; !ok {
		t.Error("missing who key")
	}
}

func TestExtractSkipsNonJSONFence(t *testing.T) {
	t.Parallel()
	raw := "```python\nprint('hi')\n```\nThe result: {\"when\": {\"evidences\": [\"L0003: v1.2\"]}}"
	doc, err := Extract(raw)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if _, ok := doc["when"]; !ok {
		t.Error("missing when key")
	}
}

func TestExtractBraceSpanInsideProse(t *testing.T) {
	t.Parallel()
	raw := `Sure! The README mentions {braces} nowhere, but here: {"why": {"justifications": ["clear goals"]}} Done.`
	doc, err := Extract(raw)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := map[string]any{"why": map[string]any{"justifications": []any{"clear goals"}}}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("Extract mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractSkipsUnparseableBraceSpans(t *testing.T) {
	t.Parallel()
	// Prose brace pairs before an object that itself needs repair.
	raw := `Mapping {a} to {b} gives: {"what": {"checklist": {"clear_description": true`
	doc, err := Extract(raw)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	what, ok := doc["what"].(map[string]any)
	if !ok {
		t.Fatalf("doc = %v, want the repaired object after the prose spans", doc)
	}
	if what["checklist"].(map[string]any)["clear_description"] != true {
		t.Error("checklist lost")
	}
}

func TestExtractIgnoresBracesInsideStrings(t *testing.T) {
	t.Parallel()
	doc, err := Extract(`{"what": {"evidences": ["uses {placeholder} syntax"]}}`)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	evs := doc["what"].(map[string]any)["evidences"].([]any)
	if evs[0] != "uses {placeholder} syntax" {
		t.Errorf("evidence = %q", evs[0])
	}
}

func TestExtractRepairsTruncatedObject(t *testing.T) {
	t.Parallel()
	// Token-limit truncation mid-string.
	raw := `{"what": {"checklist": {"has_description": true}, "evidences": ["L0001: a tool that`
	doc, err := Extract(raw)
	if err != nil {
		t.Fatalf("Extract after repair: %v", err)
	}
	what := doc["what"].(map[string]any)
	if what["checklist"].(map[string]any)["has_description"] != true {
		t.Error("checklist lost in repair")
	}
}

func TestExtractRepairsTrailingComma(t *testing.T) {
	t.Parallel()
	doc, err := Extract(`{"license": {"checklist": {"has_license": true,}},}`)
	if err != nil {
		t.Fatalf("Extract after repair: %v", err)
	}
	if _, ok := doc["license"]; !ok {
		t.Error("missing license key")
	}
}

func TestExtractNoObject(t *testing.T) {
	t.Parallel()
	_, err := Extract("I could not evaluate this README, sorry.")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("err = %v, want ParseError", err)
	}
}

func TestExtractUnrepairable(t *testing.T) {
	t.Parallel()
	_, err := Extract(`{"what": tru`)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("err = %v, want ParseError", err)
	}
	if parseErr.Excerpt == "" {
		t.Error("ParseError should carry an excerpt")
	}
}

func TestExcerptIsBounded(t *testing.T) {
	t.Parallel()
	long := make([]byte, 4096)
	for i := range long {
		long[i] = 'x'
	}
	_, err := Extract(string(long))
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("err = %v, want ParseError", err)
	}
	if len(parseErr.Excerpt) > excerptLimit+3 {
		t.Errorf("excerpt length = %d, want <= %d", len(parseErr.Excerpt), excerptLimit+3)
	}
}
