/*
Copyright 2026 ReadmeScope Authors
SPDX-License-Identifier: Apache-2.0
*/

package taxonomy

import (
	"encoding/json"
	"fmt"
)

// CategoryEvaluation holds the populated fields for one category.
// Only fields permitted by the category's Spec may be set.
type CategoryEvaluation struct {
	// Checklist maps named checks to whether the README satisfies them.
	Checklist map[string]bool `json:"checklist,omitempty"`
	// Quality maps named dimensions to 1-5 scores. Absent for "other".
	Quality map[string]int `json:"quality,omitempty"`
	// Evidences are line-cited excerpts supporting the judgment, in the
	// order the model produced them.
	Evidences []string `json:"evidences,omitempty"`
	// Justifications explain the quality scores. Absent for "other".
	Justifications []string `json:"justifications,omitempty"`
	// SuggestedImprovements are concrete improvement recommendations.
	SuggestedImprovements []string `json:"suggested_improvements,omitempty"`
}

// EvaluationResult maps categories to their populated fields. It is created
// once per pipeline run and is immutable after validation succeeds.
type EvaluationResult map[Category]CategoryEvaluation

// FromDocument converts a schema-valid generic JSON document into a typed
// EvaluationResult. It must only be called downstream of a successful
// validation pass; a shape mismatch here is a programming error.
func FromDocument(doc map[string]any) (EvaluationResult, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("remarshaling validated document: %w", err)
	}
	var result EvaluationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decoding validated document: %w", err)
	}
	return result, nil
}

// Present returns the categories present in the result, in canonical order.
func (r EvaluationResult) Present() []Category {
	out := make([]Category, 0, len(r))
	for _, c := range Categories() {
		if _, ok := r[c]; ok {
			out = append(out, c)
		}
	}
	return out
}
