/*
Copyright 2026 ReadmeScope Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package schemavalidator checks a normalized evaluation document against
// the canonical taxonomy JSON Schema and turns validator output into
// actionable violations.
package schemavalidator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "https://readmescope.dev/schemas/taxonomy.schema.json"

// Violation is a single schema failure, located by JSON pointer.
type Violation struct {
	// Path is the instance location of the failing value, e.g.
	// "/what/quality/clarity".
	Path string `json:"path"`
	// Keyword is the schema keyword that failed, e.g. "required".
	Keyword string `json:"keyword"`
	Message string `json:"message"`
}

// Result is the outcome of validating one document.
type Result struct {
	Valid      bool        `json:"valid"`
	Violations []Violation `json:"violations,omitempty"`
	// Suggestions are human-readable recovery hints, one per violation.
	Suggestions []string `json:"suggestions,omitempty"`
}

// InvalidError is returned by pipeline stages when a document fails
// validation. It carries the full result for reporting.
type InvalidError struct {
	Result Result
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("document violates taxonomy schema: %d violation(s)", len(e.Result.Violations))
}

// Validator validates documents against a compiled schema. It is safe for
// concurrent use; compile once and share.
type Validator struct {
	schema *jsonschema.Schema
}

// New compiles schemaText (a draft-07 document) into a Validator.
func New(schemaText string) (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	if err := compiler.AddResource(schemaURL, strings.NewReader(schemaText)); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compiling taxonomy schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

// Validate checks doc and reports every violation, not just the first.
func (v *Validator) Validate(doc map[string]any) Result {
	err := v.schema.Validate(any(doc))
	if err == nil {
		return Result{Valid: true}
	}
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return Result{
			Violations:  []Violation{{Message: err.Error()}},
			Suggestions: []string{"check document structure"},
		}
	}

	var violations []Violation
	collectLeaves(validationErr, &violations)

	suggestions := make([]string, len(violations))
	for i, violation := range violations {
		suggestions[i] = suggest(violation)
	}
	return Result{Violations: violations, Suggestions: suggestions}
}

// collectLeaves walks the validation error tree and keeps only leaf causes,
// which carry the precise keyword and location. Interior nodes just repeat
// "doesn't validate" for enclosing scopes.
func collectLeaves(err *jsonschema.ValidationError, out *[]Violation) {
	if len(err.Causes) == 0 {
		*out = append(*out, Violation{
			Path:    "/" + strings.TrimPrefix(err.InstanceLocation, "/"),
			Keyword: lastKeyword(err.KeywordLocation),
			Message: err.Message,
		})
		return
	}
	for _, cause := range err.Causes {
		collectLeaves(cause, out)
	}
}

// lastKeyword extracts the failing keyword from a keyword location pointer
// like "/properties/what/properties/quality/additionalProperties".
func lastKeyword(location string) string {
	parts := strings.Split(location, "/")
	for i := len(parts) - 1; i >= 0; i-- {
		switch parts[i] {
		case "properties", "items", "":
			continue
		default:
			return parts[i]
		}
	}
	return ""
}

// suggest maps a violation to a recovery hint the model (or a human) can
// act on.
func suggest(v Violation) string {
	switch v.Keyword {
	case "additionalProperties":
		return fmt.Sprintf("remove the unexpected field at %s; only the documented taxonomy fields are allowed", v.Path)
	case "required":
		return fmt.Sprintf("add the missing required field reported at %s", orRoot(v.Path))
	case "minimum", "maximum":
		return fmt.Sprintf("quality scores must be integers between 1 and 5; fix the value at %s", v.Path)
	case "type":
		return fmt.Sprintf("the value at %s has the wrong type; consult the taxonomy schema for the expected one", v.Path)
	case "enum":
		return fmt.Sprintf("the value at %s is not one of the allowed values", v.Path)
	default:
		return fmt.Sprintf("fix the value at %s: %s", orRoot(v.Path), v.Message)
	}
}

func orRoot(path string) string {
	if path == "" || path == "/" {
		return "the document root"
	}
	return path
}
