/*
Copyright 2026 ReadmeScope Authors
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"errors"
	"fmt"
	"strings"
)

// evaluationTemplate fixes the section order of every evaluation prompt:
// instructions, schema, readme, extra. Section labels are stable so
// identical inputs always produce byte-identical prompts.
const evaluationTemplate = `You are a JSON extraction assistant that evaluates software project READMEs against a fixed documentation taxonomy.

INSTRUCTIONS:
Extract the information from the README below and return a single JSON object that matches the supplied JSON Schema exactly. Cite evidence using the README line labels (for example "L0012"). If the README is empty or a category is completely absent, report that category with empty checks rather than inventing content. Do not include any explanatory text. Return only a valid JSON object.

SCHEMA:
{{schema}}

README:
{{readme}}
{{extra_section}}
IMPORTANT: Output a single JSON object, valid according to the schema above. No surrounding backticks, no markdown, no commentary.`

// Build assembles the evaluation prompt from the schema document, the
// README body, and optional extra instructions. It is a pure function:
// identical inputs yield byte-identical prompts. The README is
// line-numbered before embedding so the model can cite evidence by line.
//
// schemaText must be non-empty; readmeText may be empty, in which case the
// model is expected to report total absence of every category.
func Build(schemaText, readmeText, extraText string) (string, error) {
	if strings.TrimSpace(schemaText) == "" {
		return "", errors.New("schema text is required")
	}

	extraSection := "\n"
	if extraText != "" {
		extraSection = "\nEXTRA:\n" + extraText + "\n\n"
	}

	p := MustNewPrompt(evaluationTemplate)
	p, err := p.Bind("schema", schemaText)
	if err != nil {
		return "", err
	}
	p, err = p.Bind("readme", NumberLines(readmeText))
	if err != nil {
		return "", err
	}
	p, err = p.Bind("extra_section", extraSection)
	if err != nil {
		return "", err
	}
	return p.Build()
}

// NumberLines prefixes each line of text with a stable L%04d label, the
// labels the model uses to cite evidence.
func NumberLines(text string) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	var sb strings.Builder
	sb.Grow(len(text) + len(lines)*8)
	for i, line := range lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "L%04d: %s", i+1, line)
	}
	return sb.String()
}
