/*
Copyright 2026 ReadmeScope Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package promptbuilder assembles the deterministic evaluation prompt sent
// to the model. Templates use {{name}} placeholders; binding is single-pass,
// so bound values are never re-scanned for placeholders, and prompts are
// immutable once built.
package promptbuilder

import (
	"errors"
	"fmt"
	"maps"
	"strings"
	"unicode"
)

// Prompt is a template with bindable placeholders. All binding methods
// return a new Prompt, leaving the receiver unchanged.
type Prompt struct {
	template string
	bindings map[string]string
	bound    map[string]bool
}

// NewPrompt parses a template and registers its placeholders.
func NewPrompt(template string) (*Prompt, error) {
	bindings := make(map[string]string)
	// Walk once to collect placeholder names; substitution happens in Build.
	_, err := walkTemplate(template, func(name string) (string, error) {
		bindings[name] = ""
		return "", nil
	})
	if err != nil {
		return nil, err
	}
	return &Prompt{
		template: template,
		bindings: bindings,
		bound:    make(map[string]bool, len(bindings)),
	}, nil
}

// MustNewPrompt is NewPrompt for templates known to be valid at compile time.
func MustNewPrompt(template string) *Prompt {
	p, err := NewPrompt(template)
	if err != nil {
		panic(err)
	}
	return p
}

// Bind binds a string value to a placeholder, returning a new Prompt.
// Binding an unknown or already-bound placeholder is an error.
func (p *Prompt) Bind(name, value string) (*Prompt, error) {
	if _, ok := p.bindings[name]; !ok {
		return nil, fmt.Errorf("binding %q not found in template", name)
	}
	if p.bound[name] {
		return nil, fmt.Errorf("binding %q already bound", name)
	}
	next := &Prompt{
		template: p.template,
		bindings: maps.Clone(p.bindings),
		bound:    maps.Clone(p.bound),
	}
	next.bindings[name] = value
	next.bound[name] = true
	return next, nil
}

// Placeholders returns the set of placeholder names found in the template.
func (p *Prompt) Placeholders() map[string]struct{} {
	names := make(map[string]struct{}, len(p.bindings))
	for name := range p.bindings {
		names[name] = struct{}{}
	}
	return names
}

// Build substitutes every placeholder, failing if any remain unbound.
func (p *Prompt) Build() (string, error) {
	return walkTemplate(p.template, func(name string) (string, error) {
		if !p.bound[name] {
			return "", fmt.Errorf("unbound placeholder: %s", name)
		}
		return p.bindings[name], nil
	})
}

// resolveFunc provides the replacement for a placeholder name.
type resolveFunc func(name string) (string, error)

// walkTemplate tokenizes the template in a single pass and calls resolve for
// each placeholder. Replacement text is emitted verbatim, never re-scanned.
func walkTemplate(template string, resolve resolveFunc) (string, error) {
	var result strings.Builder
	for len(template) > 0 {
		start := strings.Index(template, "{{")
		if start == -1 {
			result.WriteString(template)
			break
		}
		result.WriteString(template[:start])

		end := strings.Index(template[start:], "}}")
		if end == -1 {
			return "", errors.New("unclosed binding: missing '}}'")
		}
		end += start + 2

		name := strings.TrimSpace(template[start+2 : end-2])
		if !isValidIdentifier(name) {
			return "", fmt.Errorf("invalid binding identifier %q", name)
		}
		replacement, err := resolve(name)
		if err != nil {
			return "", err
		}
		result.WriteString(replacement)

		template = template[end:]
	}
	return result.String(), nil
}

// isValidIdentifier reports whether s is a letter followed by letters,
// digits, or underscores.
func isValidIdentifier(s string) bool {
	runes := []rune(s)
	if len(runes) == 0 || !unicode.IsLetter(runes[0]) {
		return false
	}
	for _, r := range runes[1:] {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}
