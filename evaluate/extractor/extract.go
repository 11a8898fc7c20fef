/*
Copyright 2026 ReadmeScope Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package extractor recovers a JSON object from free-form model output.
// Models wrap JSON in code fences, prefix it with prose, truncate it, or
// bend field types; this package extracts, repairs, and normalizes the
// object before validation sees it.
package extractor

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseError reports that no parseable JSON object was recoverable, even
// after repair. Excerpt carries the offending text for diagnosis.
type ParseError struct {
	Excerpt string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("no JSON object recoverable from model output: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

const excerptLimit = 512

// Extract locates and parses the JSON object in raw model text. The
// candidate is taken from a fenced code block when present, otherwise from
// balanced {...} spans scanned left to right: prose can contain brace pairs
// before the real object, so a span that neither parses nor repairs is
// skipped and the scan resumes from the next '{'. Each candidate gets one
// bounded repair pass (closing unterminated strings and brackets, stripping
// trailing commas) before being given up on.
func Extract(raw string) (map[string]any, error) {
	if fenced := fencedBlock(raw); fenced != "" {
		doc, err := parseCandidate(fenced)
		if err != nil {
			return nil, &ParseError{Excerpt: excerpt(fenced), Err: err}
		}
		return doc, nil
	}

	var firstSpan string
	var firstErr error
	for from := 0; from < len(raw); {
		span, start := braceSpan(raw, from)
		if start == -1 {
			break
		}
		doc, err := parseCandidate(span)
		if err == nil {
			return doc, nil
		}
		if firstErr == nil {
			firstSpan, firstErr = span, err
		}
		from = start + 1
	}
	if firstErr == nil {
		return nil, &ParseError{Excerpt: excerpt(raw), Err: fmt.Errorf("no JSON object found")}
	}
	return nil, &ParseError{Excerpt: excerpt(firstSpan), Err: firstErr}
}

// parseCandidate parses candidate JSON, falling back to one repair pass.
func parseCandidate(candidate string) (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(candidate), &doc); err == nil {
		return doc, nil
	}
	doc = nil
	if err := json.Unmarshal([]byte(repair(candidate)), &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// fencedBlock extracts the first fenced code block whose body looks like a
// JSON object. An unterminated fence is tolerated: everything after the
// opener is taken and left for repair.
func fencedBlock(raw string) string {
	rest := raw
	for {
		start := strings.Index(rest, "```")
		if start == -1 {
			return ""
		}
		rest = rest[start+3:]
		// Skip the info string ("json", "JSON", or empty).
		if nl := strings.IndexByte(rest, '\n'); nl != -1 {
			info := strings.TrimSpace(rest[:nl])
			body := rest[nl+1:]
			end := strings.Index(body, "```")
			if end != -1 {
				body = body[:end]
			}
			body = strings.TrimSpace(body)
			if strings.EqualFold(info, "json") || (info == "" && strings.HasPrefix(body, "{")) {
				return body
			}
			// Not a JSON fence; keep scanning after it.
			if end == -1 {
				return ""
			}
			rest = rest[nl+1+end+3:]
			continue
		}
		return ""
	}
}

// braceSpan returns the first balanced {...} span at or after from, with
// its start index, or ("", -1). Strings and escapes are honored so braces
// inside string values do not confuse the count. A truncated object (more
// opens than closes) is returned as-is for the repair pass.
func braceSpan(raw string, from int) (string, int) {
	start := strings.IndexByte(raw[from:], '{')
	if start == -1 {
		return "", -1
	}
	start += from

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1], start
			}
		}
	}
	// Truncated: hand the open span to the repair pass.
	return raw[start:], start
}

func excerpt(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > excerptLimit {
		return s[:excerptLimit] + "..."
	}
	return s
}
