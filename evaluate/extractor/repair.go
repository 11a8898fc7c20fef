/*
Copyright 2026 ReadmeScope Authors
SPDX-License-Identifier: Apache-2.0
*/

package extractor

import "strings"

// repair applies one bounded pass of structural fixes to candidate JSON:
// trailing commas before closers are dropped, an unterminated string is
// closed, unclosed brackets are closed in nesting order, and a dangling
// trailing comma is removed. It never attempts semantic repair.
func repair(candidate string) string {
	candidate = strings.TrimSpace(candidate)

	var out strings.Builder
	out.Grow(len(candidate) + 8)

	// Bracket stack of expected closers.
	var stack []byte
	inString := false
	escaped := false

	for i := 0; i < len(candidate); i++ {
		c := candidate[i]
		if inString {
			out.WriteByte(c)
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
			out.WriteByte(c)
		case '{':
			stack = append(stack, '}')
			out.WriteByte(c)
		case '[':
			stack = append(stack, ']')
			out.WriteByte(c)
		case '}', ']':
			if len(stack) > 0 && stack[len(stack)-1] == c {
				stack = stack[:len(stack)-1]
			}
			out.WriteByte(c)
		case ',':
			// Drop the comma when the next non-space byte closes a scope.
			if next := nextNonSpace(candidate, i+1); next == '}' || next == ']' {
				continue
			}
			out.WriteByte(c)
		default:
			out.WriteByte(c)
		}
	}

	if inString {
		if escaped {
			// A trailing backslash would escape our closing quote.
			out.WriteByte('\\')
		}
		out.WriteByte('"')
	}

	repaired := strings.TrimRight(out.String(), " \t\r\n")
	repaired = strings.TrimSuffix(repaired, ",")

	// Close remaining scopes innermost-first.
	var closers strings.Builder
	for i := len(stack) - 1; i >= 0; i-- {
		closers.WriteByte(stack[i])
	}
	return repaired + closers.String()
}

// nextNonSpace returns the first non-whitespace byte at or after i, or 0.
func nextNonSpace(s string, i int) byte {
	for ; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\r', '\n':
		default:
			return s[i]
		}
	}
	return 0
}
