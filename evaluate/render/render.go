/*
Copyright 2026 ReadmeScope Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package render turns a validated evaluation result into a markdown
// report. Rendering is pure: the same result always yields the same bytes,
// and no side channels (clock, environment) leak into the output.
package render

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/readmescope/readmescope/taxonomy"
)

// Markdown renders result as a markdown report. Categories appear in
// canonical taxonomy order; absent categories are skipped. Within a
// category, checklist and quality rows follow the order of the taxonomy
// field tables so the report is stable across runs.
func Markdown(result taxonomy.EvaluationResult) string {
	var b strings.Builder
	b.WriteString("# README Evaluation\n")

	for _, category := range result.Present() {
		evaluation := result[category]
		spec, _ := taxonomy.SpecFor(category)

		fmt.Fprintf(&b, "\n## %s\n", category)

		if len(evaluation.Checklist) > 0 {
			b.WriteString("\n### Checklist\n\n")
			b.WriteString(checklistTable(spec, evaluation.Checklist))
		}
		if len(evaluation.Quality) > 0 {
			b.WriteString("\n### Quality\n\n")
			b.WriteString(qualityTable(spec, evaluation.Quality))
		}
		writeBullets(&b, "Evidences", evaluation.Evidences)
		writeBullets(&b, "Justifications", evaluation.Justifications)
		writeBullets(&b, "Suggested improvements", evaluation.SuggestedImprovements)
	}
	return b.String()
}

func checklistTable(spec taxonomy.Spec, checks map[string]bool) string {
	table, buf := markdownTable([]string{"Check", "Present"})
	for _, name := range spec.ChecklistChecks {
		present, ok := checks[name]
		if !ok {
			continue
		}
		mark := "no"
		if present {
			mark = "yes"
		}
		_ = table.Append([]string{name, mark})
	}
	_ = table.Render()
	return buf.String()
}

func qualityTable(spec taxonomy.Spec, scores map[string]int) string {
	table, buf := markdownTable([]string{"Dimension", "Score"})
	for _, name := range spec.QualityScores {
		score, ok := scores[name]
		if !ok {
			continue
		}
		_ = table.Append([]string{name, fmt.Sprintf("%d/%d", score, taxonomy.MaxScore)})
	}
	_ = table.Render()
	return buf.String()
}

func writeBullets(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n### %s\n\n", heading)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}

// markdownTable builds a borderless-top markdown table writing into the
// returned buffer.
func markdownTable(headers []string) (*tablewriter.Table, *strings.Builder) {
	buf := &strings.Builder{}
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		Behavior: tw.Behavior{TrimSpace: tw.Off},
	}
	table := tablewriter.NewTable(buf,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{
				Left:   tw.On,
				Top:    tw.Off,
				Right:  tw.On,
				Bottom: tw.Off,
			},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
	return table, buf
}
