/*
Copyright 2026 ReadmeScope Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package taxonomy defines the fixed documentation taxonomy a README is
// evaluated against: the category set, the per-category field tables, and
// the result types produced by a pipeline run.
package taxonomy

// Category is one of the fixed documentation categories.
type Category string

const (
	What                  Category = "what"
	Why                   Category = "why"
	HowInstallation       Category = "how_installation"
	HowUsage              Category = "how_usage"
	HowConfigRequirements Category = "how_config_requirements"
	When                  Category = "when"
	Who                   Category = "who"
	License               Category = "license"
	Contribution          Category = "contribution"
	References            Category = "references"
	Other                 Category = "other"
)

// Categories returns all categories in canonical report order.
func Categories() []Category {
	return []Category{
		What, Why, HowInstallation, HowUsage, HowConfigRequirements,
		When, Who, License, Contribution, References, Other,
	}
}

// Field names shared by every category.
const (
	FieldChecklist             = "checklist"
	FieldQuality               = "quality"
	FieldEvidences             = "evidences"
	FieldJustifications        = "justifications"
	FieldSuggestedImprovements = "suggested_improvements"
)

// Spec describes the allowed shape of a single category.
type Spec struct {
	// ChecklistChecks are the named boolean checks the category carries.
	ChecklistChecks []string
	// QualityScores are the named 1-5 integer scores, empty for categories
	// without quality scoring.
	QualityScores []string
	// AllowedFields is the complete set of top-level field names permitted
	// inside the category object. Anything else is dropped during
	// normalization and rejected by the schema.
	AllowedFields []string
}

// HasQuality reports whether the category carries quality scores.
func (s Spec) HasQuality() bool { return len(s.QualityScores) > 0 }

// Allows reports whether field is permitted in this category.
func (s Spec) Allows(field string) bool {
	for _, f := range s.AllowedFields {
		if f == field {
			return true
		}
	}
	return false
}

var scoredFields = []string{
	FieldChecklist, FieldQuality, FieldEvidences,
	FieldJustifications, FieldSuggestedImprovements,
}

// specs is the authoritative field table, mirrored by the canonical JSON
// Schema document. The "other" category is the only one without quality
// scoring, and consequently without justifications.
var specs = map[Category]Spec{
	What: {
		ChecklistChecks: []string{"clear_description", "features_scope", "target_audience"},
		QualityScores:   []string{"clarity", "understandability", "conciseness", "consistency"},
		AllowedFields:   scoredFields,
	},
	Why: {
		ChecklistChecks: []string{"explicit_purpose", "benefits_vs_alternatives", "use_cases"},
		QualityScores:   []string{"clarity", "effectiveness", "appeal"},
		AllowedFields:   scoredFields,
	},
	HowInstallation: {
		ChecklistChecks: []string{"reproducible_commands", "compatibility_requirements", "dependencies", "has_prereqs"},
		QualityScores:   []string{"structure", "readability", "clarity"},
		AllowedFields:   scoredFields,
	},
	HowUsage: {
		ChecklistChecks: []string{"minimal_working_example", "io_examples", "api_commands_context"},
		QualityScores:   []string{"understandability", "code_readability", "effectiveness"},
		AllowedFields:   scoredFields,
	},
	HowConfigRequirements: {
		ChecklistChecks: []string{"documented_configuration", "parameters_options", "troubleshooting"},
		QualityScores:   []string{"clarity", "structure", "conciseness"},
		AllowedFields:   scoredFields,
	},
	When: {
		ChecklistChecks: []string{"current_status", "roadmap", "changelog"},
		QualityScores:   []string{"clarity", "consistency"},
		AllowedFields:   scoredFields,
	},
	Who: {
		ChecklistChecks: []string{"authors_maintainers", "contact_channels", "code_of_conduct"},
		QualityScores:   []string{"clarity", "consistency"},
		AllowedFields:   scoredFields,
	},
	License: {
		ChecklistChecks: []string{"license_type", "license_link"},
		QualityScores:   []string{"clarity", "consistency"},
		AllowedFields:   scoredFields,
	},
	Contribution: {
		ChecklistChecks: []string{"contributing_link", "contribution_steps", "standards"},
		QualityScores:   []string{"structure", "clarity", "readability"},
		AllowedFields:   scoredFields,
	},
	References: {
		ChecklistChecks: []string{"docs_link", "relevant_references", "faq_support"},
		QualityScores:   []string{"effectiveness", "clarity"},
		AllowedFields:   scoredFields,
	},
	Other: {
		ChecklistChecks: []string{"generic_sections", "placeholders"},
		AllowedFields:   []string{FieldChecklist, FieldEvidences, FieldSuggestedImprovements},
	},
}

// SpecFor returns the field table for category, and whether it is a known
// category.
func SpecFor(c Category) (Spec, bool) {
	s, ok := specs[c]
	return s, ok
}

// IsCategory reports whether name is a known category name.
func IsCategory(name string) bool {
	_, ok := specs[Category(name)]
	return ok
}

// Quality score bounds.
const (
	MinScore = 1
	MaxScore = 5
)
