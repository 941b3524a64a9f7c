package model

import (
	"regexp"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/safesight-lab/safesight/pkg/domain/types"
)

// EmbeddingDimension is the vector dimension of the embedding model output
const EmbeddingDimension = 768

// Incident represents one reported safety event or near miss.
// Records are append-only: they are never updated or deleted in place.
type Incident struct {
	CaseID                types.CaseID
	Title                 string
	Category              string
	RiskLevel             types.RiskLevel
	Setting               string
	Date                  string // year-granularity, e.g. "2025"
	Location              string
	InjuryCategory        types.InjuryCategory
	Severity              types.Severity
	PrimaryClassification string

	// Narrative fields. Together with the title they form the semantic
	// content used for embedding and retrieval.
	WhatHappened          string
	WhatCouldHaveHappened string
	WhyDidItHappen        string
	CausalFactors         string
	WhatWentWell          string
	LessonsToPrevent      string

	CreatedAt time.Time
}

var whitespacePattern = regexp.MustCompile(`\s+`)

// CleanText collapses runs of whitespace (including newlines) into single
// spaces and trims the result.
func CleanText(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}

// narrativeFields returns the text columns in consolidation order
func (i *Incident) narrativeFields() []string {
	return []string{
		i.Title,
		i.WhatHappened,
		i.WhatCouldHaveHappened,
		i.WhyDidItHappen,
		i.CausalFactors,
		i.WhatWentWell,
		i.LessonsToPrevent,
	}
}

// IncidentText consolidates the narrative fields into a single text blob for
// embedding: each field is cleaned, empty fields are skipped, and the rest are
// joined with " | ". The result may be empty; such incidents still embed and
// cluster (the empty-string embedding is an accepted edge case).
func (i *Incident) IncidentText() string {
	var parts []string
	for _, f := range i.narrativeFields() {
		if cleaned := CleanText(f); cleaned != "" {
			parts = append(parts, cleaned)
		}
	}
	return strings.Join(parts, " | ")
}

// Validate checks submission requirements: a title and a what-happened
// narrative are the minimum for a report to be accepted.
func (i *Incident) Validate() error {
	if strings.TrimSpace(i.Title) == "" {
		return goerr.Wrap(ErrInvalidReport, "title is required")
	}
	if strings.TrimSpace(i.WhatHappened) == "" {
		return goerr.Wrap(ErrInvalidReport, "what happened description is required")
	}
	if i.RiskLevel != "" && !i.RiskLevel.IsValid() {
		return goerr.Wrap(ErrInvalidReport, "invalid risk level", goerr.V("risk_level", i.RiskLevel))
	}
	if i.Severity != "" && !i.Severity.IsValid() {
		return goerr.Wrap(ErrInvalidReport, "invalid severity", goerr.V("severity", i.Severity))
	}
	if i.InjuryCategory != "" && !i.InjuryCategory.IsValid() {
		return goerr.Wrap(ErrInvalidReport, "invalid injury category", goerr.V("injury_category", i.InjuryCategory))
	}
	return nil
}

// IncidentColumns is the canonical column order of the incident table
var IncidentColumns = []string{
	"case_id",
	"title",
	"category",
	"risk_level",
	"setting",
	"date",
	"location",
	"injury_category",
	"severity",
	"primary_classification",
	"what_happened",
	"what_could_have_happened",
	"why_did_it_happen",
	"causal_factors",
	"what_went_well",
	"lessons_to_prevent",
}

// RequiredIncidentColumns are the columns the clustering engine depends on
var RequiredIncidentColumns = []string{
	"case_id",
	"title",
	"risk_level",
	"severity",
	"what_happened",
	"what_could_have_happened",
	"why_did_it_happen",
	"causal_factors",
	"what_went_well",
	"lessons_to_prevent",
}

// ValidateColumns checks that every required column is present in headers and
// returns ErrSchema naming all missing columns otherwise.
func ValidateColumns(table string, required, headers []string) error {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[strings.TrimSpace(h)] = true
	}

	var missing []string
	for _, col := range required {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return goerr.Wrap(ErrSchema, "table is missing required columns",
			goerr.V("table", table),
			goerr.V("missing", missing),
		)
	}
	return nil
}
