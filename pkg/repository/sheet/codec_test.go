package sheet

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/safesight-lab/safesight/pkg/domain/model"
	"github.com/safesight-lab/safesight/pkg/domain/types"
)

func TestIncidentCodecRoundTrip(t *testing.T) {
	in := &model.Incident{
		CaseID:         types.CaseID("CASE-042"),
		Title:          "Forklift near miss",
		Category:       "Safety",
		RiskLevel:      types.RiskLevelHigh,
		InjuryCategory: types.InjuryNone,
		Severity:       types.SeverityNearMiss,
		WhatHappened:   "Forklift reversed without spotter",
		CausalFactors:  "No spotter assigned",
		CreatedAt:      time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC),
	}

	header := incidentHeader()
	row := encodeIncident(in)
	gt.Value(t, len(row)).Equal(len(header))

	out := decodeIncident(row, columnIndex(header))
	gt.Value(t, out.CaseID).Equal(in.CaseID)
	gt.Value(t, out.Title).Equal(in.Title)
	gt.Value(t, out.RiskLevel).Equal(in.RiskLevel)
	gt.Value(t, out.Severity).Equal(in.Severity)
	gt.Value(t, out.CausalFactors).Equal(in.CausalFactors)
	gt.B(t, out.CreatedAt.Equal(in.CreatedAt)).True()
}

func TestCellShortRow(t *testing.T) {
	idx := columnIndex([]string{"case_id", "title", "category"})

	// Row shorter than the header, as legacy sheet exports often are
	row := []string{"CASE-001"}
	gt.Value(t, cell(row, idx, "case_id")).Equal("CASE-001")
	gt.Value(t, cell(row, idx, "title")).Equal("")
	gt.Value(t, cell(row, idx, "missing_column")).Equal("")
}

func TestParseCreatedAt(t *testing.T) {
	parsed := parseCreatedAt("2025-03-01T12:30:00Z")
	gt.B(t, parsed.Equal(time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC))).True()

	// Legacy rows without a timestamp decode to the zero time
	gt.B(t, parseCreatedAt("").IsZero()).True()
	gt.B(t, parseCreatedAt("03/01/2025").IsZero()).True()
}
