package sheet

import (
	"context"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/safesight-lab/safesight/pkg/domain/model"
	"github.com/safesight-lab/safesight/pkg/domain/types"
)

type incidentRepository struct {
	table *table
}

func decodeIncident(row []string, idx map[string]int) *model.Incident {
	return &model.Incident{
		CaseID:                types.CaseID(cell(row, idx, "case_id")),
		Title:                 cell(row, idx, "title"),
		Category:              cell(row, idx, "category"),
		RiskLevel:             types.RiskLevel(cell(row, idx, "risk_level")),
		Setting:               cell(row, idx, "setting"),
		Date:                  cell(row, idx, "date"),
		Location:              cell(row, idx, "location"),
		InjuryCategory:        types.InjuryCategory(cell(row, idx, "injury_category")),
		Severity:              types.Severity(cell(row, idx, "severity")),
		PrimaryClassification: cell(row, idx, "primary_classification"),
		WhatHappened:          cell(row, idx, "what_happened"),
		WhatCouldHaveHappened: cell(row, idx, "what_could_have_happened"),
		WhyDidItHappen:        cell(row, idx, "why_did_it_happen"),
		CausalFactors:         cell(row, idx, "causal_factors"),
		WhatWentWell:          cell(row, idx, "what_went_well"),
		LessonsToPrevent:      cell(row, idx, "lessons_to_prevent"),
		CreatedAt:             parseCreatedAt(cell(row, idx, "created_at")),
	}
}

func encodeIncident(i *model.Incident) []string {
	return []string{
		i.CaseID.String(),
		i.Title,
		i.Category,
		i.RiskLevel.String(),
		i.Setting,
		i.Date,
		i.Location,
		i.InjuryCategory.String(),
		i.Severity.String(),
		i.PrimaryClassification,
		i.WhatHappened,
		i.WhatCouldHaveHappened,
		i.WhyDidItHappen,
		i.CausalFactors,
		i.WhatWentWell,
		i.LessonsToPrevent,
		i.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func incidentHeader() []string {
	return append(append([]string{}, model.IncidentColumns...), "created_at")
}

func parseCreatedAt(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (r *incidentRepository) List(ctx context.Context) ([]*model.Incident, error) {
	header, rows, err := r.table.read(ctx)
	if err != nil {
		return nil, err
	}
	if header == nil {
		return nil, nil
	}
	if err := model.ValidateColumns("base_reports", model.RequiredIncidentColumns, header); err != nil {
		return nil, err
	}

	idx := columnIndex(header)
	incidents := make([]*model.Incident, 0, len(rows))
	for _, row := range rows {
		incidents = append(incidents, decodeIncident(row, idx))
	}
	return incidents, nil
}

func (r *incidentRepository) Get(ctx context.Context, id types.CaseID) (*model.Incident, error) {
	incidents, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, incident := range incidents {
		if incident.CaseID == id {
			return incident, nil
		}
	}
	return nil, goerr.Wrap(model.ErrIncidentNotFound, "no such case", goerr.V("case_id", id))
}

// Append implements the read-modify-write protocol: the next case number is
// the current row count + 1, matching the original spreadsheet behavior.
func (r *incidentRepository) Append(ctx context.Context, incident *model.Incident) (*model.Incident, error) {
	header, rows, err := r.table.read(ctx)
	if err != nil {
		return nil, err
	}
	if header == nil {
		header = incidentHeader()
	} else if err := model.ValidateColumns("base_reports", model.RequiredIncidentColumns, header); err != nil {
		return nil, err
	}

	created := *incident
	if created.CaseID == "" {
		created.CaseID = types.NewCaseID(int64(len(rows)) + 1)
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	idx := columnIndex(header)
	for _, row := range rows {
		if cell(row, idx, "case_id") == created.CaseID.String() {
			return nil, goerr.New("duplicate case ID", goerr.V("case_id", created.CaseID))
		}
	}

	// Encode against the canonical column order; tables written by this
	// repository always carry the full header.
	if len(header) != len(incidentHeader()) {
		return nil, goerr.Wrap(model.ErrSchema, fmt.Sprintf("unexpected column count %d", len(header)),
			goerr.V("table", "base_reports"))
	}

	rows = append(rows, encodeIncident(&created))
	if err := r.table.write(ctx, header, rows); err != nil {
		return nil, err
	}
	return &created, nil
}
