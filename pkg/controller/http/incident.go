package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/safesight-lab/safesight/pkg/domain/model"
	"github.com/safesight-lab/safesight/pkg/domain/types"
)

type actionRequest struct {
	Action       string `json:"action"`
	Owner        string `json:"owner,omitempty"`
	Timing       string `json:"timing,omitempty"`
	Verification string `json:"verification,omitempty"`
}

type incidentRequest struct {
	Title                 string          `json:"title"`
	Category              string          `json:"category,omitempty"`
	RiskLevel             string          `json:"risk_level,omitempty"`
	Setting               string          `json:"setting,omitempty"`
	Date                  string          `json:"date,omitempty"`
	Location              string          `json:"location,omitempty"`
	InjuryCategory        string          `json:"injury_category,omitempty"`
	Severity              string          `json:"severity,omitempty"`
	PrimaryClassification string          `json:"primary_classification,omitempty"`
	WhatHappened          string          `json:"what_happened"`
	WhatCouldHaveHappened string          `json:"what_could_have_happened,omitempty"`
	WhyDidItHappen        string          `json:"why_did_it_happen,omitempty"`
	CausalFactors         string          `json:"causal_factors,omitempty"`
	WhatWentWell          string          `json:"what_went_well,omitempty"`
	LessonsToPrevent      string          `json:"lessons_to_prevent,omitempty"`
	Actions               []actionRequest `json:"actions,omitempty"`
}

type incidentResponse struct {
	CaseID                string `json:"case_id"`
	Title                 string `json:"title"`
	Category              string `json:"category,omitempty"`
	RiskLevel             string `json:"risk_level,omitempty"`
	Setting               string `json:"setting,omitempty"`
	Date                  string `json:"date,omitempty"`
	Location              string `json:"location,omitempty"`
	InjuryCategory        string `json:"injury_category,omitempty"`
	Severity              string `json:"severity,omitempty"`
	PrimaryClassification string `json:"primary_classification,omitempty"`
	WhatHappened          string `json:"what_happened,omitempty"`
}

func toIncidentResponse(incident *model.Incident) *incidentResponse {
	return &incidentResponse{
		CaseID:                incident.CaseID.String(),
		Title:                 incident.Title,
		Category:              incident.Category,
		RiskLevel:             incident.RiskLevel.String(),
		Setting:               incident.Setting,
		Date:                  incident.Date,
		Location:              incident.Location,
		InjuryCategory:        incident.InjuryCategory.String(),
		Severity:              incident.Severity.String(),
		PrimaryClassification: incident.PrimaryClassification,
		WhatHappened:          incident.WhatHappened,
	}
}

func (s *Server) handleIncidentSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req incidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(ctx, w, goerr.Wrap(model.ErrInvalidRequest, "invalid incident request body", goerr.V("cause", err)))
		return
	}

	incident := &model.Incident{
		Title:                 req.Title,
		Category:              req.Category,
		RiskLevel:             types.RiskLevel(req.RiskLevel),
		Setting:               req.Setting,
		Date:                  req.Date,
		Location:              req.Location,
		InjuryCategory:        types.InjuryCategory(req.InjuryCategory),
		Severity:              types.Severity(req.Severity),
		PrimaryClassification: req.PrimaryClassification,
		WhatHappened:          req.WhatHappened,
		WhatCouldHaveHappened: req.WhatCouldHaveHappened,
		WhyDidItHappen:        req.WhyDidItHappen,
		CausalFactors:         req.CausalFactors,
		WhatWentWell:          req.WhatWentWell,
		LessonsToPrevent:      req.LessonsToPrevent,
	}

	actions := make([]*model.CorrectiveAction, 0, len(req.Actions))
	for _, a := range req.Actions {
		actions = append(actions, &model.CorrectiveAction{
			Action:       a.Action,
			Owner:        a.Owner,
			Timing:       a.Timing,
			Verification: a.Verification,
		})
	}

	stored, err := s.uc.Report.Submit(ctx, incident, actions)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusCreated, toIncidentResponse(stored))
}

func (s *Server) handleIncidentList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			handleError(ctx, w, goerr.Wrap(model.ErrInvalidRequest, "invalid limit", goerr.V("limit", raw)))
			return
		}
		limit = n
	}

	incidents, err := s.uc.Report.Recent(ctx, limit)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	resp := make([]*incidentResponse, 0, len(incidents))
	for _, incident := range incidents {
		resp = append(resp, toIncidentResponse(incident))
	}
	respondJSON(ctx, w, http.StatusOK, resp)
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	respondJSON(r.Context(), w, http.StatusOK, s.uc.FormOptions())
}
