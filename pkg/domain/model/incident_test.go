package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/safesight-lab/safesight/pkg/domain/model"
	"github.com/safesight-lab/safesight/pkg/domain/types"
)

func TestCleanText(t *testing.T) {
	gt.Value(t, model.CleanText("  hello   world  ")).Equal("hello world")
	gt.Value(t, model.CleanText("line1\nline2\r\nline3")).Equal("line1 line2 line3")
	gt.Value(t, model.CleanText("\t\n  ")).Equal("")
}

func TestIncidentText(t *testing.T) {
	t.Run("joins non-empty fields with separator", func(t *testing.T) {
		incident := &model.Incident{
			Title:          "Forklift near miss",
			WhatHappened:   "Forklift reversed  without\nspotter",
			WhyDidItHappen: "Operator was\n not trained",
		}
		gt.Value(t, incident.IncidentText()).
			Equal("Forklift near miss | Forklift reversed without spotter | Operator was not trained")
	})

	t.Run("all fields empty yields empty text", func(t *testing.T) {
		incident := &model.Incident{}
		gt.Value(t, incident.IncidentText()).Equal("")
	})
}

func TestIncidentValidate(t *testing.T) {
	valid := &model.Incident{
		Title:        "Spill in warehouse",
		WhatHappened: "A drum tipped over",
	}
	gt.NoError(t, valid.Validate())

	noTitle := &model.Incident{WhatHappened: "A drum tipped over"}
	gt.Error(t, noTitle.Validate()).Is(model.ErrInvalidReport)

	noNarrative := &model.Incident{Title: "Spill"}
	gt.Error(t, noNarrative.Validate()).Is(model.ErrInvalidReport)

	badRisk := &model.Incident{
		Title:        "Spill",
		WhatHappened: "A drum tipped over",
		RiskLevel:    types.RiskLevel("Extreme"),
	}
	gt.Error(t, badRisk.Validate()).Is(model.ErrInvalidReport)
}

func TestValidateColumns(t *testing.T) {
	t.Run("all required columns present", func(t *testing.T) {
		gt.NoError(t, model.ValidateColumns("base_reports", model.RequiredIncidentColumns, model.IncidentColumns))
	})

	t.Run("missing columns reported as schema error", func(t *testing.T) {
		headers := []string{"case_id", "title", "risk_level"}
		err := model.ValidateColumns("base_reports", model.RequiredIncidentColumns, headers)
		gt.Error(t, err).Is(model.ErrSchema)
	})

	t.Run("extra columns are fine", func(t *testing.T) {
		headers := append([]string{"extra"}, model.ActionColumns...)
		gt.NoError(t, model.ValidateColumns("actions", model.RequiredActionColumns, headers))
	})
}
