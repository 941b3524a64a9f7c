package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/safesight-lab/safesight/pkg/domain/model"
	"github.com/safesight-lab/safesight/pkg/domain/types"
	"github.com/safesight-lab/safesight/pkg/repository/memory"
	"github.com/safesight-lab/safesight/pkg/service/index"
	"github.com/safesight-lab/safesight/pkg/usecase"
)

func validIncident() *model.Incident {
	return &model.Incident{
		Title:          "Forklift near miss",
		WhatHappened:   "Forklift reversed without spotter",
		RiskLevel:      types.RiskLevelHigh,
		Severity:       types.SeverityNearMiss,
		InjuryCategory: types.InjuryNone,
	}
}

func TestSubmitPersistsAndFeedsDerived(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	llm := &mockLLMClient{}
	idx := index.NewMemory()
	sev := &mockSeverityModel{}
	uc := usecase.NewReportUseCase(repo, llm, idx, sev, model.DefaultFormOptions())

	stored, err := uc.Submit(ctx, validIncident(), []*model.CorrectiveAction{
		{Action: "Install mirrors", Owner: "Jane", Timing: "<30 days"},
		{Action: "Retrain operators", Owner: "Bob", Timing: "immediate"},
	})
	gt.NoError(t, err).Required()
	gt.Value(t, stored.CaseID).Equal(types.CaseID("CASE-001"))
	gt.B(t, stored.CreatedAt.IsZero()).False()

	actions, err := repo.Action().List(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, actions).Length(2)
	gt.Value(t, actions[0].CaseID).Equal(stored.CaseID)
	gt.Value(t, actions[1].CaseID).Equal(stored.CaseID)

	// Derived systems fed once each
	count, err := idx.Count(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, count).Equal(1)
	gt.Array(t, sev.trainingRows).Length(1)
	gt.Value(t, sev.trainingRows[0].RiskLevel).Equal(types.RiskLevelHigh)
	gt.Value(t, llm.embeddingCalls).Equal(1)
}

func TestSubmitInvalidReport(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	llm := &mockLLMClient{}
	uc := usecase.NewReportUseCase(repo, llm, index.NewMemory(), nil, model.DefaultFormOptions())

	incident := validIncident()
	incident.Title = ""
	_, err := uc.Submit(ctx, incident, nil)
	gt.Error(t, err).Is(model.ErrInvalidReport)

	// Nothing persisted, nothing embedded
	incidents, err := repo.Incident().List(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, incidents).Length(0)
	gt.Value(t, llm.embeddingCalls).Equal(0)
}

func TestSubmitTooManyActions(t *testing.T) {
	uc := usecase.NewReportUseCase(memory.New(), &mockLLMClient{}, index.NewMemory(), nil, model.DefaultFormOptions())

	actions := make([]*model.CorrectiveAction, 16)
	for i := range actions {
		actions[i] = &model.CorrectiveAction{Action: "act", Owner: "Jane", Timing: "immediate"}
	}
	_, err := uc.Submit(context.Background(), validIncident(), actions)
	gt.Error(t, err).Is(model.ErrInvalidReport)
}

func TestSubmitEmptyActionText(t *testing.T) {
	uc := usecase.NewReportUseCase(memory.New(), &mockLLMClient{}, index.NewMemory(), nil, model.DefaultFormOptions())

	_, err := uc.Submit(context.Background(), validIncident(), []*model.CorrectiveAction{
		{Action: "   ", Owner: "Jane", Timing: "immediate"},
	})
	gt.Error(t, err).Is(model.ErrInvalidReport)
}

func TestSubmitSucceedsWhenDerivedFeedFails(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	sev := &mockSeverityModel{appendErr: goerr.New("warehouse down")}
	llm := &mockLLMClient{
		generateEmbeddingFn: func(ctx context.Context, dimension int, input []string) ([][]float64, error) {
			return nil, goerr.New("embedding backend down")
		},
	}
	uc := usecase.NewReportUseCase(repo, llm, index.NewMemory(), sev, model.DefaultFormOptions())

	// Both the embedding and the training append fail; the submission is
	// already persisted and still succeeds
	stored, err := uc.Submit(ctx, validIncident(), nil)
	gt.NoError(t, err).Required()

	got, err := repo.Incident().Get(ctx, stored.CaseID)
	gt.NoError(t, err).Required()
	gt.Value(t, got.Title).Equal("Forklift near miss")
}

func TestRecentNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	uc := usecase.NewReportUseCase(repo, &mockLLMClient{}, index.NewMemory(), nil, model.DefaultFormOptions())

	for _, title := range []string{"first", "second", "third"} {
		incident := validIncident()
		incident.Title = title
		_, err := uc.Submit(ctx, incident, nil)
		gt.NoError(t, err).Required()
	}

	recent, err := uc.Recent(ctx, 2)
	gt.NoError(t, err).Required()
	gt.Array(t, recent).Length(2)
	gt.Value(t, recent[0].Title).Equal("third")
	gt.Value(t, recent[1].Title).Equal("second")

	all, err := uc.Recent(ctx, 0)
	gt.NoError(t, err).Required()
	gt.Array(t, all).Length(3)
}
