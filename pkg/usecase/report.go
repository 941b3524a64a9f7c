package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/safesight-lab/safesight/pkg/domain/interfaces"
	"github.com/safesight-lab/safesight/pkg/domain/model"
	"github.com/safesight-lab/safesight/pkg/utils/errutil"
)

// ReportUseCase handles incident report intake: persist the incident and its
// corrective actions, then feed the derived systems (vector index, severity
// training data).
type ReportUseCase struct {
	repo        interfaces.Repository
	llm         gollem.LLMClient
	index       interfaces.VectorIndex
	severity    interfaces.SeverityModel
	formOptions *model.FormOptions
}

func NewReportUseCase(repo interfaces.Repository, llm gollem.LLMClient, index interfaces.VectorIndex, severity interfaces.SeverityModel, formOptions *model.FormOptions) *ReportUseCase {
	return &ReportUseCase{
		repo:        repo,
		llm:         llm,
		index:       index,
		severity:    severity,
		formOptions: formOptions,
	}
}

// Submit validates and persists a new incident report with its corrective
// actions. The record store append is authoritative: once both tables are
// written the submission has succeeded, and feeding the vector index and the
// severity training table is best-effort (failures are logged, not returned).
func (uc *ReportUseCase) Submit(ctx context.Context, incident *model.Incident, actions []*model.CorrectiveAction) (*model.Incident, error) {
	if err := incident.Validate(); err != nil {
		return nil, err
	}
	if max := uc.formOptions.MaxActionsPerSubmission; max > 0 && len(actions) > max {
		return nil, goerr.Wrap(model.ErrInvalidReport, "too many corrective actions",
			goerr.V("actions", len(actions)), goerr.V("max", max))
	}
	for _, action := range actions {
		if model.CleanText(action.Action) == "" {
			return nil, goerr.Wrap(model.ErrInvalidReport, "corrective action text is required")
		}
	}

	if incident.CreatedAt.IsZero() {
		incident.CreatedAt = time.Now().UTC()
	}

	stored, err := uc.repo.Incident().Append(ctx, incident)
	if err != nil {
		return nil, err
	}

	for _, action := range actions {
		action.CaseID = stored.CaseID
	}
	if err := uc.repo.Action().Append(ctx, actions); err != nil {
		return nil, err
	}

	uc.feedDerived(ctx, stored)

	return stored, nil
}

// feedDerived pushes the new incident into the vector index and the severity
// training table. The incident is already persisted; failures here are logged
// and the submission still succeeds.
func (uc *ReportUseCase) feedDerived(ctx context.Context, incident *model.Incident) {
	text := incident.IncidentText()

	embeddings, err := uc.llm.GenerateEmbedding(ctx, model.EmbeddingDimension, []string{text})
	if err != nil {
		errutil.Handle(ctx, goerr.Wrap(err, "failed to embed submitted incident",
			goerr.V("case_id", incident.CaseID)), "skipping derived updates")
		return
	}
	if len(embeddings) == 0 {
		errutil.Handle(ctx, goerr.New("incident embedding returned no vectors",
			goerr.V("case_id", incident.CaseID)), "skipping derived updates")
		return
	}

	if uc.index != nil {
		doc := &model.Document{
			CaseID:    incident.CaseID,
			Text:      text,
			Embedding: model.ToFloat32(embeddings[0]),
		}
		if err := uc.index.Index(ctx, []*model.Document{doc}); err != nil {
			errutil.Handle(ctx, err, "failed to index submitted incident")
		}
	}

	if uc.severity != nil {
		if err := uc.severity.AppendTraining(ctx, incident.RiskLevel, incident.InjuryCategory, embeddings[0]); err != nil {
			errutil.Handle(ctx, err, "failed to append severity training row")
		}
	}
}

// Recent returns the last n incidents, newest first
func (uc *ReportUseCase) Recent(ctx context.Context, n int) ([]*model.Incident, error) {
	incidents, err := uc.repo.Incident().List(ctx)
	if err != nil {
		return nil, err
	}

	if n <= 0 || n > len(incidents) {
		n = len(incidents)
	}

	recent := make([]*model.Incident, 0, n)
	for i := len(incidents) - 1; i >= len(incidents)-n; i-- {
		recent = append(recent, incidents[i])
	}
	return recent, nil
}
