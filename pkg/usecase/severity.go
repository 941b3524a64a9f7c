package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/safesight-lab/safesight/pkg/domain/interfaces"
	"github.com/safesight-lab/safesight/pkg/domain/model"
	"github.com/safesight-lab/safesight/pkg/domain/types"
)

// SeverityUseCase predicts whether an incident description is likely to be
// high severity, using the warehouse-hosted classifier. Embedding happens
// here; the classifier only sees feature vectors.
type SeverityUseCase struct {
	llm   gollem.LLMClient
	model interfaces.SeverityModel
}

func NewSeverityUseCase(llm gollem.LLMClient, m interfaces.SeverityModel) *SeverityUseCase {
	return &SeverityUseCase{
		llm:   llm,
		model: m,
	}
}

func (uc *SeverityUseCase) Predict(ctx context.Context, description string, injuryCategory types.InjuryCategory) (*model.SeverityPrediction, error) {
	description = model.CleanText(description)
	if description == "" {
		return nil, goerr.Wrap(model.ErrInvalidRequest, "description must not be empty")
	}
	if injuryCategory != "" && !injuryCategory.IsValid() {
		return nil, goerr.Wrap(model.ErrInvalidRequest, "invalid injury category",
			goerr.V("injury_category", injuryCategory))
	}
	if uc.model == nil {
		return nil, goerr.Wrap(model.ErrServiceUnavailable, "severity model is not configured")
	}

	embedding, err := uc.embed(ctx, description)
	if err != nil {
		return nil, err
	}

	return uc.model.Predict(ctx, injuryCategory, embedding)
}

// AppendTraining embeds the narrative and adds one labeled row to the
// training table. The model is not retrained automatically.
func (uc *SeverityUseCase) AppendTraining(ctx context.Context, whatHappened string, riskLevel types.RiskLevel, injuryCategory types.InjuryCategory) error {
	whatHappened = model.CleanText(whatHappened)
	if whatHappened == "" {
		return goerr.Wrap(model.ErrInvalidRequest, "narrative must not be empty")
	}
	if uc.model == nil {
		return goerr.Wrap(model.ErrServiceUnavailable, "severity model is not configured")
	}

	embedding, err := uc.embed(ctx, whatHappened)
	if err != nil {
		return err
	}

	return uc.model.AppendTraining(ctx, riskLevel, injuryCategory, embedding)
}

func (uc *SeverityUseCase) Retrain(ctx context.Context) (*model.TrainingMetrics, error) {
	if uc.model == nil {
		return nil, goerr.Wrap(model.ErrServiceUnavailable, "severity model is not configured")
	}
	return uc.model.Retrain(ctx)
}

func (uc *SeverityUseCase) embed(ctx context.Context, text string) ([]float64, error) {
	embeddings, err := uc.llm.GenerateEmbedding(ctx, model.EmbeddingDimension, []string{strings.TrimSpace(text)})
	if err != nil {
		return nil, goerr.Wrap(model.ErrServiceUnavailable, "description embedding failed", goerr.V("cause", err))
	}
	if len(embeddings) == 0 {
		return nil, goerr.Wrap(model.ErrServiceUnavailable, "description embedding returned no vectors")
	}
	return embeddings[0], nil
}
