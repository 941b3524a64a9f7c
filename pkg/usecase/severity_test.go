package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/safesight-lab/safesight/pkg/domain/model"
	"github.com/safesight-lab/safesight/pkg/domain/types"
	"github.com/safesight-lab/safesight/pkg/usecase"
)

func TestSeverityPredict(t *testing.T) {
	ctx := context.Background()
	llm := &mockLLMClient{}
	sev := &mockSeverityModel{
		predictFn: func(ctx context.Context, injuryCategory types.InjuryCategory, embedding []float64) (*model.SeverityPrediction, error) {
			gt.Value(t, injuryCategory).Equal(types.InjuryFirstAid)
			gt.Array(t, embedding).Length(2)
			return &model.SeverityPrediction{
				Predicted: model.SeverityClassHigh,
				Probabilities: map[string]float64{
					model.SeverityClassHigh:    0.9,
					model.SeverityClassNotHigh: 0.1,
				},
				Score: 90,
			}, nil
		},
	}
	uc := usecase.NewSeverityUseCase(llm, sev)

	pred, err := uc.Predict(ctx, "Worker cut hand on unguarded blade", types.InjuryFirstAid)
	gt.NoError(t, err).Required()
	gt.Value(t, pred.Predicted).Equal(model.SeverityClassHigh)
	gt.Value(t, pred.Score).Equal(90.0)
	gt.Value(t, llm.embeddingCalls).Equal(1)
}

func TestSeverityPredictEmptyDescription(t *testing.T) {
	uc := usecase.NewSeverityUseCase(&mockLLMClient{}, &mockSeverityModel{})

	_, err := uc.Predict(context.Background(), "  \n ", "")
	gt.Error(t, err).Is(model.ErrInvalidRequest)
}

func TestSeverityPredictInvalidInjuryCategory(t *testing.T) {
	uc := usecase.NewSeverityUseCase(&mockLLMClient{}, &mockSeverityModel{})

	_, err := uc.Predict(context.Background(), "Worker fell", types.InjuryCategory("Bruised Ego"))
	gt.Error(t, err).Is(model.ErrInvalidRequest)
}

func TestSeverityModelNotConfigured(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewSeverityUseCase(&mockLLMClient{}, nil)

	_, err := uc.Predict(ctx, "Worker fell", "")
	gt.Error(t, err).Is(model.ErrServiceUnavailable)

	err = uc.AppendTraining(ctx, "Worker fell", types.RiskLevelHigh, "")
	gt.Error(t, err).Is(model.ErrServiceUnavailable)

	_, err = uc.Retrain(ctx)
	gt.Error(t, err).Is(model.ErrServiceUnavailable)
}

func TestSeverityAppendTraining(t *testing.T) {
	ctx := context.Background()
	sev := &mockSeverityModel{}
	uc := usecase.NewSeverityUseCase(&mockLLMClient{}, sev)

	err := uc.AppendTraining(ctx, "Forklift reversed into racking", types.RiskLevelHigh, types.InjuryNone)
	gt.NoError(t, err).Required()
	gt.Array(t, sev.trainingRows).Length(1)
	gt.Value(t, sev.trainingRows[0].InjuryCategory).Equal(types.InjuryNone)
}

func TestSeverityEmbeddingFailure(t *testing.T) {
	llm := &mockLLMClient{
		generateEmbeddingFn: func(ctx context.Context, dimension int, input []string) ([][]float64, error) {
			return nil, goerr.New("embedding backend down")
		},
	}
	uc := usecase.NewSeverityUseCase(llm, &mockSeverityModel{})

	_, err := uc.Predict(context.Background(), "Worker fell", "")
	gt.Error(t, err).Is(model.ErrServiceUnavailable)
}

func TestSeverityRetrain(t *testing.T) {
	uc := usecase.NewSeverityUseCase(&mockLLMClient{}, &mockSeverityModel{})

	metrics, err := uc.Retrain(context.Background())
	gt.NoError(t, err).Required()
	gt.Value(t, metrics.RowCount).Equal(int64(100))
	gt.Value(t, metrics.F1).Equal(0.85)
}
