package interfaces

import (
	"context"

	"github.com/safesight-lab/safesight/pkg/domain/model"
	"github.com/safesight-lab/safesight/pkg/domain/types"
)

// SeverityModel is the warehouse-hosted binary severity classifier.
// Embedding happens upstream; the model receives opaque vectors.
type SeverityModel interface {
	// Predict returns the class and probabilities for one feature row
	Predict(ctx context.Context, injuryCategory types.InjuryCategory, embedding []float64) (*model.SeverityPrediction, error)
	// AppendTraining adds one row to the training table. The model does not
	// retrain automatically.
	AppendTraining(ctx context.Context, riskLevel types.RiskLevel, injuryCategory types.InjuryCategory, embedding []float64) error
	// Retrain rebuilds the model from the full training table and returns
	// the evaluation metrics
	Retrain(ctx context.Context) (*model.TrainingMetrics, error)
}
