package model

// Severity classifier class labels. The warehouse model is a binary
// classifier over (embedding vector, injury category).
const (
	SeverityClassHigh    = "High"
	SeverityClassNotHigh = "Not_High"
)

// SeverityPrediction is the output of one classifier predict call
type SeverityPrediction struct {
	Predicted     string             `json:"predicted"`
	Probabilities map[string]float64 `json:"probabilities"`
	Score         float64            `json:"score"` // P(High) * 100
}

// IsHigh reports whether the predicted class is High
func (p *SeverityPrediction) IsHigh() bool {
	return p.Predicted == SeverityClassHigh
}

// TrainingMetrics are the evaluation metrics returned after a retrain
type TrainingMetrics struct {
	Recall    float64 `json:"recall"`
	Precision float64 `json:"precision"`
	F1        float64 `json:"f1"`
	RowCount  int64   `json:"row_count"`
}
