package usecase_test

import (
	"context"

	"github.com/m-mizutani/gollem"
	"github.com/safesight-lab/safesight/pkg/domain/model"
	"github.com/safesight-lab/safesight/pkg/domain/types"
)

// mockLLMSession is a mock gollem Session for testing
type mockLLMSession struct {
	generateContentFn func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error)
	inputs            [][]gollem.Input
}

func (s *mockLLMSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	s.inputs = append(s.inputs, input)
	if s.generateContentFn != nil {
		return s.generateContentFn(ctx, input...)
	}
	return &gollem.Response{Texts: []string{"mock answer"}}, nil
}

func (s *mockLLMSession) GenerateStream(ctx context.Context, input ...gollem.Input) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *mockLLMSession) Generate(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (*gollem.Response, error) {
	return s.GenerateContent(ctx, input...)
}

func (s *mockLLMSession) Stream(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (<-chan *gollem.Response, error) {
	return s.GenerateStream(ctx, input...)
}

func (s *mockLLMSession) History() (*gollem.History, error) {
	return nil, nil
}

func (s *mockLLMSession) AppendHistory(*gollem.History) error {
	return nil
}

func (s *mockLLMSession) CountToken(ctx context.Context, input ...gollem.Input) (int, error) {
	return 0, nil
}

// mockLLMClient is a mock gollem LLMClient for testing
type mockLLMClient struct {
	newSessionFn        func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error)
	generateEmbeddingFn func(ctx context.Context, dimension int, input []string) ([][]float64, error)

	sessions        []*mockLLMSession
	embeddingCalls  int
	embeddingInputs [][]string
}

func (c *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	if c.newSessionFn != nil {
		return c.newSessionFn(ctx, options...)
	}
	s := &mockLLMSession{}
	c.sessions = append(c.sessions, s)
	return s, nil
}

func (c *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	c.embeddingCalls++
	c.embeddingInputs = append(c.embeddingInputs, input)
	if c.generateEmbeddingFn != nil {
		return c.generateEmbeddingFn(ctx, dimension, input)
	}
	out := make([][]float64, len(input))
	for i := range input {
		out[i] = []float64{1, 0}
	}
	return out, nil
}

// mockSeverityModel records training rows and serves canned predictions
type mockSeverityModel struct {
	predictFn  func(ctx context.Context, injuryCategory types.InjuryCategory, embedding []float64) (*model.SeverityPrediction, error)
	appendErr  error
	retrainFn  func(ctx context.Context) (*model.TrainingMetrics, error)
	trainingRows []struct {
		RiskLevel      types.RiskLevel
		InjuryCategory types.InjuryCategory
	}
}

func (m *mockSeverityModel) Predict(ctx context.Context, injuryCategory types.InjuryCategory, embedding []float64) (*model.SeverityPrediction, error) {
	if m.predictFn != nil {
		return m.predictFn(ctx, injuryCategory, embedding)
	}
	return &model.SeverityPrediction{
		Predicted:     model.SeverityClassNotHigh,
		Probabilities: map[string]float64{model.SeverityClassHigh: 0.2, model.SeverityClassNotHigh: 0.8},
		Score:         20,
	}, nil
}

func (m *mockSeverityModel) AppendTraining(ctx context.Context, riskLevel types.RiskLevel, injuryCategory types.InjuryCategory, embedding []float64) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.trainingRows = append(m.trainingRows, struct {
		RiskLevel      types.RiskLevel
		InjuryCategory types.InjuryCategory
	}{riskLevel, injuryCategory})
	return nil
}

func (m *mockSeverityModel) Retrain(ctx context.Context) (*model.TrainingMetrics, error) {
	if m.retrainFn != nil {
		return m.retrainFn(ctx)
	}
	return &model.TrainingMetrics{Recall: 0.9, Precision: 0.8, F1: 0.85, RowCount: 100}, nil
}
