// Package severity hosts the warehouse-backed severity classifier. The model
// lives in BigQuery ML as a binary logistic regression over the incident
// embedding vector and injury category; this package only moves rows and SQL.
package severity

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"github.com/m-mizutani/goerr/v2"
	"github.com/safesight-lab/safesight/pkg/domain/interfaces"
	"github.com/safesight-lab/safesight/pkg/domain/model"
	"github.com/safesight-lab/safesight/pkg/domain/types"
	"google.golang.org/api/iterator"
)

type BigQueryModel struct {
	client  *bigquery.Client
	dataset string
	table   string
	model   string
}

var _ interfaces.SeverityModel = &BigQueryModel{}

type Option func(*BigQueryModel)

// WithTable overrides the training table name
func WithTable(name string) Option {
	return func(m *BigQueryModel) {
		m.table = name
	}
}

// WithModel overrides the model name
func WithModel(name string) Option {
	return func(m *BigQueryModel) {
		m.model = name
	}
}

func NewBigQuery(client *bigquery.Client, dataset string, opts ...Option) *BigQueryModel {
	m := &BigQueryModel{
		client:  client,
		dataset: dataset,
		table:   "severity_training",
		model:   "severity_model",
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *BigQueryModel) tableID() string {
	return fmt.Sprintf("`%s.%s.%s`", m.client.Project(), m.dataset, m.table)
}

func (m *BigQueryModel) modelID() string {
	return fmt.Sprintf("`%s.%s.%s`", m.client.Project(), m.dataset, m.model)
}

// trainingRow mirrors the training table schema
type trainingRow struct {
	RiskLevel      string    `bigquery:"risk_level"`
	InjuryCategory string    `bigquery:"injury_category"`
	Embedding      []float64 `bigquery:"embedding_vector"`
}

// predictRow mirrors the ML.PREDICT output for the is_high label
type predictRow struct {
	Predicted string `bigquery:"predicted_is_high"`
	Probs     []struct {
		Label string  `bigquery:"label"`
		Prob  float64 `bigquery:"prob"`
	} `bigquery:"predicted_is_high_probs"`
}

// evalRow mirrors the ML.EVALUATE output columns we report
type evalRow struct {
	Recall    float64 `bigquery:"recall"`
	Precision float64 `bigquery:"precision"`
	F1        float64 `bigquery:"f1_score"`
}

func (m *BigQueryModel) Predict(ctx context.Context, injuryCategory types.InjuryCategory, embedding []float64) (*model.SeverityPrediction, error) {
	q := m.client.Query(fmt.Sprintf(`
		SELECT predicted_is_high, predicted_is_high_probs
		FROM ML.PREDICT(MODEL %s, (
			SELECT
				@injury_category AS injury_category,
				@embedding AS embedding_vector
		))`, m.modelID()))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "injury_category", Value: string(injuryCategory)},
		{Name: "embedding", Value: embedding},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, goerr.Wrap(model.ErrServiceUnavailable, "severity prediction query failed", goerr.V("cause", err))
	}

	var row predictRow
	if err := it.Next(&row); err != nil {
		if err == iterator.Done {
			return nil, goerr.Wrap(model.ErrServiceUnavailable, "severity prediction returned no rows")
		}
		return nil, goerr.Wrap(model.ErrServiceUnavailable, "failed to read prediction row", goerr.V("cause", err))
	}

	pred := &model.SeverityPrediction{
		Predicted:     row.Predicted,
		Probabilities: make(map[string]float64, len(row.Probs)),
	}
	for _, p := range row.Probs {
		pred.Probabilities[p.Label] = p.Prob
	}
	pred.Score = pred.Probabilities[model.SeverityClassHigh] * 100

	return pred, nil
}

func (m *BigQueryModel) AppendTraining(ctx context.Context, riskLevel types.RiskLevel, injuryCategory types.InjuryCategory, embedding []float64) error {
	ins := m.client.Dataset(m.dataset).Table(m.table).Inserter()
	row := &trainingRow{
		RiskLevel:      riskLevel.String(),
		InjuryCategory: string(injuryCategory),
		Embedding:      embedding,
	}
	if err := ins.Put(ctx, row); err != nil {
		return goerr.Wrap(err, "failed to append training row",
			goerr.V("risk_level", riskLevel), goerr.V("injury_category", injuryCategory))
	}
	return nil
}

// Retrain rebuilds the model from the full training table. The label is
// derived at train time: risk_level == 'High' maps to High, everything else
// to Not_High.
func (m *BigQueryModel) Retrain(ctx context.Context) (*model.TrainingMetrics, error) {
	createSQL := fmt.Sprintf(`
		CREATE OR REPLACE MODEL %s
		OPTIONS (
			model_type = 'LOGISTIC_REG',
			input_label_cols = ['is_high'],
			auto_class_weights = TRUE,
			data_split_eval_fraction = 0.2,
			max_iterations = 50,
			l2_reg = 0.1
		) AS
		SELECT
			IF(risk_level = 'High', '%s', '%s') AS is_high,
			injury_category,
			embedding_vector
		FROM %s`,
		m.modelID(), model.SeverityClassHigh, model.SeverityClassNotHigh, m.tableID())

	job, err := m.client.Query(createSQL).Run(ctx)
	if err != nil {
		return nil, goerr.Wrap(model.ErrServiceUnavailable, "failed to start model training", goerr.V("cause", err))
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return nil, goerr.Wrap(model.ErrServiceUnavailable, "model training job failed", goerr.V("cause", err))
	}
	if err := status.Err(); err != nil {
		return nil, goerr.Wrap(model.ErrServiceUnavailable, "model training finished with error", goerr.V("cause", err))
	}

	metrics, err := m.evaluate(ctx)
	if err != nil {
		return nil, err
	}
	count, err := m.trainingRowCount(ctx)
	if err != nil {
		return nil, err
	}
	metrics.RowCount = count

	return metrics, nil
}

func (m *BigQueryModel) evaluate(ctx context.Context) (*model.TrainingMetrics, error) {
	q := m.client.Query(fmt.Sprintf(`
		SELECT recall, precision, f1_score
		FROM ML.EVALUATE(MODEL %s)`, m.modelID()))

	it, err := q.Read(ctx)
	if err != nil {
		return nil, goerr.Wrap(model.ErrServiceUnavailable, "model evaluation query failed", goerr.V("cause", err))
	}

	var row evalRow
	if err := it.Next(&row); err != nil {
		if err == iterator.Done {
			return nil, goerr.Wrap(model.ErrServiceUnavailable, "model evaluation returned no rows")
		}
		return nil, goerr.Wrap(model.ErrServiceUnavailable, "failed to read evaluation row", goerr.V("cause", err))
	}

	return &model.TrainingMetrics{
		Recall:    row.Recall,
		Precision: row.Precision,
		F1:        row.F1,
	}, nil
}

func (m *BigQueryModel) trainingRowCount(ctx context.Context) (int64, error) {
	q := m.client.Query(fmt.Sprintf(`SELECT COUNT(*) AS total FROM %s`, m.tableID()))
	it, err := q.Read(ctx)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count training rows")
	}

	var row struct {
		Total int64 `bigquery:"total"`
	}
	if err := it.Next(&row); err != nil {
		return 0, goerr.Wrap(err, "failed to read training row count")
	}
	return row.Total, nil
}
