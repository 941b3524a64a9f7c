package config

import (
	"context"

	"cloud.google.com/go/bigquery"
	"github.com/m-mizutani/goerr/v2"
	"github.com/safesight-lab/safesight/pkg/domain/interfaces"
	"github.com/safesight-lab/safesight/pkg/service/severity"
	"github.com/safesight-lab/safesight/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Severity holds CLI flags for the BigQuery ML severity classifier
type Severity struct {
	projectID string
	dataset   string
	table     string
	model     string
}

func (s *Severity) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "bigquery-project-id",
			Usage:       "BigQuery project ID (severity prediction disabled when empty)",
			Sources:     cli.EnvVars("SAFESIGHT_BIGQUERY_PROJECT_ID"),
			Destination: &s.projectID,
		},
		&cli.StringFlag{
			Name:        "bigquery-dataset",
			Usage:       "BigQuery dataset holding the severity training table and model",
			Value:       "safesight",
			Sources:     cli.EnvVars("SAFESIGHT_BIGQUERY_DATASET"),
			Destination: &s.dataset,
		},
		&cli.StringFlag{
			Name:        "bigquery-table",
			Usage:       "Severity training table name",
			Value:       "severity_training",
			Sources:     cli.EnvVars("SAFESIGHT_BIGQUERY_TABLE"),
			Destination: &s.table,
		},
		&cli.StringFlag{
			Name:        "bigquery-model",
			Usage:       "Severity model name",
			Value:       "severity_model",
			Sources:     cli.EnvVars("SAFESIGHT_BIGQUERY_MODEL"),
			Destination: &s.model,
		},
	}
}

// Configure creates the severity model client. Returns nil when no project
// is configured; severity features are then disabled.
func (s *Severity) Configure(ctx context.Context) (interfaces.SeverityModel, func(), error) {
	if s.projectID == "" {
		logging.Default().Info("BigQuery project not configured, severity prediction disabled")
		return nil, func() {}, nil
	}

	client, err := bigquery.NewClient(ctx, s.projectID)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to create BigQuery client", goerr.V("project_id", s.projectID))
	}

	m := severity.NewBigQuery(client, s.dataset,
		severity.WithTable(s.table),
		severity.WithModel(s.model),
	)
	closer := func() {
		if err := client.Close(); err != nil {
			logging.Default().Error("failed to close BigQuery client", "error", err.Error())
		}
	}

	logging.Default().Info("Using BigQuery severity model",
		"project_id", s.projectID,
		"dataset", s.dataset,
		"model", s.model,
	)
	return m, closer, nil
}
