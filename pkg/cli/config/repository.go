package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/safesight-lab/safesight/pkg/domain/interfaces"
	"github.com/safesight-lab/safesight/pkg/repository/firestore"
	"github.com/safesight-lab/safesight/pkg/repository/memory"
	"github.com/safesight-lab/safesight/pkg/repository/sheet"
	"github.com/safesight-lab/safesight/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Repository holds CLI flags for record store backend configuration
type Repository struct {
	backend         string
	projectID       string
	databaseID      string
	bucket          string
	credentialsFile string
}

func (r *Repository) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repository-backend",
			Usage:       "Record store backend (firestore, sheet or memory)",
			Value:       "firestore",
			Sources:     cli.EnvVars("SAFESIGHT_REPOSITORY_BACKEND"),
			Destination: &r.backend,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Firestore Project ID (required for the firestore backend)",
			Sources:     cli.EnvVars("SAFESIGHT_FIRESTORE_PROJECT_ID"),
			Destination: &r.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore Database ID",
			Sources:     cli.EnvVars("SAFESIGHT_FIRESTORE_DATABASE_ID"),
			Destination: &r.databaseID,
		},
		&cli.StringFlag{
			Name:        "sheet-bucket",
			Usage:       "Cloud Storage bucket holding the CSV tables (required for the sheet backend)",
			Sources:     cli.EnvVars("SAFESIGHT_SHEET_BUCKET"),
			Destination: &r.bucket,
		},
		&cli.StringFlag{
			Name:        "sheet-credentials-file",
			Usage:       "Service account key file for the sheet backend",
			Sources:     cli.EnvVars("SAFESIGHT_SHEET_CREDENTIALS_FILE"),
			Destination: &r.credentialsFile,
		},
	}
}

// Backend returns the configured backend type
func (r *Repository) Backend() string {
	return r.backend
}

// ProjectID returns the Firestore project ID
func (r *Repository) ProjectID() string {
	return r.projectID
}

// DatabaseID returns the Firestore database ID
func (r *Repository) DatabaseID() string {
	return r.databaseID
}

// Configure initializes the record store. The caller owns Close().
func (r *Repository) Configure(ctx context.Context) (interfaces.Repository, error) {
	switch r.backend {
	case "firestore":
		if r.projectID == "" {
			return nil, goerr.New("firestore-project-id is required when using firestore backend")
		}
		repo, err := firestore.New(ctx, r.projectID, r.databaseID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize firestore repository")
		}
		logging.Default().Info("Using Firestore record store",
			"project_id", r.projectID,
			"database_id", r.databaseID,
		)
		return repo, nil

	case "sheet":
		var opts []sheet.Option
		if r.credentialsFile != "" {
			opts = append(opts, sheet.WithCredentialsFile(r.credentialsFile))
		}
		repo, err := sheet.New(ctx, r.bucket, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize sheet repository")
		}
		logging.Default().Info("Using CSV sheet record store", "bucket", r.bucket)
		return repo, nil

	case "memory":
		logging.Default().Info("Using in-memory record store (development mode)")
		return memory.New(), nil

	default:
		return nil, goerr.New("invalid repository backend", goerr.V("backend", r.backend))
	}
}
