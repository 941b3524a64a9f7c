// Package sheet is a spreadsheet-style record store: each table is one CSV
// object in a Cloud Storage bucket. Appending a row reads the whole object,
// adds the row and writes the whole object back, so concurrent writers are
// last-write-wins. This mirrors the original file-based persistence protocol
// and is an accepted limitation at the intended deployment scale.
package sheet

import (
	"context"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/safesight-lab/safesight/pkg/domain/interfaces"
	"google.golang.org/api/option"
)

const (
	incidentsObject = "base_reports.csv"
	actionsObject   = "actions.csv"
)

type Sheet struct {
	client   *storage.Client
	incident *incidentRepository
	action   *actionRepository
}

var _ interfaces.Repository = &Sheet{}

type Option func(*options)

type options struct {
	clientOptions []option.ClientOption
}

// WithCredentialsFile authenticates the storage client with a service
// account key file instead of application default credentials
func WithCredentialsFile(path string) Option {
	return func(o *options) {
		o.clientOptions = append(o.clientOptions, option.WithCredentialsFile(path))
	}
}

func New(ctx context.Context, bucketName string, opts ...Option) (*Sheet, error) {
	if bucketName == "" {
		return nil, goerr.New("bucket name is required")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	client, err := storage.NewClient(ctx, o.clientOptions...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client", goerr.V("bucket", bucketName))
	}

	bucket := client.Bucket(bucketName)
	return &Sheet{
		client:   client,
		incident: &incidentRepository{table: &table{bucket: bucket, object: incidentsObject}},
		action:   &actionRepository{table: &table{bucket: bucket, object: actionsObject}},
	}, nil
}

func (s *Sheet) Incident() interfaces.IncidentRepository {
	return s.incident
}

func (s *Sheet) Action() interfaces.ActionRepository {
	return s.action
}

func (s *Sheet) Close() error {
	return s.client.Close()
}
