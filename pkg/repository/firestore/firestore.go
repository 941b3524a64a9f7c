package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/safesight-lab/safesight/pkg/domain/interfaces"
)

// Firestore is the production record store backend. Incident and corrective
// action rows live in per-table collections; case IDs are assigned through a
// transactional counter.
type Firestore struct {
	client   *firestore.Client
	incident *incidentRepository
	action   *actionRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix namespaces all collections, mainly for tests sharing
// a database
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.incident.collectionPrefix = prefix
		f.action.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client", goerr.V("projectID", projectID))
	}

	f := &Firestore{
		client:   client,
		incident: newIncidentRepository(client),
		action:   newActionRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Incident() interfaces.IncidentRepository {
	return f.incident
}

func (f *Firestore) Action() interfaces.ActionRepository {
	return f.action
}

func (f *Firestore) Close() error {
	return f.client.Close()
}

// Client exposes the underlying firestore client so the vector index can
// share the connection
func (f *Firestore) Client() *firestore.Client {
	return f.client
}
