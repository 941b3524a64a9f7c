package interfaces

import (
	"context"

	"github.com/safesight-lab/safesight/pkg/domain/model"
	"github.com/safesight-lab/safesight/pkg/domain/types"
)

// Repository is the record store: two append-only tabular datasets keyed by
// case ID. The persistence protocol is read-all and append-row only; there
// are no partial writes and no transactions across tables.
type Repository interface {
	Incident() IncidentRepository
	Action() ActionRepository
	Close() error
}

// IncidentRepository manages incident report rows
type IncidentRepository interface {
	// List returns all incidents in insertion order
	List(ctx context.Context) ([]*model.Incident, error)
	// Get returns the incident with the given case ID, or
	// model.ErrIncidentNotFound
	Get(ctx context.Context, id types.CaseID) (*model.Incident, error)
	// Append stores a new incident. When the incident carries no case ID,
	// the repository assigns the next monotonic CASE-### identifier. The
	// stored record is returned.
	Append(ctx context.Context, incident *model.Incident) (*model.Incident, error)
}

// ActionRepository manages corrective action rows
type ActionRepository interface {
	// List returns all corrective actions in insertion order
	List(ctx context.Context) ([]*model.CorrectiveAction, error)
	// Append stores new corrective action rows
	Append(ctx context.Context, actions []*model.CorrectiveAction) error
}
