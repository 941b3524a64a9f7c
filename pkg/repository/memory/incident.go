package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/safesight-lab/safesight/pkg/domain/model"
	"github.com/safesight-lab/safesight/pkg/domain/types"
)

type incidentRepository struct {
	mu        sync.RWMutex
	incidents []*model.Incident
	byCaseID  map[types.CaseID]int
	nextSeq   int64
}

func newIncidentRepository() *incidentRepository {
	return &incidentRepository{
		byCaseID: make(map[types.CaseID]int),
		nextSeq:  1,
	}
}

func copyIncident(i *model.Incident) *model.Incident {
	copied := *i
	return &copied
}

func (r *incidentRepository) List(ctx context.Context) ([]*model.Incident, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.Incident, len(r.incidents))
	for i, incident := range r.incidents {
		out[i] = copyIncident(incident)
	}
	return out, nil
}

func (r *incidentRepository) Get(ctx context.Context, id types.CaseID) (*model.Incident, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byCaseID[id]
	if !ok {
		return nil, goerr.Wrap(model.ErrIncidentNotFound, "no such case", goerr.V("case_id", id))
	}
	return copyIncident(r.incidents[idx]), nil
}

func (r *incidentRepository) Append(ctx context.Context, incident *model.Incident) (*model.Incident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyIncident(incident)
	if created.CaseID == "" {
		created.CaseID = types.NewCaseID(r.nextSeq)
	} else {
		if _, exists := r.byCaseID[created.CaseID]; exists {
			return nil, goerr.New("duplicate case ID", goerr.V("case_id", created.CaseID))
		}
		// Keep the counter ahead of explicitly assigned IDs
		var seq int64
		if _, err := fmt.Sscanf(created.CaseID.String(), "CASE-%d", &seq); err == nil && seq >= r.nextSeq {
			r.nextSeq = seq
		}
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	r.byCaseID[created.CaseID] = len(r.incidents)
	r.incidents = append(r.incidents, created)
	r.nextSeq++

	return copyIncident(created), nil
}
