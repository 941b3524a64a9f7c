package memory

import (
	"context"
	"sync"
	"time"

	"github.com/safesight-lab/safesight/pkg/domain/model"
)

type actionRepository struct {
	mu      sync.RWMutex
	actions []*model.CorrectiveAction
}

func newActionRepository() *actionRepository {
	return &actionRepository{}
}

func copyAction(a *model.CorrectiveAction) *model.CorrectiveAction {
	copied := *a
	return &copied
}

func (r *actionRepository) List(ctx context.Context) ([]*model.CorrectiveAction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.CorrectiveAction, len(r.actions))
	for i, action := range r.actions {
		out[i] = copyAction(action)
	}
	return out, nil
}

func (r *actionRepository) Append(ctx context.Context, actions []*model.CorrectiveAction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for _, action := range actions {
		created := copyAction(action)
		if created.CreatedAt.IsZero() {
			created.CreatedAt = now
		}
		r.actions = append(r.actions, created)
	}
	return nil
}
