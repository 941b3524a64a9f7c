package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/safesight-lab/safesight/pkg/domain/model"
	"github.com/safesight-lab/safesight/pkg/domain/types"
	"google.golang.org/api/iterator"
)

// actionDoc is the Firestore document representation of model.CorrectiveAction
type actionDoc struct {
	CaseID       string    `firestore:"case_id"`
	Action       string    `firestore:"action"`
	Owner        string    `firestore:"owner"`
	Timing       string    `firestore:"timing"`
	Verification string    `firestore:"verification"`
	CreatedAt    time.Time `firestore:"created_at"`
}

type actionRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newActionRepository(client *firestore.Client) *actionRepository {
	return &actionRepository{client: client}
}

func (r *actionRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_actions"
	}
	return "actions"
}

func (r *actionRepository) List(ctx context.Context) ([]*model.CorrectiveAction, error) {
	iter := r.client.Collection(r.collection()).OrderBy("created_at", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var actions []*model.CorrectiveAction
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate actions")
		}

		var d actionDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to decode action", goerr.V("doc", doc.Ref.ID))
		}
		actions = append(actions, &model.CorrectiveAction{
			CaseID:       types.CaseID(d.CaseID),
			Action:       d.Action,
			Owner:        d.Owner,
			Timing:       d.Timing,
			Verification: d.Verification,
			CreatedAt:    d.CreatedAt,
		})
	}
	return actions, nil
}

func (r *actionRepository) Append(ctx context.Context, actions []*model.CorrectiveAction) error {
	if len(actions) == 0 {
		return nil
	}

	bw := r.client.BulkWriter(ctx)
	now := time.Now().UTC()
	for _, action := range actions {
		createdAt := action.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		ref := r.client.Collection(r.collection()).NewDoc()
		if _, err := bw.Create(ref, &actionDoc{
			CaseID:       action.CaseID.String(),
			Action:       action.Action,
			Owner:        action.Owner,
			Timing:       action.Timing,
			Verification: action.Verification,
			CreatedAt:    createdAt,
		}); err != nil {
			return goerr.Wrap(err, "failed to enqueue action write", goerr.V("case_id", action.CaseID))
		}
	}
	bw.End()

	return nil
}
