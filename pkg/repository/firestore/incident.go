package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/safesight-lab/safesight/pkg/domain/model"
	"github.com/safesight-lab/safesight/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// incidentDoc is the Firestore document representation of model.Incident
type incidentDoc struct {
	CaseID                string    `firestore:"case_id"`
	Seq                   int64     `firestore:"seq"`
	Title                 string    `firestore:"title"`
	Category              string    `firestore:"category"`
	RiskLevel             string    `firestore:"risk_level"`
	Setting               string    `firestore:"setting"`
	Date                  string    `firestore:"date"`
	Location              string    `firestore:"location"`
	InjuryCategory        string    `firestore:"injury_category"`
	Severity              string    `firestore:"severity"`
	PrimaryClassification string    `firestore:"primary_classification"`
	WhatHappened          string    `firestore:"what_happened"`
	WhatCouldHaveHappened string    `firestore:"what_could_have_happened"`
	WhyDidItHappen        string    `firestore:"why_did_it_happen"`
	CausalFactors         string    `firestore:"causal_factors"`
	WhatWentWell          string    `firestore:"what_went_well"`
	LessonsToPrevent      string    `firestore:"lessons_to_prevent"`
	CreatedAt             time.Time `firestore:"created_at"`
}

func toIncidentDoc(i *model.Incident, seq int64) *incidentDoc {
	return &incidentDoc{
		CaseID:                i.CaseID.String(),
		Seq:                   seq,
		Title:                 i.Title,
		Category:              i.Category,
		RiskLevel:             i.RiskLevel.String(),
		Setting:               i.Setting,
		Date:                  i.Date,
		Location:              i.Location,
		InjuryCategory:        i.InjuryCategory.String(),
		Severity:              i.Severity.String(),
		PrimaryClassification: i.PrimaryClassification,
		WhatHappened:          i.WhatHappened,
		WhatCouldHaveHappened: i.WhatCouldHaveHappened,
		WhyDidItHappen:        i.WhyDidItHappen,
		CausalFactors:         i.CausalFactors,
		WhatWentWell:          i.WhatWentWell,
		LessonsToPrevent:      i.LessonsToPrevent,
		CreatedAt:             i.CreatedAt,
	}
}

func fromIncidentDoc(d *incidentDoc) *model.Incident {
	return &model.Incident{
		CaseID:                types.CaseID(d.CaseID),
		Title:                 d.Title,
		Category:              d.Category,
		RiskLevel:             types.RiskLevel(d.RiskLevel),
		Setting:               d.Setting,
		Date:                  d.Date,
		Location:              d.Location,
		InjuryCategory:        types.InjuryCategory(d.InjuryCategory),
		Severity:              types.Severity(d.Severity),
		PrimaryClassification: d.PrimaryClassification,
		WhatHappened:          d.WhatHappened,
		WhatCouldHaveHappened: d.WhatCouldHaveHappened,
		WhyDidItHappen:        d.WhyDidItHappen,
		CausalFactors:         d.CausalFactors,
		WhatWentWell:          d.WhatWentWell,
		LessonsToPrevent:      d.LessonsToPrevent,
		CreatedAt:             d.CreatedAt,
	}
}

type incidentRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newIncidentRepository(client *firestore.Client) *incidentRepository {
	return &incidentRepository{client: client}
}

func (r *incidentRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_incidents"
	}
	return "incidents"
}

func (r *incidentRepository) counterCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_counters"
	}
	return "counters"
}

func (r *incidentRepository) nextSeq(ctx context.Context) (int64, error) {
	counterRef := r.client.Collection(r.counterCollection()).Doc("case_counter")

	var next int64
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(counterRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				next = 1
				return tx.Set(counterRef, map[string]interface{}{
					"value": next,
				})
			}
			return goerr.Wrap(err, "failed to get case counter")
		}

		currentValue, err := doc.DataAt("value")
		if err != nil {
			return goerr.Wrap(err, "failed to get counter value")
		}

		val, ok := currentValue.(int64)
		if !ok {
			return goerr.New("counter value is not of type int64", goerr.V("value", currentValue))
		}
		next = val + 1
		return tx.Update(counterRef, []firestore.Update{
			{Path: "value", Value: next},
		})
	})
	if err != nil {
		return 0, goerr.Wrap(err, "failed to allocate case sequence")
	}

	return next, nil
}

func (r *incidentRepository) List(ctx context.Context) ([]*model.Incident, error) {
	iter := r.client.Collection(r.collection()).OrderBy("seq", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var incidents []*model.Incident
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate incidents")
		}

		var d incidentDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to decode incident", goerr.V("doc", doc.Ref.ID))
		}
		incidents = append(incidents, fromIncidentDoc(&d))
	}
	return incidents, nil
}

func (r *incidentRepository) Get(ctx context.Context, id types.CaseID) (*model.Incident, error) {
	doc, err := r.client.Collection(r.collection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrIncidentNotFound, "no such case", goerr.V("case_id", id))
		}
		return nil, goerr.Wrap(err, "failed to get incident", goerr.V("case_id", id))
	}

	var d incidentDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to decode incident", goerr.V("case_id", id))
	}
	return fromIncidentDoc(&d), nil
}

func (r *incidentRepository) Append(ctx context.Context, incident *model.Incident) (*model.Incident, error) {
	created := *incident
	var seq int64

	if created.CaseID == "" {
		n, err := r.nextSeq(ctx)
		if err != nil {
			return nil, err
		}
		seq = n
		created.CaseID = types.NewCaseID(seq)
	} else {
		// Preserve list ordering for rows that arrive with an ID
		_, _ = fmt.Sscanf(created.CaseID.String(), "CASE-%d", &seq)
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	ref := r.client.Collection(r.collection()).Doc(created.CaseID.String())
	if _, err := ref.Create(ctx, toIncidentDoc(&created, seq)); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil, goerr.New("duplicate case ID", goerr.V("case_id", created.CaseID))
		}
		return nil, goerr.Wrap(err, "failed to append incident", goerr.V("case_id", created.CaseID))
	}

	return &created, nil
}
