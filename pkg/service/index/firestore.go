package index

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"github.com/m-mizutani/goerr/v2"
	"github.com/safesight-lab/safesight/pkg/domain/interfaces"
	"github.com/safesight-lab/safesight/pkg/domain/model"
	"google.golang.org/api/iterator"
)

// FirestoreIndex is the production vector index: one document per incident
// with a firestore.Vector32 embedding, queried with FindNearest over cosine
// distance. Requires the vector index provisioned by the migrate command.
type FirestoreIndex struct {
	client     *firestore.Client
	collection string
}

var _ interfaces.VectorIndex = &FirestoreIndex{}

type FirestoreOption func(*FirestoreIndex)

// WithCollection overrides the default collection name
func WithCollection(name string) FirestoreOption {
	return func(f *FirestoreIndex) {
		f.collection = name
	}
}

func NewFirestore(client *firestore.Client, opts ...FirestoreOption) *FirestoreIndex {
	f := &FirestoreIndex{
		client:     client,
		collection: "incident_vectors",
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// vectorDoc is the Firestore document representation of model.Document
type vectorDoc struct {
	CaseID    string             `firestore:"case_id"`
	Text      string             `firestore:"text"`
	Embedding firestore.Vector32 `firestore:"embedding"`
	UpdatedAt time.Time          `firestore:"updated_at"`
}

func (f *FirestoreIndex) Index(ctx context.Context, docs []*model.Document) error {
	for _, doc := range docs {
		ref := f.client.Collection(f.collection).Doc(doc.CaseID.String())
		if _, err := ref.Set(ctx, &vectorDoc{
			CaseID:    doc.CaseID.String(),
			Text:      doc.Text,
			Embedding: firestore.Vector32(doc.Embedding),
			UpdatedAt: time.Now().UTC(),
		}); err != nil {
			return goerr.Wrap(err, "failed to index document", goerr.V("case_id", doc.CaseID))
		}
	}
	return nil
}

func (f *FirestoreIndex) Query(ctx context.Context, embedding []float32, n int) ([]string, error) {
	vq := f.client.Collection(f.collection).
		FindNearest("embedding", firestore.Vector32(embedding), n, firestore.DistanceMeasureCosine, nil)

	iter := vq.Documents(ctx)
	defer iter.Stop()

	texts := make([]string, 0, n)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate vector search results")
		}

		var d vectorDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to decode vector document", goerr.V("doc", doc.Ref.ID))
		}
		texts = append(texts, d.Text)
	}
	return texts, nil
}

func (f *FirestoreIndex) Count(ctx context.Context) (int, error) {
	results, err := f.client.Collection(f.collection).NewAggregationQuery().WithCount("total").Get(ctx)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count indexed documents")
	}

	value, ok := results["total"]
	if !ok {
		return 0, goerr.New("count aggregation returned no result")
	}
	count, ok := value.(*firestorepb.Value)
	if !ok {
		return 0, goerr.New("unexpected count aggregation type")
	}
	return int(count.GetIntegerValue()), nil
}
