package interfaces

import (
	"context"

	"github.com/safesight-lab/safesight/pkg/domain/model"
)

// VectorIndex stores (document, embedding) pairs and returns the documents
// nearest to a query embedding. Ranking and tie-break are index-defined.
type VectorIndex interface {
	// Index upserts documents keyed by case ID
	Index(ctx context.Context, docs []*model.Document) error
	// Query returns up to n document texts ranked by similarity to the
	// query embedding. n may be the full corpus size.
	Query(ctx context.Context, embedding []float32, n int) ([]string, error)
	// Count returns the number of indexed documents
	Count(ctx context.Context) (int, error)
}
