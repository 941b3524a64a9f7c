package index

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/safesight-lab/safesight/pkg/domain/interfaces"
	"github.com/safesight-lab/safesight/pkg/domain/model"
	"github.com/safesight-lab/safesight/pkg/domain/types"
)

// MemoryIndex is an in-process vector index for development and tests.
// Query ranks by cosine similarity; ties keep insertion order.
type MemoryIndex struct {
	mu    sync.RWMutex
	docs  map[types.CaseID]*model.Document
	order []types.CaseID
}

var _ interfaces.VectorIndex = &MemoryIndex{}

func NewMemory() *MemoryIndex {
	return &MemoryIndex{
		docs: make(map[types.CaseID]*model.Document),
	}
}

func (m *MemoryIndex) Index(ctx context.Context, docs []*model.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, doc := range docs {
		copied := *doc
		copied.Embedding = append([]float32{}, doc.Embedding...)
		if _, exists := m.docs[doc.CaseID]; !exists {
			m.order = append(m.order, doc.CaseID)
		}
		m.docs[doc.CaseID] = &copied
	}
	return nil
}

func (m *MemoryIndex) Query(ctx context.Context, embedding []float32, n int) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	type scored struct {
		text  string
		score float64
		pos   int
	}

	candidates := make([]scored, 0, len(m.order))
	for pos, id := range m.order {
		doc := m.docs[id]
		candidates = append(candidates, scored{
			text:  doc.Text,
			score: cosineSimilarity(embedding, doc.Embedding),
			pos:   pos,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if n > len(candidates) {
		n = len(candidates)
	}
	result := make([]string, n)
	for i := 0; i < n; i++ {
		result[i] = candidates[i].text
	}
	return result, nil
}

func (m *MemoryIndex) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.order), nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
