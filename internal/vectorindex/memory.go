package vectorindex

import (
	"context"
	"sort"
	"sync"

	"github.com/rotisserie/eris"

	"github.com/sells-group/intel-engine/internal/embed"
	"github.com/sells-group/intel-engine/internal/model"
)

// Memory is the in-memory fallback backend: exact cosine similarity over the
// stacked chunk vectors. Vectors are assumed L2-normalized, so similarity is
// a plain dot product.
type Memory struct {
	mu        sync.RWMutex
	dimension int
	chunks    []model.TextChunk
}

// NewMemory creates an empty in-memory index for vectors of the given dimension.
func NewMemory(dimension int) *Memory {
	return &Memory{dimension: dimension}
}

// Backend implements Index.
func (m *Memory) Backend() string { return "memory" }

// Insert implements Index.
func (m *Memory) Insert(_ context.Context, chunks []model.TextChunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range chunks {
		if len(c.Embedding) != m.dimension {
			return eris.Errorf("memory index: vector dimension %d, want %d", len(c.Embedding), m.dimension)
		}
	}
	m.chunks = append(m.chunks, chunks...)
	return nil
}

// Query implements Index.
func (m *Memory) Query(_ context.Context, vector []float32, k int) ([]Match, error) {
	if k <= 0 {
		return nil, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	matches := make([]Match, 0, len(m.chunks))
	for _, c := range m.chunks {
		sim := embed.Dot(c.Embedding, vector)
		if sim < SimilarityFloor {
			continue
		}
		matches = append(matches, Match{Chunk: c, Similarity: sim})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// Close implements Index. Dropping the matrix is a no-op beyond GC.
func (m *Memory) Close(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks = nil
	return nil
}
