// Package vectorindex stores embedded text chunks for one extraction run and
// answers k-nearest-neighbor queries by cosine similarity. Two behaviorally
// interchangeable backends exist: a Redis Stack (RediSearch HNSW) index and
// an exact in-memory index.
package vectorindex

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/intel-engine/internal/model"
)

// SimilarityFloor is the minimum cosine similarity for a match to count.
const SimilarityFloor = 0.2

// ErrBackend marks a distributed-backend failure (unreachable server,
// vanished collection). The engine recovers once per run by re-running
// against the in-memory backend.
var ErrBackend = eris.New("vector backend failure")

// Match is one query result.
type Match struct {
	Chunk      model.TextChunk
	Similarity float64
}

// Index is the per-run chunk store. Writes complete before any reads; reads
// are safe for concurrent use.
type Index interface {
	// Insert adds chunks with pre-computed normalized embeddings.
	Insert(ctx context.Context, chunks []model.TextChunk) error
	// Query returns up to k matches with similarity >= SimilarityFloor,
	// descending.
	Query(ctx context.Context, vector []float32, k int) ([]Match, error)
	// Backend names the backend for run metadata ("redis" or "memory").
	Backend() string
	// Close releases per-run resources (drops the run's collection).
	Close(ctx context.Context) error
}

// Config selects and configures the backend.
type Config struct {
	RedisAddr     string
	RedisPassword string
}

// Open returns a ready Index for one run: the Redis backend if an address is
// configured and reachable, otherwise the in-memory backend.
func Open(ctx context.Context, cfg Config, dimension int) (Index, error) {
	if cfg.RedisAddr != "" {
		idx, err := OpenRedis(ctx, cfg, dimension)
		if err == nil {
			return idx, nil
		}
		zapWarnFallback(err)
	}
	return NewMemory(dimension), nil
}
