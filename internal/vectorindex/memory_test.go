package vectorindex

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/intel-engine/internal/model"
)

func memoryFixture(t *testing.T) *Memory {
	t.Helper()
	m := NewMemory(3)
	err := m.Insert(context.Background(), []model.TextChunk{
		{Text: "exact match", Embedding: []float32{1, 0, 0}},
		{Text: "close match", Embedding: []float32{0.9, 0.435889894, 0}},
		{Text: "orthogonal", Embedding: []float32{0, 1, 0}},
		{Text: "opposite", Embedding: []float32{-1, 0, 0}},
	})
	require.NoError(t, err)
	return m
}

func TestMemoryQuery(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("orders by similarity descending", func(t *testing.T) {
		t.Parallel()
		matches, err := memoryFixture(t).Query(ctx, []float32{1, 0, 0}, 10)
		require.NoError(t, err)
		require.Len(t, matches, 2)
		assert.Equal(t, "exact match", matches[0].Chunk.Text)
		assert.Equal(t, "close match", matches[1].Chunk.Text)
		assert.Greater(t, matches[0].Similarity, matches[1].Similarity)
	})

	t.Run("excludes matches below the floor", func(t *testing.T) {
		t.Parallel()
		matches, err := memoryFixture(t).Query(ctx, []float32{1, 0, 0}, 10)
		require.NoError(t, err)
		for _, m := range matches {
			assert.GreaterOrEqual(t, m.Similarity, SimilarityFloor)
		}
	})

	t.Run("truncates to k", func(t *testing.T) {
		t.Parallel()
		matches, err := memoryFixture(t).Query(ctx, []float32{1, 0, 0}, 1)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "exact match", matches[0].Chunk.Text)
	})

	t.Run("non-positive k yields nothing", func(t *testing.T) {
		t.Parallel()
		matches, err := memoryFixture(t).Query(ctx, []float32{1, 0, 0}, 0)
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("empty index yields nothing", func(t *testing.T) {
		t.Parallel()
		matches, err := NewMemory(3).Query(ctx, []float32{1, 0, 0}, 5)
		require.NoError(t, err)
		assert.Empty(t, matches)
	})
}

func TestMemoryInsertRejectsWrongDimension(t *testing.T) {
	t.Parallel()

	m := NewMemory(3)
	err := m.Insert(context.Background(), []model.TextChunk{
		{Text: "bad", Embedding: []float32{1, 0}},
	})
	assert.Error(t, err)
}

func TestMemoryBackendAndClose(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m := memoryFixture(t)
	assert.Equal(t, "memory", m.Backend())

	require.NoError(t, m.Close(ctx))
	matches, err := m.Query(ctx, []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, matches)
}
