package engine

import (
	"context"
	"hash/fnv"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/intel-engine/internal/embed"
	"github.com/sells-group/intel-engine/internal/generative"
	"github.com/sells-group/intel-engine/internal/model"
	"github.com/sells-group/intel-engine/internal/vectorindex"
	"github.com/sells-group/intel-engine/pkg/anthropic"
)

// bagEmbedder is a deterministic bag-of-words embedder for tests.
type bagEmbedder struct{ dim int }

func (b bagEmbedder) Dimension() int { return b.dim }

func (b bagEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, b.dim)
		for _, tok := range strings.Fields(strings.ToLower(text)) {
			tok = strings.Trim(tok, ".,!?;:\"'()")
			if tok == "" {
				continue
			}
			h := fnv.New32a()
			_, _ = h.Write([]byte(tok))
			vec[int(h.Sum32()%uint32(b.dim))]++
		}
		out[i] = embed.Normalize(vec)
	}
	return out, nil
}

// emptyObjectClient answers every generative call with an empty JSON object.
type emptyObjectClient struct{}

func (emptyObjectClient) CreateMessage(context.Context, anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: "{}"}},
	}, nil
}

// brokenIndex simulates a distributed backend: configurable failure on insert
// or on query.
type brokenIndex struct {
	failInsert bool
	failQuery  bool
}

func (brokenIndex) Backend() string { return "redis" }
func (brokenIndex) Close(context.Context) error { return nil }

func (b brokenIndex) Insert(context.Context, []model.TextChunk) error {
	if b.failInsert {
		return eris.Wrap(vectorindex.ErrBackend, "insert")
	}
	return nil
}

func (b brokenIndex) Query(context.Context, []float32, int) ([]vectorindex.Match, error) {
	if b.failQuery {
		return nil, eris.Wrap(vectorindex.ErrBackend, "query")
	}
	return nil, nil
}

func testDocuments() []model.SourceDocument {
	return []model.SourceDocument{
		{
			Title: "About",
			URL:   "https://acme.example/about",
			Body: "Acme Corp is a telecommunications company offering mobile services. " +
				"The company struggles with declining subscriber numbers and high customer churn rates.",
		},
		{
			Title: "News",
			URL:   "https://acme.example/news",
			Body:  "Acme Corp is a telecommunications company offering mobile broadband services.",
		},
	}
}

func TestAnalyzeRequiresEntityName(t *testing.T) {
	t.Parallel()

	_, err := New(bagEmbedder{dim: 64}).Analyze(context.Background(), Request{})
	assert.Error(t, err)
}

func TestAnalyzeZeroDocuments(t *testing.T) {
	t.Parallel()

	profile, err := New(bagEmbedder{dim: 64}).Analyze(context.Background(), Request{EntityName: "Acme Corp"})
	require.NoError(t, err)

	assert.Equal(t, "Acme Corp", profile.EntityName)
	assert.Equal(t, 0, profile.TotalItems())
	assert.Equal(t, 0, profile.Metadata.DocumentsAnalyzed)
	assert.Equal(t, "none", profile.Metadata.VectorBackendUsed)
	assert.Equal(t, 0.0, profile.Metadata.AverageConfidence)
}

func TestAnalyzeLexicalOnly(t *testing.T) {
	t.Parallel()

	// No generator configured, so the default strategy set degrades to
	// lexical only.
	profile, err := New(bagEmbedder{dim: 256}).Analyze(context.Background(), Request{
		EntityName: "Acme Corp",
		Documents:  testDocuments(),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, profile.Metadata.DocumentsAnalyzed)
	assert.Equal(t, "none", profile.Metadata.VectorBackendUsed, "no vector index without the generative strategy")
	assert.Contains(t, profile.Description(), "Acme Corp is a telecommunications company")
	require.Len(t, profile.Items[model.CategoryDescription], 1, "near-duplicate descriptions merge, one survives synthesis")

	require.NotEmpty(t, profile.Items[model.CategoryWeakness])
	assert.Contains(t, profile.Items[model.CategoryWeakness][0].Text, "churn")

	assert.Greater(t, profile.Metadata.TotalItemsExtracted, 0)
	assert.Greater(t, profile.Metadata.AverageConfidence, 0.0)
	assert.GreaterOrEqual(t, profile.Metadata.DurationSeconds, 0.0)
}

func TestAnalyzeGenerativeUsesMemoryIndex(t *testing.T) {
	t.Parallel()

	eng := New(bagEmbedder{dim: 64},
		WithGenerator(emptyObjectClient{}, generative.Config{Model: "test-model"}),
	)
	profile, err := eng.Analyze(context.Background(), Request{
		EntityName: "Acme Corp",
		Documents:  testDocuments(),
		Strategies: Strategies{Generative: true},
	})
	require.NoError(t, err)

	assert.Equal(t, "memory", profile.Metadata.VectorBackendUsed)
	assert.Greater(t, profile.Metadata.ChunksCreated, 0)
}

// disjointEmbedder embeds the known document body orthogonally to every
// other text, so retrieval never clears the similarity floor.
type disjointEmbedder struct{ body string }

func (disjointEmbedder) Dimension() int { return 3 }

func (d disjointEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if text == d.body {
			out[i] = []float32{1, 0, 0}
		} else {
			out[i] = []float32{0, 1, 0}
		}
	}
	return out, nil
}

func TestAnalyzeRecordsEmptyCategoryReasons(t *testing.T) {
	t.Parallel()

	const body = "Tiny page body here."
	eng := New(disjointEmbedder{body: body},
		WithGenerator(emptyObjectClient{}, generative.Config{Model: "test-model"}),
	)

	profile, err := eng.Analyze(context.Background(), Request{
		EntityName: "Acme Corp",
		Documents:  []model.SourceDocument{{Title: "About", Body: body}},
		Strategies: Strategies{Generative: true},
	})
	require.NoError(t, err)

	require.Len(t, profile.Metadata.EmptyCategories, len(model.Categories()))
	for cat, reason := range profile.Metadata.EmptyCategories {
		assert.True(t, cat.Valid())
		assert.Equal(t, generative.EmptyNoContext, reason)
	}
}

func TestAnalyzeGenerativeOnlyRequiresGenerator(t *testing.T) {
	t.Parallel()

	_, err := New(bagEmbedder{dim: 64}).Analyze(context.Background(), Request{
		EntityName: "Acme Corp",
		Documents:  testDocuments(),
		Strategies: Strategies{Generative: true},
	})
	assert.Error(t, err)
}

func TestAnalyzeInsertFailureFallsBackToMemory(t *testing.T) {
	t.Parallel()

	opener := func(context.Context, vectorindex.Config, int) (vectorindex.Index, error) {
		return brokenIndex{failInsert: true}, nil
	}
	eng := New(bagEmbedder{dim: 64},
		WithGenerator(emptyObjectClient{}, generative.Config{Model: "test-model"}),
		WithIndexOpener(opener),
	)

	profile, err := eng.Analyze(context.Background(), Request{
		EntityName: "Acme Corp",
		Documents:  testDocuments(),
		Strategies: Strategies{Generative: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "memory", profile.Metadata.VectorBackendUsed)
}

func TestAnalyzeQueryFailureRetriesInMemory(t *testing.T) {
	t.Parallel()

	opener := func(context.Context, vectorindex.Config, int) (vectorindex.Index, error) {
		return brokenIndex{failQuery: true}, nil
	}
	eng := New(bagEmbedder{dim: 64},
		WithGenerator(emptyObjectClient{}, generative.Config{Model: "test-model"}),
		WithIndexOpener(opener),
	)

	profile, err := eng.Analyze(context.Background(), Request{
		EntityName: "Acme Corp",
		Documents:  testDocuments(),
		Strategies: Strategies{Generative: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "memory", profile.Metadata.VectorBackendUsed)
}

func TestStrategiesNormalized(t *testing.T) {
	t.Parallel()

	t.Run("zero value means both", func(t *testing.T) {
		t.Parallel()
		s := Strategies{}.normalized(true)
		assert.True(t, s.Lexical)
		assert.True(t, s.Generative)
	})

	t.Run("generative requires a generator", func(t *testing.T) {
		t.Parallel()
		s := Strategies{}.normalized(false)
		assert.True(t, s.Lexical)
		assert.False(t, s.Generative)
	})

	t.Run("explicit selection is kept", func(t *testing.T) {
		t.Parallel()
		s := Strategies{Lexical: true}.normalized(true)
		assert.True(t, s.Lexical)
		assert.False(t, s.Generative)
	})
}

func TestErrorClassifiers(t *testing.T) {
	t.Parallel()

	assert.True(t, IsModelUnavailable(eris.Wrap(embed.ErrModelUnavailable, "embed")))
	assert.True(t, IsModelUnavailable(eris.Wrap(generative.ErrModelUnavailable, "generate")))
	assert.True(t, IsVectorBackendFailure(eris.Wrap(vectorindex.ErrBackend, "query")))
	assert.False(t, IsModelUnavailable(eris.New("other")))
	assert.False(t, IsVectorBackendFailure(nil))
}
