package lexical

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/intel-engine/internal/category"
	"github.com/sells-group/intel-engine/internal/embed"
	"github.com/sells-group/intel-engine/internal/model"
)

// bagEmbedder is a deterministic bag-of-words embedder: each token increments
// a hashed bin, the result is L2-normalized. Token overlap translates into
// cosine similarity, which is all the lexical scorer needs.
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

// cannedEmbedder returns pre-assigned vectors, failing on unknown texts.
type cannedEmbedder struct{ vectors map[string][]float32 }

func (c cannedEmbedder) Dimension() int { return 3 }

func (c cannedEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, ok := c.vectors[t]
		if !ok {
			return nil, fmt.Errorf("no canned vector for %q", t)
		}
		out[i] = v
	}
	return out, nil
}

func TestExtractDescription(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	doc := model.SourceDocument{
		Title: "About",
		Body: "Acme Corp is a telecommunications company offering mobile services. " +
			"The weather was unusually pleasant throughout the whole spring.",
	}

	extractor := New(bagEmbedder{dim: 256}, "Acme Corp")
	items, err := extractor.Extract(ctx, doc, model.CategoryDescription)
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, model.CategoryDescription, items[0].Category)
	assert.Equal(t, "Acme Corp is a telecommunications company offering mobile services.", items[0].Text)
	assert.Equal(t, model.ConfidenceHigh, items[0].Confidence, "early defining sentence collects position and phrase boosts")
	assert.Equal(t, 1, items[0].Mentions)
}

func TestExtractDescriptionRequiresEntityMention(t *testing.T) {
	t.Parallel()

	// High-similarity defining sentence about a different company.
	doc := model.SourceDocument{
		Title: "About",
		Body:  "Globex is a telecommunications company offering mobile and broadband services.",
	}

	extractor := New(bagEmbedder{dim: 256}, "Acme Corp")
	items, err := extractor.Extract(context.Background(), doc, model.CategoryDescription)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestExtractWeakness(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	doc := model.SourceDocument{
		Title: "Report",
		Body: "The company struggles with declining subscriber numbers and high customer churn rates. " +
			"Revenue grew strongly and the company exceeded its declining churn targets this quarter.",
	}

	extractor := New(bagEmbedder{dim: 256}, "Acme Corp")
	items, err := extractor.Extract(ctx, doc, model.CategoryWeakness)
	require.NoError(t, err)

	require.Len(t, items, 1, "positive-outcome sentences are never weaknesses")
	assert.Equal(t, "The company struggles with declining subscriber numbers and high customer churn rates.", items[0].Text)
}

func TestExtractStrengthRejectsNegation(t *testing.T) {
	t.Parallel()

	doc := model.SourceDocument{
		Title: "Report",
		Body:  "The company holds a strong market leadership position but margins are not improving at all.",
	}

	extractor := New(bagEmbedder{dim: 256}, "Acme Corp")
	items, err := extractor.Extract(context.Background(), doc, model.CategoryStrength)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestExtractAdaptiveRetry(t *testing.T) {
	t.Parallel()

	// One valid strength sentence scoring between the lowered threshold
	// (0.40) and the normal one (0.50): rejected on the first pass, accepted
	// on the retry.
	sentence := "Its extensive partner ecosystem supports customers across many regions worldwide."
	def, ok := category.Lookup(model.CategoryStrength)
	require.True(t, ok)

	vectors := map[string][]float32{
		sentence: {0.45, 0.893028, 0},
	}
	for _, ex := range def.Exemplars {
		vectors[ex] = []float32{1, 0, 0}
	}

	extractor := New(cannedEmbedder{vectors: vectors}, "Acme Corp")
	items, err := extractor.Extract(context.Background(), model.SourceDocument{Title: "About", Body: sentence}, model.CategoryStrength)
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.InDelta(t, 0.45, items[0].Score, 1e-6)
	assert.Equal(t, model.ConfidenceLow, items[0].Confidence)
}

func TestExtractConcurrentCategories(t *testing.T) {
	t.Parallel()

	// One shared extractor serving every category at once, the way the
	// engine fans out. The lazily filled exemplar cache must stay safe.
	doc := model.SourceDocument{
		Title: "About",
		Body: "Acme Corp is a telecommunications company offering mobile services. " +
			"The company struggles with declining subscriber numbers and high customer churn rates. " +
			"The chief executive officer has led the company since 2015.",
	}
	extractor := New(bagEmbedder{dim: 256}, "Acme Corp")

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(4)
	for _, cat := range model.Categories() {
		g.Go(func() error {
			_, err := extractor.Extract(ctx, doc, cat)
			return err
		})
	}
	require.NoError(t, g.Wait())
}

func TestExtractNoSentences(t *testing.T) {
	t.Parallel()

	extractor := New(bagEmbedder{dim: 256}, "Acme Corp")
	items, err := extractor.Extract(context.Background(), model.SourceDocument{Title: "Empty"}, model.CategoryStrength)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestExtractUnknownCategory(t *testing.T) {
	t.Parallel()

	extractor := New(bagEmbedder{dim: 256}, "Acme Corp")
	_, err := extractor.Extract(context.Background(), model.SourceDocument{Body: "Some body text here."}, model.Category("sentiment"))
	assert.Error(t, err)
}

func TestFilterByThresholdMonotonic(t *testing.T) {
	t.Parallel()

	candidates := []scored{
		{sentence: "a", score: 0.45},
		{sentence: "b", score: 0.55},
		{sentence: "c", score: 0.65},
	}

	strict := filterByThreshold(candidates, 0.52)
	relaxed := filterByThreshold(candidates, 0.42)

	require.Len(t, strict, 2)
	require.Len(t, relaxed, 3)
	// Lowering the threshold only adds candidates.
	assert.Subset(t, relaxed, strict)
}

func TestEntityAliases(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"Acme Corp", "acme corp", "Acme", "acme"}, entityAliases("Acme Corp"))
	assert.Equal(t, []string{"Acme", "acme"}, entityAliases("Acme"))
	assert.Empty(t, entityAliases("  "))
}
