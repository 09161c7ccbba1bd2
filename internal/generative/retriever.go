// Package generative implements the retrieval-augmented extraction strategy:
// category-specific queries retrieve indexed chunks, a generative model turns
// them into structured JSON, and a tolerant parser normalizes the output.
package generative

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/intel-engine/internal/category"
	"github.com/sells-group/intel-engine/internal/embed"
	"github.com/sells-group/intel-engine/internal/vectorindex"
)

// DefaultTopK is the number of chunks retrieved per category.
const DefaultTopK = 5

// Retriever answers category queries against the per-run vector index.
type Retriever struct {
	provider embed.Provider
	index    vectorindex.Index
	topK     int
}

// NewRetriever binds a retriever to a populated index.
func NewRetriever(provider embed.Provider, index vectorindex.Index, topK int) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{provider: provider, index: index, topK: topK}
}

// Retrieve embeds the category's fixed query and returns the top chunks at or
// above the index similarity floor.
func (r *Retriever) Retrieve(ctx context.Context, def category.Definition, entity, objective string) ([]vectorindex.Match, error) {
	query := fillTemplate(def.Query, entity, "", objective)

	vectors, err := r.provider.Embed(ctx, []string{query})
	if err != nil {
		return nil, eris.Wrap(err, "retrieve: embed query")
	}

	matches, err := r.index.Query(ctx, vectors[0], r.topK)
	if err != nil {
		return nil, eris.Wrapf(err, "retrieve: query index for %s", def.Category)
	}
	return matches, nil
}

// fillTemplate substitutes the {entity}, {context} and {objective}
// placeholders used by queries and prompt templates.
func fillTemplate(tpl, entity, contextBlock, objective string) string {
	out := strings.NewReplacer(
		"{entity}", entity,
		"{context}", contextBlock,
		"{objective}", objective,
	).Replace(tpl)
	return strings.TrimSpace(out)
}

// contextBlock concatenates retrieved chunks with their source titles into
// the excerpt block injected into prompts.
func contextBlock(matches []vectorindex.Match) string {
	var b strings.Builder
	for _, m := range matches {
		b.WriteString("--- Source: ")
		b.WriteString(m.Chunk.SourceTitle)
		b.WriteString(" ---\n")
		b.WriteString(m.Chunk.Text)
		b.WriteString("\n\n")
	}
	return strings.TrimSpace(b.String())
}
