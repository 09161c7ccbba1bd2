// Package lexical implements the weak-supervision extraction strategy:
// candidate sentences are scored by embedding similarity to hand-built
// exemplars, boosted by keyword and phrase heuristics, and filtered by
// per-category validation rules. No generative model is involved.
package lexical

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/intel-engine/internal/category"
	"github.com/sells-group/intel-engine/internal/embed"
	"github.com/sells-group/intel-engine/internal/model"
	"github.com/sells-group/intel-engine/internal/segment"
)

const (
	keywordBoost    = 0.05
	keywordBoostCap = 0.15

	positionBoost       = 0.10
	definingPhraseBoost = 0.20

	// Adaptive retry: lower the threshold by retryStep down to retryFloor
	// when a category comes back too empty.
	retryStep  = 0.10
	retryFloor = 0.40
)

// Extractor scores document sentences against the category exemplar tables.
// It is pure CPU work over read-only tables plus embedding calls, so one
// instance is safe to share across documents and categories.
type Extractor struct {
	provider embed.Provider
	entity   string
	aliases  []string

	// exemplar vectors are computed once per category and reused; the mutex
	// keeps lazy fills safe when categories run concurrently.
	mu            sync.Mutex
	exemplarCache map[model.Category][][]float32
}

// New creates a lexical extractor for one entity.
func New(provider embed.Provider, entityName string) *Extractor {
	return &Extractor{
		provider:      provider,
		entity:        entityName,
		aliases:       entityAliases(entityName),
		exemplarCache: make(map[model.Category][][]float32),
	}
}

// scored pairs a sentence with its position and final boosted score.
type scored struct {
	sentence string
	position int
	score    float64
}

// Extract runs the lexical strategy for one document and category.
func (e *Extractor) Extract(ctx context.Context, doc model.SourceDocument, cat model.Category) ([]model.IntelligenceItem, error) {
	def, ok := category.Lookup(cat)
	if !ok {
		return nil, eris.Errorf("lexical: unknown category %q", cat)
	}

	sentences := segment.Sentences(doc.Body)
	if len(sentences) == 0 {
		return nil, nil
	}

	candidates, err := e.scoreSentences(ctx, sentences, def)
	if err != nil {
		return nil, err
	}

	threshold := def.Threshold
	accepted := filterByThreshold(candidates, threshold)

	// Adaptive retry: core categories that come back too empty get one pass
	// with a lowered threshold. The scores themselves are unchanged, so
	// lowering the threshold can only add candidates.
	if needsRetry(cat, len(accepted)) && threshold-retryStep >= retryFloor {
		lowered := threshold - retryStep
		zap.L().Debug("lexical: adaptive retry",
			zap.String("category", string(cat)),
			zap.String("document", doc.Title),
			zap.Float64("threshold", lowered),
		)
		accepted = filterByThreshold(candidates, lowered)
	}

	sort.SliceStable(accepted, func(i, j int) bool {
		return accepted[i].score > accepted[j].score
	})
	if len(accepted) > def.MaxItems {
		accepted = accepted[:def.MaxItems]
	}

	items := make([]model.IntelligenceItem, 0, len(accepted))
	for _, c := range accepted {
		items = append(items, model.NewItem(cat, c.sentence, c.score))
	}
	return items, nil
}

// scoreSentences embeds the sentences and the category exemplars, takes the
// max cosine similarity per sentence, applies boosts and validation.
func (e *Extractor) scoreSentences(ctx context.Context, sentences []string, def category.Definition) ([]scored, error) {
	exemplarVecs, err := e.exemplarVectors(ctx, def)
	if err != nil {
		return nil, err
	}

	sentenceVecs, err := e.provider.Embed(ctx, sentences)
	if err != nil {
		return nil, eris.Wrap(err, "lexical: embed sentences")
	}

	var out []scored
	for i, sentence := range sentences {
		best := 0.0
		for _, ev := range exemplarVecs {
			if sim := embed.Dot(sentenceVecs[i], ev); sim > best {
				best = sim
			}
		}

		score := best + e.boost(sentence, i, def)
		if score > 1.0 {
			score = 1.0
		}

		if !e.validate(sentence, def.Category) {
			continue
		}
		out = append(out, scored{sentence: sentence, position: i, score: score})
	}
	return out, nil
}

// boost returns the additive score adjustment for a sentence: keyword matches
// at +0.05 each capped at +0.15, plus category-specific positional and
// defining-phrase boosts, which are exempt from the keyword cap.
func (e *Extractor) boost(sentence string, position int, def category.Definition) float64 {
	lower := strings.ToLower(sentence)

	kw := 0.0
	for _, keyword := range def.Keywords {
		if strings.Contains(lower, keyword) {
			kw += keywordBoost
		}
	}
	if kw > keywordBoostCap {
		kw = keywordBoostCap
	}

	extra := 0.0
	if def.Category == model.CategoryDescription {
		if position < 3 {
			extra += positionBoost
		}
		if definingPhraseRe.MatchString(sentence) {
			extra += definingPhraseBoost
		}
	}
	return kw + extra
}

func (e *Extractor) exemplarVectors(ctx context.Context, def category.Definition) ([][]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if vecs, ok := e.exemplarCache[def.Category]; ok {
		return vecs, nil
	}
	vecs, err := e.provider.Embed(ctx, def.Exemplars)
	if err != nil {
		return nil, eris.Wrap(err, "lexical: embed exemplars")
	}
	e.exemplarCache[def.Category] = vecs
	return vecs, nil
}

func filterByThreshold(candidates []scored, threshold float64) []scored {
	out := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		if c.score >= threshold {
			out = append(out, c)
		}
	}
	return out
}

// needsRetry reports whether a category's yield is low enough to warrant the
// lowered-threshold pass.
func needsRetry(cat model.Category, accepted int) bool {
	switch cat {
	case model.CategoryDescription:
		return accepted == 0
	case model.CategoryStrength, model.CategoryWeakness:
		return accepted < 2
	default:
		return false
	}
}

// entityAliases derives the name forms that count as an entity mention: the
// full name, its first token, and lowercase variants.
func entityAliases(name string) []string {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	aliases := []string{name, strings.ToLower(name)}
	if fields := strings.Fields(name); len(fields) > 1 {
		aliases = append(aliases, fields[0], strings.ToLower(fields[0]))
	}
	return aliases
}
