package engine

import (
	"context"
	"sync"

	"github.com/sells-group/intel-engine/internal/embed"
	"github.com/sells-group/intel-engine/internal/generative"
	"github.com/sells-group/intel-engine/internal/lexical"
	"github.com/sells-group/intel-engine/internal/model"
	"github.com/sells-group/intel-engine/internal/vectorindex"
)

// lexicalStrategy adapts the lexical extractor to the per-run Extractor
// contract: one category across every document, concatenated in document
// order.
type lexicalStrategy struct {
	extractor *lexical.Extractor
	docs      []model.SourceDocument
}

func newLexicalStrategy(provider embed.Provider, req Request) *lexicalStrategy {
	return &lexicalStrategy{
		extractor: lexical.New(provider, req.EntityName),
		docs:      req.Documents,
	}
}

func (s *lexicalStrategy) Name() string { return "lexical" }

func (s *lexicalStrategy) Extract(ctx context.Context, cat model.Category) ([]model.IntelligenceItem, error) {
	var items []model.IntelligenceItem
	for _, doc := range s.docs {
		docItems, err := s.extractor.Extract(ctx, doc, cat)
		if err != nil {
			return nil, err
		}
		items = append(items, docItems...)
	}
	return items, nil
}

// generativeStrategy adapts the retrieval-augmented extractor, recording the
// per-category call outcome on the engine's metrics and collecting the empty
// outcomes for run metadata.
type generativeStrategy struct {
	extractor *generative.Extractor
	metrics   metricsRecorder
	entity    string
	objective string

	mu      sync.Mutex
	reasons map[model.Category]string
}

type metricsRecorder interface {
	IncGeneration(category, status string)
	IncParseFailure()
}

func newGenerativeStrategy(e *Engine, index vectorindex.Index, req Request) *generativeStrategy {
	retriever := generative.NewRetriever(e.embedder, index, e.genCfg.TopK)
	return &generativeStrategy{
		extractor: generative.NewExtractor(retriever, e.generator, e.genCfg),
		metrics:   e.metrics,
		entity:    req.EntityName,
		objective: req.Objective,
		reasons:   make(map[model.Category]string),
	}
}

func (s *generativeStrategy) Name() string { return "generative" }

func (s *generativeStrategy) Extract(ctx context.Context, cat model.Category) ([]model.IntelligenceItem, error) {
	result, err := s.extractor.ExtractCategory(ctx, cat, s.entity, s.objective)
	if err != nil {
		s.metrics.IncGeneration(string(cat), "error")
		return nil, err
	}

	switch result.EmptyReason {
	case "":
		s.metrics.IncGeneration(string(cat), "ok")
	case generative.EmptyUnparsable:
		s.metrics.IncGeneration(string(cat), "parse_failure")
		s.metrics.IncParseFailure()
	default:
		s.metrics.IncGeneration(string(cat), "empty")
	}
	if result.EmptyReason != "" {
		s.mu.Lock()
		s.reasons[cat] = result.EmptyReason
		s.mu.Unlock()
	}
	return result.Items, nil
}

// emptyReasons snapshots the categories that produced no items, by reason.
// Call after the category fan-out completes.
func (s *generativeStrategy) emptyReasons() map[model.Category]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.reasons) == 0 {
		return nil
	}
	out := make(map[model.Category]string, len(s.reasons))
	for cat, reason := range s.reasons {
		out[cat] = reason
	}
	return out
}
