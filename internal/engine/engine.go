// Package engine orchestrates one extraction run per entity: both extraction
// strategies feed a shared aggregation stage that deduplicates, ranks and
// synthesizes the final profile. All run state is created per call; nothing
// outlives a run except the injected model handles.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/intel-engine/internal/aggregate"
	"github.com/sells-group/intel-engine/internal/embed"
	"github.com/sells-group/intel-engine/internal/generative"
	"github.com/sells-group/intel-engine/internal/model"
	"github.com/sells-group/intel-engine/internal/monitoring"
	"github.com/sells-group/intel-engine/internal/segment"
	"github.com/sells-group/intel-engine/internal/vectorindex"
	"github.com/sells-group/intel-engine/pkg/anthropic"
)

// defaultCategoryConcurrency bounds the per-strategy category fan-out.
const defaultCategoryConcurrency = 4

// Extractor is one extraction strategy bound to a run's inputs. Both the
// lexical and the generative strategies implement it, so the aggregation
// stage stays strategy-agnostic and either strategy can be absent.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, cat model.Category) ([]model.IntelligenceItem, error)
}

// IndexOpener creates the per-run vector index. Injected so tests can force
// a backend.
type IndexOpener func(ctx context.Context, cfg vectorindex.Config, dimension int) (vectorindex.Index, error)

// Strategies selects which extraction strategies a run uses. The zero value
// means both.
type Strategies struct {
	Lexical    bool
	Generative bool
}

func (s Strategies) normalized(hasGenerator bool) Strategies {
	if !s.Lexical && !s.Generative {
		s = Strategies{Lexical: true, Generative: true}
	}
	if !hasGenerator {
		s.Generative = false
	}
	return s
}

// Request is one extraction run's input, supplied by the scraping
// collaborator.
type Request struct {
	EntityName string
	Objective  string
	Documents  []model.SourceDocument
	Strategies Strategies
}

// Engine runs entity extractions. Safe for concurrent runs: per-run state
// (index collection, extractor bindings) is created inside Analyze.
type Engine struct {
	embedder  embed.Provider
	generator anthropic.Client
	genCfg    generative.Config
	indexCfg  vectorindex.Config
	openIndex IndexOpener
	metrics   *monitoring.Metrics

	chunkOpts   segment.ChunkOptions
	concurrency int
}

// Option configures an Engine.
type Option func(*Engine)

// WithGenerator enables the generative strategy.
func WithGenerator(client anthropic.Client, cfg generative.Config) Option {
	return func(e *Engine) {
		e.generator = client
		e.genCfg = cfg
	}
}

// WithVectorIndex configures the distributed index backend.
func WithVectorIndex(cfg vectorindex.Config) Option {
	return func(e *Engine) { e.indexCfg = cfg }
}

// WithIndexOpener overrides how the per-run index is created.
func WithIndexOpener(open IndexOpener) Option {
	return func(e *Engine) { e.openIndex = open }
}

// WithMetrics attaches a Prometheus collector.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithChunking overrides chunk-mode segmentation parameters.
func WithChunking(opts segment.ChunkOptions) Option {
	return func(e *Engine) { e.chunkOpts = opts }
}

// New creates an engine around an embedding provider. A generative client is
// optional; without one only the lexical strategy runs.
func New(embedder embed.Provider, opts ...Option) *Engine {
	e := &Engine{
		embedder:    embedder,
		openIndex:   vectorindex.Open,
		concurrency: defaultCategoryConcurrency,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze runs the full pipeline for one entity and returns the aggregated
// profile. Fatal failures (model unavailable, repeated backend failure)
// return an error and no partial profile; everything else degrades to empty
// categories.
func (e *Engine) Analyze(ctx context.Context, req Request) (*model.AggregatedProfile, error) {
	start := time.Now()
	if req.EntityName == "" {
		return nil, eris.New("engine: entity name is required")
	}

	strategies := req.Strategies.normalized(e.generator != nil)
	if !strategies.Lexical && !strategies.Generative {
		return nil, eris.New("engine: generative strategy requested but no generative client is configured")
	}
	zap.L().Info("engine: run started",
		zap.String("entity", req.EntityName),
		zap.Int("documents", len(req.Documents)),
		zap.Bool("lexical", strategies.Lexical),
		zap.Bool("generative", strategies.Generative),
	)

	meta := model.RunMetadata{
		DocumentsAnalyzed: len(req.Documents),
		VectorBackendUsed: "none",
	}

	if len(req.Documents) == 0 {
		return aggregate.Synthesize(req.EntityName, 0, nil, e.finishMetadata(meta, nil, start)), nil
	}

	var items []model.IntelligenceItem

	if strategies.Lexical {
		lexItems, err := e.collect(ctx, newLexicalStrategy(e.embedder, req))
		if err != nil {
			return nil, err
		}
		e.metrics.AddItems("lexical", len(lexItems))
		items = append(items, lexItems...)
	}

	if strategies.Generative {
		outcome, err := e.runGenerativePhase(ctx, req)
		if err != nil {
			return nil, err
		}
		meta.VectorBackendUsed = outcome.backend
		meta.ChunksCreated = outcome.chunks
		meta.EmptyCategories = outcome.reasons
		e.metrics.AddItems("generative", len(outcome.items))
		items = append(items, outcome.items...)
	}

	meta.TotalItemsExtracted = len(items)

	aggregated, err := aggregate.New(e.embedder).Aggregate(ctx, items)
	if err != nil {
		return nil, eris.Wrap(err, "engine: aggregate")
	}

	profile := aggregate.Synthesize(req.EntityName, len(req.Documents), aggregated, e.finishMetadata(meta, aggregated, start))

	e.metrics.ObserveRun(time.Since(start))
	zap.L().Info("engine: run complete",
		zap.String("entity", req.EntityName),
		zap.Int("items", profile.TotalItems()),
		zap.String("vector_backend", profile.Metadata.VectorBackendUsed),
		zap.Float64("duration_seconds", profile.Metadata.DurationSeconds),
	)
	return profile, nil
}

// collect fans one strategy out over all categories in a bounded pool and
// flattens the results in canonical category order, keeping aggregation
// input deterministic.
func (e *Engine) collect(ctx context.Context, extractor Extractor) ([]model.IntelligenceItem, error) {
	cats := model.Categories()
	perCat := make([][]model.IntelligenceItem, len(cats))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	var mu sync.Mutex
	for i, cat := range cats {
		g.Go(func() error {
			catItems, err := extractor.Extract(gctx, cat)
			if err != nil {
				return eris.Wrapf(err, "engine: %s strategy, category %s", extractor.Name(), cat)
			}
			mu.Lock()
			perCat[i] = catItems
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var items []model.IntelligenceItem
	for _, catItems := range perCat {
		items = append(items, catItems...)
	}
	return items, nil
}

func (e *Engine) finishMetadata(meta model.RunMetadata, aggregated map[model.Category][]model.IntelligenceItem, start time.Time) model.RunMetadata {
	total := 0
	sum := 0.0
	for _, catItems := range aggregated {
		for _, item := range catItems {
			total++
			sum += item.Score
		}
	}
	if total > 0 {
		meta.AverageConfidence = sum / float64(total)
	}
	meta.DurationSeconds = time.Since(start).Seconds()
	return meta
}

// generativeOutcome is the generative phase's contribution to the run.
type generativeOutcome struct {
	items   []model.IntelligenceItem
	reasons map[model.Category]string
	backend string
	chunks  int
}

// runGenerativePhase chunks and indexes the documents, then runs the
// generative strategy per category. A distributed-backend failure mid-run is
// retried exactly once against the in-memory index before becoming fatal.
func (e *Engine) runGenerativePhase(ctx context.Context, req Request) (*generativeOutcome, error) {
	chunks, err := e.embedChunks(ctx, req.Documents)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return &generativeOutcome{backend: "none"}, nil
	}

	index, err := e.openAndFill(ctx, chunks)
	if err != nil {
		return nil, err
	}
	backend := index.Backend()

	strategy := newGenerativeStrategy(e, index, req)
	items, err := e.collect(ctx, strategy)
	closeIndex(ctx, index)

	if err != nil && IsVectorBackendFailure(err) && backend != "memory" {
		zap.L().Warn("engine: vector backend failed mid-run, retrying in-memory",
			zap.String("entity", req.EntityName),
			zap.Error(err),
		)
		memory := vectorindex.NewMemory(e.embedder.Dimension())
		if insertErr := memory.Insert(ctx, chunks); insertErr != nil {
			return nil, eris.Wrap(insertErr, "engine: fill fallback index")
		}
		backend = memory.Backend()
		strategy = newGenerativeStrategy(e, memory, req)
		items, err = e.collect(ctx, strategy)
	}
	if err != nil {
		return nil, err
	}
	return &generativeOutcome{
		items:   items,
		reasons: strategy.emptyReasons(),
		backend: backend,
		chunks:  len(chunks),
	}, nil
}

func (e *Engine) embedChunks(ctx context.Context, docs []model.SourceDocument) ([]model.TextChunk, error) {
	var chunks []model.TextChunk
	for _, doc := range docs {
		chunks = append(chunks, segment.Chunks(doc, e.chunkOpts)...)
	}
	if len(chunks) == 0 {
		return nil, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := e.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, eris.Wrap(err, "engine: embed chunks")
	}
	e.metrics.IncEmbeddingBatch()
	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}
	return chunks, nil
}

// openAndFill opens the configured backend and bulk-inserts the chunks. An
// insert failure on the distributed backend falls straight back to memory;
// that consumes the run's one recovery.
func (e *Engine) openAndFill(ctx context.Context, chunks []model.TextChunk) (vectorindex.Index, error) {
	index, err := e.openIndex(ctx, e.indexCfg, e.embedder.Dimension())
	if err != nil {
		return nil, eris.Wrap(err, "engine: open vector index")
	}
	if err := index.Insert(ctx, chunks); err != nil {
		closeIndex(ctx, index)
		if IsVectorBackendFailure(err) && index.Backend() != "memory" {
			zap.L().Warn("engine: distributed insert failed, using in-memory index", zap.Error(err))
			memory := vectorindex.NewMemory(e.embedder.Dimension())
			if insertErr := memory.Insert(ctx, chunks); insertErr != nil {
				return nil, eris.Wrap(insertErr, "engine: fill fallback index")
			}
			return memory, nil
		}
		return nil, eris.Wrap(err, "engine: fill vector index")
	}
	return index, nil
}

func closeIndex(ctx context.Context, index vectorindex.Index) {
	if err := index.Close(ctx); err != nil {
		zap.L().Warn("engine: close vector index", zap.Error(err))
	}
}
