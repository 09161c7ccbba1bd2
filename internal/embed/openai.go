package embed

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// maxBatchSize caps how many texts go into one embeddings request.
	maxBatchSize = 64

	batchTimeout = 60 * time.Second
)

// OpenAIConfig holds settings for the OpenAI-compatible embeddings API.
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string // optional override for OpenAI-compatible providers
	Model      string
	Dimensions int
	RPS        float64 // outbound requests per second; 0 disables limiting
}

// OpenAIProvider embeds text via an OpenAI-compatible embeddings endpoint.
type OpenAIProvider struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimensions int
	limiter    *rate.Limiter
}

// NewOpenAIProvider creates a rate-limited embeddings provider.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	var limiter *rate.Limiter
	if cfg.RPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RPS), 1)
	}

	dims := cfg.Dimensions
	if dims <= 0 {
		dims = 384
	}

	return &OpenAIProvider{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      openai.EmbeddingModel(cfg.Model),
		dimensions: dims,
		limiter:    limiter,
	}
}

// Dimension implements Provider.
func (p *OpenAIProvider) Dimension() int { return p.dimensions }

// Embed implements Provider. Inputs are sent in batches of at most 64; each
// batch call is timeout-bounded and cancellable via ctx. Any API failure is
// classified as ErrModelUnavailable.
func (p *OpenAIProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(texts) {
			end = len(texts)
		}

		vectors, err := p.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, vectors...)
	}
	return out, nil
}

func (p *OpenAIProvider) embedBatch(ctx context.Context, batch []string) ([][]float32, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "embed: rate limiter")
		}
	}

	ctx, cancel := context.WithTimeout(ctx, batchTimeout)
	defer cancel()

	req := openai.EmbeddingRequest{
		Input:          batch,
		Model:          p.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}
	if p.dimensions > 0 {
		req.Dimensions = p.dimensions
	}

	start := time.Now()
	resp, err := p.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, eris.Wrapf(ErrModelUnavailable, "embed: create embeddings: %v", err)
	}
	if len(resp.Data) != len(batch) {
		return nil, eris.Wrapf(ErrModelUnavailable,
			"embed: got %d vectors for %d inputs", len(resp.Data), len(batch))
	}

	zap.L().Debug("embed: batch complete",
		zap.Int("texts", len(batch)),
		zap.Duration("duration", time.Since(start)),
	)

	vectors := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		vectors[i] = Normalize(d.Embedding)
	}
	return vectors, nil
}
