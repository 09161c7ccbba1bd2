package generative

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/intel-engine/internal/category"
	"github.com/sells-group/intel-engine/internal/model"
	"github.com/sells-group/intel-engine/pkg/anthropic"
)

// ErrModelUnavailable marks a failure to reach the generative model. Fatal to
// the run; no local retry.
var ErrModelUnavailable = eris.New("generative model unavailable")

const (
	// DefaultTemperature keeps generative output close to the source text.
	DefaultTemperature = 0.3

	// DefaultMaxTokens bounds the response length.
	DefaultMaxTokens = 1000

	// generateTimeout bounds a single generative call so a stuck request
	// cannot block the run.
	generateTimeout = 180 * time.Second
)

// Config holds generative extraction settings.
type Config struct {
	Model       string
	Temperature float64
	MaxTokens   int64
	TopK        int
}

func (c Config) withDefaults() Config {
	if c.Temperature == 0 {
		c.Temperature = DefaultTemperature
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.TopK == 0 {
		c.TopK = DefaultTopK
	}
	return c
}

// Non-fatal empty outcomes for one category.
const (
	EmptyNoContext  = "no chunks above similarity floor"
	EmptyUnparsable = "unparsable model response"
)

// CategoryExtraction is the outcome of the generative strategy for one
// category. EmptyReason is set when no items could be produced without that
// being fatal (empty retrieval, unparsable response).
type CategoryExtraction struct {
	Category    model.Category
	Items       []model.IntelligenceItem
	Retrieved   int
	EmptyReason string
}

// Extractor runs retrieval plus a generative model call per category.
type Extractor struct {
	retriever *Retriever
	client    anthropic.Client
	cfg       Config
}

// NewExtractor binds the generative strategy to a retriever and model client.
func NewExtractor(retriever *Retriever, client anthropic.Client, cfg Config) *Extractor {
	return &Extractor{retriever: retriever, client: client, cfg: cfg.withDefaults()}
}

// ExtractCategory performs retrieval, prompt construction, the model call and
// response parsing for one category.
func (x *Extractor) ExtractCategory(ctx context.Context, cat model.Category, entity, objective string) (*CategoryExtraction, error) {
	def, ok := category.Lookup(cat)
	if !ok {
		return nil, eris.Errorf("generative: unknown category %q", cat)
	}

	matches, err := x.retriever.Retrieve(ctx, def, entity, objective)
	if err != nil {
		return nil, err
	}

	result := &CategoryExtraction{Category: cat, Retrieved: len(matches)}
	if len(matches) == 0 {
		result.EmptyReason = EmptyNoContext
		zap.L().Info("generative: empty retrieval",
			zap.String("category", string(cat)),
			zap.String("entity", entity),
		)
		return result, nil
	}

	obj := objective
	if !def.NeedsObjective {
		obj = ""
	}
	prompt := fillTemplate(def.Prompt, entity, contextBlock(matches), obj)

	callCtx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	temp := x.cfg.Temperature
	resp, err := x.client.CreateMessage(callCtx, anthropic.MessageRequest{
		Model:       x.cfg.Model,
		MaxTokens:   x.cfg.MaxTokens,
		Temperature: &temp,
		Messages: []anthropic.Message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return nil, eris.Wrapf(ErrModelUnavailable, "generative: %s: %v", cat, err)
	}

	payload := Parse(resp.Text())
	if payload == nil {
		result.EmptyReason = EmptyUnparsable
		zap.L().Warn("generative: response parse failure",
			zap.String("category", string(cat)),
			zap.String("entity", entity),
		)
		return result, nil
	}

	result.Items = itemsFromPayload(def, payload)
	return result, nil
}

// itemsFromPayload converts a parsed response object into intelligence items
// according to the category's canonical schema.
func itemsFromPayload(def category.Definition, payload map[string]any) []model.IntelligenceItem {
	value, ok := payload[def.ResponseKey]
	if !ok {
		return nil
	}

	if def.SingleText {
		text, repaired := RepairSingleText(value)
		if text == "" {
			return nil
		}
		conf := model.ConfidenceHigh
		if repaired {
			conf = model.ConfidenceMedium
		}
		item := model.NewItem(def.Category, text, model.ScoreForConfidence(conf))
		return []model.IntelligenceItem{item}
	}

	entries, ok := value.([]any)
	if !ok {
		return nil
	}

	items := make([]model.IntelligenceItem, 0, len(entries))
	for _, entry := range entries {
		var text string
		conf := model.ConfidenceMedium
		switch v := entry.(type) {
		case string:
			text = v
		case map[string]any:
			text, _ = v["text"].(string)
			if label, ok := v["confidence"].(string); ok {
				switch model.Confidence(label) {
				case model.ConfidenceHigh, model.ConfidenceMedium, model.ConfidenceLow:
					conf = model.Confidence(label)
				}
			}
		}
		if text == "" {
			continue
		}
		items = append(items, model.NewItem(def.Category, text, model.ScoreForConfidence(conf)))
	}
	return items
}
