// Package aggregate consolidates items from all documents and both
// extraction strategies into one deduplicated, importance-ranked set per
// category, and assembles the final profile.
package aggregate

import (
	"context"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/intel-engine/internal/category"
	"github.com/sells-group/intel-engine/internal/embed"
	"github.com/sells-group/intel-engine/internal/model"
)

// ClusterThreshold is the cosine similarity at or above which two items are
// considered near-duplicates and merged.
const ClusterThreshold = 0.75

// Importance ranking weights: quality, confidence, corroboration.
const (
	scoreWeight      = 0.4
	confidenceWeight = 0.3
	mentionWeight    = 0.3

	// mentionNorm scales the mention count; three independent mentions
	// saturate the base corroboration signal.
	mentionNorm = 3.0
	mentionCap  = 1.5
)

// Aggregator deduplicates and ranks extracted items.
type Aggregator struct {
	provider embed.Provider
}

// New creates an aggregator using the given embedding provider for
// similarity clustering.
func New(provider embed.Provider) *Aggregator {
	return &Aggregator{provider: provider}
}

// Aggregate groups items by category, clusters near-duplicates, merges each
// cluster and ranks the survivors by importance. Input order is preserved
// for clustering, so results are deterministic.
func (a *Aggregator) Aggregate(ctx context.Context, items []model.IntelligenceItem) (map[model.Category][]model.IntelligenceItem, error) {
	byCategory := make(map[model.Category][]model.IntelligenceItem)
	for _, item := range items {
		byCategory[item.Category] = append(byCategory[item.Category], item)
	}

	out := make(map[model.Category][]model.IntelligenceItem, len(byCategory))
	for cat, catItems := range byCategory {
		merged, err := a.aggregateCategory(ctx, cat, catItems)
		if err != nil {
			return nil, err
		}
		out[cat] = merged
	}
	return out, nil
}

func (a *Aggregator) aggregateCategory(ctx context.Context, cat model.Category, items []model.IntelligenceItem) ([]model.IntelligenceItem, error) {
	if len(items) == 0 {
		return nil, nil
	}

	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = item.Text
	}
	vectors, err := a.provider.Embed(ctx, texts)
	if err != nil {
		return nil, eris.Wrapf(err, "aggregate: embed %s items", cat)
	}

	merged := mergeClusters(items, cluster(vectors))

	sort.SliceStable(merged, func(i, j int) bool {
		return Importance(merged[i]) > Importance(merged[j])
	})

	limit := displayCap(cat)
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}

// cluster greedily groups items by embedding similarity: iterate in input
// order, each unclustered item seeds a cluster and absorbs every later
// unclustered item within ClusterThreshold.
func cluster(vectors [][]float32) [][]int {
	var clusters [][]int
	used := make([]bool, len(vectors))
	for i := range vectors {
		if used[i] {
			continue
		}
		members := []int{i}
		used[i] = true
		for j := i + 1; j < len(vectors); j++ {
			if used[j] {
				continue
			}
			if embed.Dot(vectors[i], vectors[j]) >= ClusterThreshold {
				members = append(members, j)
				used[j] = true
			}
		}
		clusters = append(clusters, members)
	}
	return clusters
}

// mergeClusters collapses each cluster into one item: the highest-scoring
// member's text, the mean score, the most frequent confidence label (ties go
// to the higher label), the cluster size as mentions, and the other members'
// texts as variations. Singleton clusters pass through unchanged, so
// re-aggregating already-deduplicated items is a no-op.
func mergeClusters(items []model.IntelligenceItem, clusters [][]int) []model.IntelligenceItem {
	merged := make([]model.IntelligenceItem, 0, len(clusters))
	for _, members := range clusters {
		if len(members) == 1 {
			merged = append(merged, items[members[0]])
			continue
		}
		best := members[0]
		sum := 0.0
		counts := make(map[model.Confidence]int, 3)
		for _, idx := range members {
			sum += items[idx].Score
			counts[items[idx].Confidence]++
			if items[idx].Score > items[best].Score {
				best = idx
			}
		}

		var variations []string
		for _, idx := range members {
			if idx != best {
				variations = append(variations, items[idx].Text)
			}
		}

		merged = append(merged, model.IntelligenceItem{
			Category:   items[best].Category,
			Text:       items[best].Text,
			Score:      sum / float64(len(members)),
			Confidence: modalConfidence(counts),
			Mentions:   len(members),
			Variations: variations,
		})
	}
	return merged
}

// modalConfidence picks the most frequent label; on a tie the higher label
// wins.
func modalConfidence(counts map[model.Confidence]int) model.Confidence {
	best := model.ConfidenceLow
	bestCount := -1
	for _, c := range []model.Confidence{model.ConfidenceHigh, model.ConfidenceMedium, model.ConfidenceLow} {
		if counts[c] > bestCount {
			best = c
			bestCount = counts[c]
		}
	}
	return best
}

// Importance is the ranking score combining quality and corroboration.
func Importance(item model.IntelligenceItem) float64 {
	mentions := float64(item.Mentions) / mentionNorm
	if mentions > mentionCap {
		mentions = mentionCap
	}
	return scoreWeight*item.Score +
		confidenceWeight*item.Confidence.Weight() +
		mentionWeight*mentions
}

func displayCap(cat model.Category) int {
	if def, ok := category.Lookup(cat); ok && def.DisplayCap > 0 {
		return def.DisplayCap
	}
	return 8
}
