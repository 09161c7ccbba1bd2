package aggregate

import (
	"time"

	"github.com/sells-group/intel-engine/internal/model"
)

// Synthesize assembles the final immutable profile from the aggregated
// per-category items. For the description the single best item wins by raw
// score; the aggregator never text-merges descriptions, it keeps the
// highest-scoring member of each cluster, so picking the top-scoring merged
// item preserves one author's wording.
func Synthesize(entityName string, documentsAnalyzed int, items map[model.Category][]model.IntelligenceItem, meta model.RunMetadata) *model.AggregatedProfile {
	profile := &model.AggregatedProfile{
		EntityName:        entityName,
		DocumentsAnalyzed: documentsAnalyzed,
		Items:             make(map[model.Category][]model.IntelligenceItem, len(items)),
		Metadata:          meta,
		GeneratedAt:       time.Now().UTC(),
	}

	for cat, catItems := range items {
		if len(catItems) == 0 {
			continue
		}
		if cat == model.CategoryDescription {
			profile.Items[cat] = []model.IntelligenceItem{bestByScore(catItems)}
			continue
		}
		profile.Items[cat] = catItems
	}
	return profile
}

func bestByScore(items []model.IntelligenceItem) model.IntelligenceItem {
	best := items[0]
	for _, item := range items[1:] {
		if item.Score > best.Score {
			best = item
		}
	}
	return best
}
