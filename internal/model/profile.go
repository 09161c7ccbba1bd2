package model

import (
	"fmt"
	"strings"
	"time"
)

// RunMetadata describes one completed extraction run. Handed to the
// persistence collaborator alongside the profile.
type RunMetadata struct {
	DocumentsAnalyzed   int     `json:"documents_analyzed"`
	ChunksCreated       int     `json:"chunks_created"`
	TotalItemsExtracted int     `json:"total_items_extracted"`
	AverageConfidence   float64 `json:"average_confidence"`
	DurationSeconds     float64 `json:"duration_seconds"`
	VectorBackendUsed   string  `json:"vector_backend_used"`

	// EmptyCategories records, per category the generative strategy could
	// not fill, why it came back empty (no retrieval context, unparsable
	// response).
	EmptyCategories map[Category]string `json:"empty_categories,omitempty"`
}

// AggregatedProfile is the final deduplicated, ranked profile for one entity.
// Created once per run and never mutated afterwards.
type AggregatedProfile struct {
	EntityName        string                          `json:"entity_name"`
	DocumentsAnalyzed int                             `json:"documents_analyzed"`
	Items             map[Category][]IntelligenceItem `json:"items"`
	Metadata          RunMetadata                     `json:"metadata"`
	GeneratedAt       time.Time                       `json:"generated_at"`
}

// Description returns the profile's single best description text, or "".
func (p *AggregatedProfile) Description() string {
	items := p.Items[CategoryDescription]
	if len(items) == 0 {
		return ""
	}
	return items[0].Text
}

// TotalItems counts items across all categories.
func (p *AggregatedProfile) TotalItems() int {
	n := 0
	for _, items := range p.Items {
		n += len(items)
	}
	return n
}

// Render produces a human-readable rendering of the profile: heading,
// description paragraph, then a numbered list per non-empty category in
// canonical order.
func (p *AggregatedProfile) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Intelligence Profile: %s\n", p.EntityName)
	fmt.Fprintf(&b, "Documents analyzed: %d\n", p.DocumentsAnalyzed)

	if desc := p.Description(); desc != "" {
		b.WriteString("\n")
		b.WriteString(desc)
		b.WriteString("\n")
	}

	for _, cat := range Categories() {
		if cat == CategoryDescription {
			continue
		}
		items := p.Items[cat]
		if len(items) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n", cat.Title())
		for i, item := range items {
			fmt.Fprintf(&b, "%d. %s", i+1, item.Text)
			if item.Mentions > 1 {
				fmt.Fprintf(&b, " (%d mentions)", item.Mentions)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
