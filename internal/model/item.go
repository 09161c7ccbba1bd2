package model

// Confidence is the discretized quality label of an IntelligenceItem.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Score bucket boundaries. Buckets are monotonic with score.
const (
	highScoreFloor   = 0.70
	mediumScoreFloor = 0.55
)

// ConfidenceForScore maps a score in [0,1] to its confidence bucket.
func ConfidenceForScore(score float64) Confidence {
	switch {
	case score >= highScoreFloor:
		return ConfidenceHigh
	case score >= mediumScoreFloor:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Weight returns the numeric weight used in importance ranking.
func (c Confidence) Weight() float64 {
	switch c {
	case ConfidenceHigh:
		return 1.0
	case ConfidenceMedium:
		return 0.8
	default:
		return 0.5
	}
}

// Rank orders confidence labels for tie-breaking: higher label wins.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	default:
		return 0
	}
}

// ScoreForConfidence maps a generative-model confidence label to a
// representative score inside that label's bucket, so the bucket rule holds
// for items whose score originates as a label rather than a similarity.
func ScoreForConfidence(c Confidence) float64 {
	switch c {
	case ConfidenceHigh:
		return 0.85
	case ConfidenceMedium:
		return 0.65
	default:
		return 0.50
	}
}

// IntelligenceItem is the normalized unit of extracted intelligence emitted
// by both extraction strategies. Mentions and Variations are populated by the
// aggregator; a freshly extracted item has Mentions=1 and no variations.
type IntelligenceItem struct {
	Category   Category   `json:"category"`
	Text       string     `json:"text"`
	Score      float64    `json:"score"`
	Confidence Confidence `json:"confidence"`
	Mentions   int        `json:"mentions"`
	Variations []string   `json:"variations,omitempty"`
}

// NewItem builds a pre-aggregation item with confidence derived from score.
func NewItem(cat Category, text string, score float64) IntelligenceItem {
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return IntelligenceItem{
		Category:   cat,
		Text:       text,
		Score:      score,
		Confidence: ConfidenceForScore(score),
		Mentions:   1,
	}
}
