package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfidenceForScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score float64
		want  Confidence
	}{
		{0.95, ConfidenceHigh},
		{0.70, ConfidenceHigh},
		{0.69, ConfidenceMedium},
		{0.55, ConfidenceMedium},
		{0.54, ConfidenceLow},
		{0.0, ConfidenceLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ConfidenceForScore(tt.score), "score %v", tt.score)
	}
}

func TestScoreForConfidenceRoundTrips(t *testing.T) {
	t.Parallel()

	// The representative score for each label must land back in the same
	// bucket.
	for _, c := range []Confidence{ConfidenceHigh, ConfidenceMedium, ConfidenceLow} {
		assert.Equal(t, c, ConfidenceForScore(ScoreForConfidence(c)))
	}
}

func TestConfidenceWeight(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1.0, ConfidenceHigh.Weight())
	assert.Equal(t, 0.8, ConfidenceMedium.Weight())
	assert.Equal(t, 0.5, ConfidenceLow.Weight())
	assert.Equal(t, 0.5, Confidence("bogus").Weight())
}

func TestConfidenceRank(t *testing.T) {
	t.Parallel()

	assert.Greater(t, ConfidenceHigh.Rank(), ConfidenceMedium.Rank())
	assert.Greater(t, ConfidenceMedium.Rank(), ConfidenceLow.Rank())
	assert.Greater(t, ConfidenceLow.Rank(), Confidence("").Rank())
}

func TestNewItem(t *testing.T) {
	t.Parallel()

	t.Run("derives confidence from score", func(t *testing.T) {
		t.Parallel()
		item := NewItem(CategoryStrength, "strong brand", 0.8)
		assert.Equal(t, CategoryStrength, item.Category)
		assert.Equal(t, 0.8, item.Score)
		assert.Equal(t, ConfidenceHigh, item.Confidence)
		assert.Equal(t, 1, item.Mentions)
		assert.Empty(t, item.Variations)
	})

	t.Run("clamps score into unit interval", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 1.0, NewItem(CategoryStrength, "x", 1.3).Score)
		assert.Equal(t, 0.0, NewItem(CategoryStrength, "x", -0.2).Score)
	})
}
