package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategories(t *testing.T) {
	t.Parallel()

	cats := Categories()
	assert.Len(t, cats, 11)
	assert.Equal(t, CategoryDescription, cats[0], "description leads the canonical order")

	seen := make(map[Category]bool, len(cats))
	for _, c := range cats {
		assert.True(t, c.Valid())
		assert.False(t, seen[c], "duplicate category %s", c)
		seen[c] = true
	}
}

func TestCategoryValid(t *testing.T) {
	t.Parallel()

	assert.True(t, CategoryMarketPosition.Valid())
	assert.False(t, Category("sentiment").Valid())
	assert.False(t, Category("").Valid())
}

func TestCategoryTitle(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Company Description", CategoryDescription.Title())
	assert.Equal(t, "Decision Makers", CategoryDecisionMakers.Title())
	assert.Equal(t, "custom", Category("custom").Title())
}
