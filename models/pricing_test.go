package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryPriceMapKeepsOrderAndDropsUnordered(t *testing.T) {
	m := NewCategoryPriceMap(
		[]string{"Tools", "Garden", "Tools", "Unpriced"},
		map[string]float64{"Tools": 10, "Garden": 25, "Stray": 1},
	)

	assert.Equal(t, []string{"Tools", "Garden"}, m.Categories())
	assert.Equal(t, 2, m.Len())

	_, ok := m.Get("Stray")
	assert.False(t, ok)
}

func TestCategoryPriceMapIsImmutable(t *testing.T) {
	prices := map[string]float64{"Tools": 10}
	m := NewCategoryPriceMap([]string{"Tools"}, prices)
	prices["Tools"] = 99

	p, ok := m.Get("Tools")
	require.True(t, ok)
	assert.Equal(t, 10.0, p)

	cats := m.Categories()
	cats[0] = "Changed"
	assert.Equal(t, []string{"Tools"}, m.Categories())
}

func TestCategoryPriceMapLookup(t *testing.T) {
	m := NewCategoryPriceMap([]string{"Tools"}, map[string]float64{"Tools": 10})
	tools, garden := "Tools", "Garden"

	require.NotNil(t, m.Lookup(&tools))
	assert.Equal(t, 10.0, *m.Lookup(&tools))
	assert.Nil(t, m.Lookup(&garden))
	assert.Nil(t, m.Lookup(nil))

	var empty *CategoryPriceMap
	assert.Nil(t, empty.Lookup(&tools))
	assert.Equal(t, 0, empty.Len())
}

func TestSchemaFindingString(t *testing.T) {
	f := SchemaFinding{Kind: MissingColumns, Columns: []string{"brand", "category"}}
	assert.Equal(t, "Missing columns: [brand, category]", f.String())
}

func TestCleanRecordCategoryLabel(t *testing.T) {
	cat := "Tools"
	assert.Equal(t, "Tools", (&CleanRecord{Category: &cat}).CategoryLabel())
	assert.Equal(t, "uncategorized", (&CleanRecord{}).CategoryLabel())
}
