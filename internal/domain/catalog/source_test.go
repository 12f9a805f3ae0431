package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSource_RejectsDuplicateID(t *testing.T) {
	_, err := NewSource([]Entry{
		{ID: "x", Name: "A", Category: CategorySnacks},
		{ID: "x", Name: "B", Category: CategorySnacks},
	})

	assert.Error(t, err)
}

func TestNewSource_RejectsMissingID(t *testing.T) {
	_, err := NewSource([]Entry{{Name: "A", Category: CategorySnacks}})

	assert.Error(t, err)
}

func TestNewSource_RejectsUnknownCategory(t *testing.T) {
	_, err := NewSource([]Entry{{ID: "x", Name: "A", Category: "midnight"}})

	assert.Error(t, err)
}

func TestSource_Get(t *testing.T) {
	src, err := NewSource(testEntries())
	require.NoError(t, err)

	e, ok := src.Get("dr-1")
	require.True(t, ok)
	assert.Equal(t, "Filter Coffee", e.Name)

	_, ok = src.Get("missing")
	assert.False(t, ok)
}

func TestSource_EntriesReturnsCopy(t *testing.T) {
	src, err := NewSource(testEntries())
	require.NoError(t, err)

	entries := src.Entries()
	entries[0].Name = "mutated"

	fresh, ok := src.Get(entries[0].ID)
	require.True(t, ok)
	assert.NotEqual(t, "mutated", fresh.Name)
}

func TestLoadSeed(t *testing.T) {
	src, err := LoadSeed()
	require.NoError(t, err)

	assert.Greater(t, src.Len(), 0)

	// Seed must cover every category so the grouped menu is never sparse
	groups := GroupByCategory(src.Entries())
	assert.Len(t, groups, len(Categories))
}
