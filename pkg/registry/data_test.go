package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bastiangx/wordmap/pkg/dictionary"
)

// loadShipped builds a registry from the dictionaries shipped in data/.
func loadShipped(t *testing.T) *Registry {
	t.Helper()

	tables, err := dictionary.LoadDir("../../data")
	require.NoError(t, err)

	r := New()
	require.NoError(t, r.LoadTables(tables))

	return r
}

func TestShippedTables(t *testing.T) {
	r := loadShipped(t)

	assert.Equal(t, []string{"agent", "gender", "past", "plural", "plural_irregular"}, r.Names(""))
}

func TestShippedRoundTrips(t *testing.T) {
	r := loadShipped(t)

	for _, tc := range []struct {
		table string
		key   string
		value string
	}{
		{"plural", "city", "cities"},
		{"plural", "day", "days"},
		{"plural", "toy", "toys"},
		{"plural", "bus", "buses"},
		{"plural", "box", "boxes"},
		{"plural", "church", "churches"},
		{"plural", "dish", "dishes"},
		{"plural", "wife", "wives"},
		{"plural", "policeman", "policemen"},
		{"plural", "cat", "cats"},
		{"plural_irregular", "child", "children"},
		{"plural_irregular", "mouse", "mice"},
		{"plural_irregular", "sheep", "sheep"},
		{"gender", "chairman", "chairwoman"},
		{"gender", "waiter", "waitress"},
		{"gender", "prince", "princess"},
		{"past", "play", "played"},
		{"past", "obey", "obeyed"},
		{"past", "carry", "carried"},
		{"past", "bake", "baked"},
		{"agent", "organize", "organizer"},
		{"agent", "generate", "generator"},
	} {
		m, ok := r.Get(tc.table)
		require.True(t, ok, tc.table)

		value, ok := m.ValueFor(tc.key)
		assert.True(t, ok, "%s: value for %s", tc.table, tc.key)
		assert.Equal(t, tc.value, value, "%s: value for %s", tc.table, tc.key)

		key, ok := m.KeyFor(tc.value)
		assert.True(t, ok, "%s: key for %s", tc.table, tc.value)
		assert.Equal(t, tc.key, key, "%s: key for %s", tc.table, tc.value)
	}
}

func TestShippedIrregularTableIsLiteralOnly(t *testing.T) {
	r := loadShipped(t)

	m, ok := r.Get("plural_irregular")
	require.True(t, ok)

	_, ok = m.ValueFor("dog")
	assert.False(t, ok)
}
