package mapping

import (
	"testing"

	"github.com/bastiangx/wordmap/pkg/prefixtree"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

var plurals = []Pair{
	{Key: "%y", Value: "%ies"},
	{Key: "%s", Value: "%ses"},
	{Key: "%", Value: "%s"},
}

func TestPluralRoundTrip(t *testing.T) {
	t.Parallel()

	m, err := New(plurals)
	require.NoError(t, err)

	for _, tc := range []struct {
		singular string
		plural   string
	}{
		{singular: "ferry", plural: "ferries"},
		{singular: "bus", plural: "buses"},
		{singular: "car", plural: "cars"},
	} {
		value, ok := m.ValueFor(tc.singular)
		require.True(t, ok, tc.singular)
		assert.Equal(t, tc.plural, value)

		key, ok := m.KeyFor(tc.plural)
		require.True(t, ok, tc.plural)
		assert.Equal(t, tc.singular, key)
	}
}

func TestLiteralMapping(t *testing.T) {
	t.Parallel()

	m, err := New([]Pair{
		{Key: "atom", Value: "atoms"},
		{Key: "molecule", Value: "molecules"},
	})
	require.NoError(t, err)

	value, ok := m.ValueFor("atom")
	assert.True(t, ok)
	assert.Equal(t, "atoms", value)

	value, ok = m.ValueFor("molecule")
	assert.True(t, ok)
	assert.Equal(t, "molecules", value)

	key, ok := m.KeyFor("molecules")
	assert.True(t, ok)
	assert.Equal(t, "molecule", key)

	key, ok = m.KeyFor("atoms")
	assert.True(t, ok)
	assert.Equal(t, "atom", key)

	_, ok = m.ValueFor("atoms")
	assert.False(t, ok)

	_, ok = m.KeyFor("atom")
	assert.False(t, ok)

	_, ok = m.ValueFor("")
	assert.False(t, ok)
}

func TestIrregularsBeforeRules(t *testing.T) {
	t.Parallel()

	m, err := New(append([]Pair{
		{Key: "person", Value: "people"},
		{Key: "child", Value: "children"},
	}, plurals...))
	require.NoError(t, err)

	for singular, plural := range map[string]string{
		"person": "people",
		"child":  "children",
		"city":   "cities",
		"dog":    "dogs",
	} {
		value, ok := m.ValueFor(singular)
		require.True(t, ok, singular)
		assert.Equal(t, plural, value)
	}

	key, ok := m.KeyFor("people")
	require.True(t, ok)
	assert.Equal(t, "person", key)
}

func TestLiteralCounterpartIgnoresCapture(t *testing.T) {
	t.Parallel()

	m, err := New([]Pair{{Key: "%fish", Value: "fish"}})
	require.NoError(t, err)

	value, ok := m.ValueFor("goldfish")
	require.True(t, ok)
	assert.Equal(t, "fish", value)
}

func TestCustomMarker(t *testing.T) {
	t.Parallel()

	m, err := New([]Pair{{Key: "*f", Value: "*ves"}, {Key: "100%", Value: "all"}}, WithMarker("*"))
	require.NoError(t, err)

	value, ok := m.ValueFor("leaf")
	require.True(t, ok)
	assert.Equal(t, "leaves", value)

	value, ok = m.ValueFor("100%")
	require.True(t, ok)
	assert.Equal(t, "all", value)
	assert.Equal(t, "*", m.Marker())
}

func TestMalformedPairAbortsConstruction(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		uc    string
		pairs []Pair
	}{
		{uc: "key with two markers", pairs: []Pair{{Key: "%a%", Value: "%"}}},
		{uc: "value with two markers", pairs: []Pair{{Key: "%", Value: "%%"}}},
	} {
		tc := tc
		t.Run(tc.uc, func(t *testing.T) {
			t.Parallel()

			m, err := New(tc.pairs)

			require.ErrorIs(t, err, prefixtree.ErrMalformedPattern)
			assert.Nil(t, m)
		})
	}
}

func TestPairsIsACopy(t *testing.T) {
	t.Parallel()

	m, err := New(plurals)
	require.NoError(t, err)

	pairs := m.Pairs()
	pairs[0].Key = "changed"

	assert.Equal(t, "%y", m.Pairs()[0].Key)
	assert.Equal(t, 3, m.Len())
	assert.Equal(t, 3, m.Forward().Len())
	assert.Equal(t, 3, m.Reverse().Len())
}
