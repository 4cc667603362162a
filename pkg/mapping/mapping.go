/*
Package mapping provides bidirectional pattern tables built on prefix trees.

A Mapping is built once from an ordered list of pattern pairs. Each side of a
pair may contain a single wildcard marker; text captured by the marker on one
side is substituted into the marker on the other side:

	m, _ := mapping.New([]mapping.Pair{
		{Key: "%y", Value: "%ies"},
		{Key: "%s", Value: "%ses"},
		{Key: "%", Value: "%s"},
	})
	m.ValueFor("ferry") // "ferries", true
	m.KeyFor("buses")   // "bus", true

Order matters: when several patterns accept the same input the one listed
first wins, so specific patterns must precede catch-all ones.
*/
package mapping

import (
	"strings"

	"github.com/bastiangx/wordmap/pkg/prefixtree"
	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
)

// Pair is one key pattern and its counterpart value pattern.
type Pair struct {
	Key   string
	Value string
}

type Option func(m *Mapping)

// WithMarker sets the wildcard marker used by both sides.
func WithMarker(marker string) Option {
	return func(m *Mapping) {
		if marker != "" {
			m.marker = marker
		}
	}
}

// Mapping answers lookups in both directions. It is immutable once built and
// safe for concurrent use.
type Mapping struct {
	forward *prefixtree.Tree
	reverse *prefixtree.Tree
	pairs   []Pair
	marker  string
}

// New builds the forward (key to value) and reverse (value to key) trees.
// Pair i is inserted into both trees with index i. A malformed pattern on
// either side aborts construction.
func New(pairs []Pair, opts ...Option) (*Mapping, error) {
	m := &Mapping{marker: prefixtree.DefaultMarker}
	for _, opt := range opts {
		opt(m)
	}

	m.forward = prefixtree.New(prefixtree.WithMarker(m.marker))
	m.reverse = prefixtree.New(prefixtree.WithMarker(m.marker))
	m.pairs = make([]Pair, len(pairs))
	copy(m.pairs, pairs)

	for i, pair := range m.pairs {
		if err := m.forward.Insert(pair.Key, i); err != nil {
			return nil, errors.Wrapf(err, "pair %d key", i)
		}

		if err := m.reverse.Insert(pair.Value, i); err != nil {
			return nil, errors.Wrapf(err, "pair %d value", i)
		}
	}

	log.Debugf("Built mapping: %d pairs, %d keys, %d values", len(m.pairs), m.forward.Len(), m.reverse.Len())

	return m, nil
}

// ValueFor maps a literal key to its value.
func (m *Mapping) ValueFor(key string) (string, bool) {
	match, ok := m.forward.Lookup(key)
	if !ok {
		return "", false
	}

	return m.substitute(m.pairs[match.Index].Value, match.Captured), true
}

// KeyFor maps a literal value back to its key.
func (m *Mapping) KeyFor(value string) (string, bool) {
	match, ok := m.reverse.Lookup(value)
	if !ok {
		return "", false
	}

	return m.substitute(m.pairs[match.Index].Key, match.Captured), true
}

func (m *Mapping) substitute(pattern, captured string) string {
	if !strings.Contains(pattern, m.marker) {
		return pattern
	}

	return strings.Replace(pattern, m.marker, captured, 1)
}

// Len returns the number of pairs.
func (m *Mapping) Len() int {
	return len(m.pairs)
}

// Pairs returns a copy of the pairs in registration order.
func (m *Mapping) Pairs() []Pair {
	out := make([]Pair, len(m.pairs))
	copy(out, m.pairs)

	return out
}

// Marker returns the wildcard marker.
func (m *Mapping) Marker() string {
	return m.marker
}

// Forward returns the key tree for inspection.
func (m *Mapping) Forward() *prefixtree.Tree {
	return m.forward
}

// Reverse returns the value tree for inspection.
func (m *Mapping) Reverse() *prefixtree.Tree {
	return m.reverse
}
