// Package prefixtree implements a compressed prefix tree (radix tree) whose
// patterns may contain a single wildcard marker.
//
// A tree is built once with Insert and then queried with Lookup. Lookup never
// mutates the tree, so a finished tree is safe for concurrent readers without
// locking. Insert is not safe for concurrent use.
//
// # Ordering contract
//
// Edges are kept and tried in insertion order and the first edge that
// accepts the query wins; there is no backtracking across siblings. When
// several wildcard patterns could match the same query (for example "%y",
// "%s" and "%"), the pattern registered first wins. Callers must therefore
// insert specific patterns before broader catch-all ones.
package prefixtree

import (
	"strings"

	"github.com/pkg/errors"
)

// DefaultMarker is the wildcard marker used when no other is configured.
const DefaultMarker = "%"

type Option func(t *Tree)

// WithMarker sets the wildcard marker. Empty markers are ignored.
func WithMarker(marker string) Option {
	return func(t *Tree) {
		if marker != "" {
			t.marker = marker
		}
	}
}

type Tree struct {
	root   *Node
	marker string
	size   int
	seq    int
}

func New(opts ...Option) *Tree {
	t := &Tree{
		root:   &Node{},
		marker: DefaultMarker,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Root returns the root node for read-only inspection.
func (t *Tree) Root() *Node {
	return t.root
}

// Marker returns the wildcard marker of t.
func (t *Tree) Marker() string {
	return t.marker
}

// Len returns the number of distinct patterns in t.
func (t *Tree) Len() int {
	return t.size
}

// Insert registers pattern under index. Inserting a pattern that is already
// present keeps the first registration. A pattern with more than one wildcard
// marker is rejected with ErrMalformedPattern; after such an error the tree
// must not be used.
func (t *Tree) Insert(pattern string, index int) error {
	if len(pattern) == 0 {
		return errors.WithStack(ErrEmptyPattern)
	}

	parts, err := t.split(pattern)
	if err != nil {
		return err
	}

	node := t.root
	for _, part := range parts {
		node = node.insertPart(part, part == t.marker)
	}

	if node.isTerminal() {
		return nil
	}

	terminal := index
	node.terminal = &terminal
	node.order = t.seq

	t.seq++
	t.size++

	return nil
}

// split cuts pattern into its literal and wildcard parts:
// [literal], [wildcard], [wildcard literal], [literal wildcard] or
// [literal wildcard literal].
func (t *Tree) split(pattern string) ([]string, error) {
	switch count := strings.Count(pattern, t.marker); count {
	case 0:
		return []string{pattern}, nil
	case 1:
	default:
		return nil, errors.Wrapf(ErrMalformedPattern, "%q has %d wildcard markers", pattern, count)
	}

	before, after, _ := strings.Cut(pattern, t.marker)

	parts := make([]string, 0, 3)
	if before != "" {
		parts = append(parts, before)
	}

	parts = append(parts, t.marker)

	if after != "" {
		parts = append(parts, after)
	}

	return parts, nil
}

func (n *Node) insertPart(part string, wildcard bool) *Node {
	node := n

	for len(part) > 0 {
		i, prefix := node.sharedEdge(part, wildcard)
		if i < 0 {
			return node.appendEdge(part, wildcard)
		}

		edge := node.edges[i]
		if len(prefix) == len(edge.label) {
			node = edge.child
			part = part[len(prefix):]

			continue
		}

		// Only part of the edge label is shared. Put an intermediate node
		// holding the shared prefix in the place of the existing edge.
		mid := &Node{
			edges: []*Edge{{label: edge.label[len(prefix):], wildcard: edge.wildcard, child: edge.child}},
		}
		node.edges[i] = &Edge{label: prefix, wildcard: edge.wildcard, child: mid}

		rest := part[len(prefix):]
		if rest == "" {
			return mid
		}

		return mid.appendEdge(rest, wildcard)
	}

	return node
}

// sharedEdge returns the position of the first edge of the same kind sharing
// a non-empty prefix with part, or -1.
func (n *Node) sharedEdge(part string, wildcard bool) (int, string) {
	for i, edge := range n.edges {
		if edge.wildcard != wildcard {
			continue
		}

		if prefix := CommonPrefix(edge.label, part); prefix != "" {
			return i, prefix
		}
	}

	return -1, ""
}

// Lookup matches query against the registered patterns. It reports false
// when no pattern accepts the whole query.
func (t *Tree) Lookup(query string) (Match, bool) {
	var (
		node     = t.root
		consumed int
		captured string
		wildcard bool
	)

	for len(node.edges) > 0 && consumed < len(query) {
		remainder := query[consumed:]

		var next *Node

		for _, edge := range node.edges {
			switch {
			case !edge.wildcard:
				if strings.HasPrefix(remainder, edge.label) {
					next = edge.child
					consumed += len(edge.label)
				}
			case len(edge.child.edges) == 0:
				// Trailing wildcard takes everything that is left.
				next = edge.child
				captured, wildcard = remainder, true
				consumed = len(query)
			default:
				if target, tail, ok := edge.child.anchor(remainder); ok {
					next = target
					captured, wildcard = remainder[:len(remainder)-len(tail)], true
					consumed = len(query)
				}
			}

			if next != nil {
				break
			}
		}

		if next == nil {
			return Match{}, false
		}

		node = next
	}

	if consumed != len(query) || !node.isTerminal() {
		return Match{}, false
	}

	return Match{Query: query, Index: *node.terminal, Captured: captured, Wildcard: wildcard}, true
}

// anchor resolves a wildcard whose target n has literal continuations. The
// continuation is placed at its rightmost possible position, which is the end
// of remainder since nothing but literals follow a wildcard, and must leave at
// least one character for the capture. n itself takes part with an empty tail
// when a pattern ends at the wildcard. The earliest registered candidate wins.
func (n *Node) anchor(remainder string) (*Node, string, bool) {
	var (
		best *Node
		tail string
	)

	if n.isTerminal() {
		best = n
	}

	n.walkTails("", len(remainder), func(candidate *Node, suffix string) {
		if !strings.HasSuffix(remainder, suffix) {
			return
		}

		if best == nil || candidate.order < best.order {
			best, tail = candidate, suffix
		}
	})

	return best, tail, best != nil
}

// walkTails visits every terminal below n together with the literal text
// leading to it, skipping tails of limit bytes or more.
func (n *Node) walkTails(prefix string, limit int, fn func(*Node, string)) {
	for _, edge := range n.edges {
		tail := prefix + edge.label
		if len(tail) >= limit {
			continue
		}

		if edge.child.isTerminal() {
			fn(edge.child, tail)
		}

		edge.child.walkTails(tail, limit, fn)
	}
}

// Walk calls fn for every registered pattern in depth-first edge order.
func (t *Tree) Walk(fn func(pattern string, index int)) {
	t.root.walk("", fn)
}

func (n *Node) walk(path string, fn func(string, int)) {
	if n.isTerminal() {
		fn(path, *n.terminal)
	}

	for _, edge := range n.edges {
		edge.child.walk(path+edge.label, fn)
	}
}
