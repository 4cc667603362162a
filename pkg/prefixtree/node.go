package prefixtree

// Node is a tree vertex. It owns its outgoing edges in insertion order and,
// when some pattern ends here, the index that pattern was inserted with.
type Node struct {
	edges    []*Edge
	terminal *int
	// order is the registration sequence of the pattern ending here.
	order int
}

// Edge owns exactly one child node and carries either a literal label or the
// wildcard marker.
type Edge struct {
	label    string
	wildcard bool
	child    *Node
}

// Match is the result of a successful Lookup.
type Match struct {
	Query string
	Index int
	// Captured holds the text consumed by a wildcard edge. It is empty when
	// the matched pattern had no wildcard.
	Captured string
	Wildcard bool
}

// Edges returns the outgoing edges of n in insertion order.
func (n *Node) Edges() []*Edge {
	return n.edges
}

// Terminal returns the index attached to n, if any.
func (n *Node) Terminal() (int, bool) {
	if n.terminal == nil {
		return 0, false
	}
	return *n.terminal, true
}

func (n *Node) isTerminal() bool {
	return n.terminal != nil
}

func (n *Node) appendEdge(label string, wildcard bool) *Node {
	child := &Node{}
	n.edges = append(n.edges, &Edge{label: label, wildcard: wildcard, child: child})
	return child
}

// Label returns the literal label, or the marker for wildcard edges.
func (e *Edge) Label() string {
	return e.label
}

// Wildcard reports whether e captures text instead of matching it literally.
func (e *Edge) Wildcard() bool {
	return e.wildcard
}

// Child returns the node e leads to.
func (e *Edge) Child() *Node {
	return e.child
}
