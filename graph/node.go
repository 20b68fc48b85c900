package graph

import (
	"sort"
)

// Node is a graph vertex wrapping one endpoint.
type Node struct {
	Endpoint Endpoint

	// Index is assigned on first insertion and never changes.
	Index int

	edges []*Edge
}

// ID returns the identity of the wrapped endpoint
func (n *Node) ID() string {
	return n.Endpoint.ID()
}

// Edges returns the edges incident to the node
func (n *Node) Edges() []*Edge {
	return n.edges
}

// EdgeSet returns the incident edges as a set
func (n *Node) EdgeSet() EdgeSet {
	return NewEdgeSet(n.edges...)
}

// Upstream returns the connections whose edge ends at this node.
func (n *Node) Upstream() []*Connection {
	var result []*Connection
	for _, e := range n.edges {
		if e.Destination == n {
			result = append(result, e.Connection)
		}
	}
	return result
}

// Downstream returns the connections whose edge starts at this node.
func (n *Node) Downstream() []*Connection {
	var result []*Connection
	for _, e := range n.edges {
		if e.Source == n {
			result = append(result, e.Connection)
		}
	}
	return result
}

// Edge binds a connection to its two nodes.
type Edge struct {
	Connection  *Connection
	Source      *Node
	Destination *Node

	index int
}

func newEdge(index int, conn *Connection, source, destination *Node) *Edge {
	e := &Edge{
		Connection:  conn,
		Source:      source,
		Destination: destination,
		index:       index,
	}
	source.edges = append(source.edges, e)
	destination.edges = append(destination.edges, e)
	conn.bind(source, destination)
	return e
}

// Index returns the insertion order of the edge
func (e *Edge) Index() int {
	return e.index
}

// Touches reports whether the edge is incident to n
func (e *Edge) Touches(n *Node) bool {
	return e.Source == n || e.Destination == n
}

// Other returns the node on the opposite side of n, or nil if the edge does
// not touch n.
func (e *Edge) Other(n *Node) *Node {
	switch n {
	case e.Source:
		return e.Destination
	case e.Destination:
		return e.Source
	default:
		return nil
	}
}

// EdgeSet is a set of edges kept sorted by edge index.
type EdgeSet []*Edge

// NewEdgeSet builds a set from the given edges, dropping duplicates.
func NewEdgeSet(edges ...*Edge) EdgeSet {
	if len(edges) == 0 {
		return nil
	}
	s := make(EdgeSet, len(edges))
	copy(s, edges)
	sort.Slice(s, func(i, j int) bool { return s[i].index < s[j].index })

	out := s[:1]
	for _, e := range s[1:] {
		if e != out[len(out)-1] {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of edges in the set
func (s EdgeSet) Len() int {
	return len(s)
}

// Edges returns a copy of the edges in index order
func (s EdgeSet) Edges() []*Edge {
	return append([]*Edge(nil), s...)
}

// Empty reports whether the set has no edges
func (s EdgeSet) Empty() bool {
	return len(s) == 0
}

// Contains reports whether e is in the set
func (s EdgeSet) Contains(e *Edge) bool {
	if e == nil {
		return false
	}
	i := sort.Search(len(s), func(i int) bool { return s[i].index >= e.index })
	return i < len(s) && s[i] == e
}

// Union returns a new set with the edges of both sets.
func (s EdgeSet) Union(o EdgeSet) EdgeSet {
	out := make(EdgeSet, 0, len(s)+len(o))
	i, j := 0, 0
	for i < len(s) && j < len(o) {
		switch {
		case s[i].index < o[j].index:
			out = append(out, s[i])
			i++
		case s[i].index > o[j].index:
			out = append(out, o[j])
			j++
		default:
			out = append(out, s[i])
			i++
			j++
		}
	}
	out = append(out, s[i:]...)
	return append(out, o[j:]...)
}

// unionLen counts the union without allocating it.
func (s EdgeSet) unionLen(o EdgeSet) int {
	n, i, j := 0, 0, 0
	for i < len(s) && j < len(o) {
		switch {
		case s[i].index < o[j].index:
			i++
		case s[i].index > o[j].index:
			j++
		default:
			i++
			j++
		}
		n++
	}
	return n + len(s) - i + len(o) - j
}

// Connections returns the connections of the edges in index order
func (s EdgeSet) Connections() []*Connection {
	result := make([]*Connection, 0, len(s))
	for _, e := range s {
		result = append(result, e.Connection)
	}
	return result
}
