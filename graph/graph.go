// Package graph implements the path graph that emissions travel on: nodes
// wrapping endpoints, edges binding connections to them, the precomputed
// table of fewest-edge routes, and the routing of emissions hop by hop.
//
// The package is frame driven and single-threaded. Hosts that tick the
// graph from several goroutines must serialize access themselves.
package graph

import (
	"log/slog"
	"time"
)

// Option configures a PathGraph.
type Option func(*PathGraph)

// WithBiased controls whether a route computed from i to j is reused for
// j to i (true) or searched for independently (false). Routes are
// undirected edge sets, so both settings currently yield the same table.
func WithBiased(biased bool) Option {
	return func(g *PathGraph) {
		g.biased = biased
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(g *PathGraph) {
		if logger != nil {
			g.logger = logger
		}
	}
}

type pairKey struct {
	a, b string
}

func keyOf(a, b Endpoint) pairKey {
	x, y := a.ID(), b.ID()
	if x > y {
		x, y = y, x
	}
	return pairKey{a: x, b: y}
}

// PathGraph owns the nodes and edges built over a set of connections and
// the table of shortest routes between every pair of nodes.
type PathGraph struct {
	biased bool
	logger *slog.Logger

	nodes map[string]*Node
	order []*Node
	edges []*Edge
	pairs map[pairKey]*Edge

	// shortest[i][j] is the smallest edge set routing node i to node j
	shortest [][]EdgeSet
	stale    bool

	pending []routing
}

// NewPathGraph creates an empty graph. Routes are biased by default.
func NewPathGraph(opts ...Option) *PathGraph {
	g := &PathGraph{
		biased: true,
		logger: slog.Default(),
		nodes:  make(map[string]*Node),
		pairs:  make(map[pairKey]*Edge),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Biased reports whether routes are reused in both directions
func (g *PathGraph) Biased() bool {
	return g.biased
}

// Add registers connections with the graph. A connection whose endpoint
// pair, in either order, is already present is ignored.
func (g *PathGraph) Add(conns ...*Connection) {
	for _, c := range conns {
		if c == nil {
			continue
		}
		key := keyOf(c.endpoints[0], c.endpoints[1])
		if _, exists := g.pairs[key]; exists {
			continue
		}

		source := g.nodeFor(c.endpoints[0])
		destination := g.nodeFor(c.endpoints[1])
		edge := newEdge(len(g.edges), c, source, destination)
		g.edges = append(g.edges, edge)
		g.pairs[key] = edge
		g.stale = true

		g.logger.Debug("connection added",
			"connection", c.String(),
			"edge", edge.index,
			"nodes", len(g.order))
	}
}

func (g *PathGraph) nodeFor(ep Endpoint) *Node {
	if n, ok := g.nodes[ep.ID()]; ok {
		return n
	}
	n := &Node{Endpoint: ep, Index: len(g.order)}
	g.nodes[ep.ID()] = n
	g.order = append(g.order, n)
	return n
}

// Node returns the node wrapping ep, or nil if ep is not tracked
func (g *PathGraph) Node(ep Endpoint) *Node {
	if ep == nil {
		return nil
	}
	return g.nodes[ep.ID()]
}

// Nodes returns the nodes in index order
func (g *PathGraph) Nodes() []*Node {
	return g.order
}

// Edges returns the edges in insertion order
func (g *PathGraph) Edges() []*Edge {
	return g.edges
}

// Edge returns the edge between two endpoints in either order, or nil
func (g *PathGraph) Edge(a, b Endpoint) *Edge {
	if a == nil || b == nil {
		return nil
	}
	return g.pairs[keyOf(a, b)]
}

// Connections returns the connections of every edge in insertion order
func (g *PathGraph) Connections() []*Connection {
	result := make([]*Connection, 0, len(g.edges))
	for _, e := range g.edges {
		result = append(result, e.Connection)
	}
	return result
}

// Reset drops every node, edge, route and pending hop. The graph is rebuilt
// from scratch when the topology changes.
func (g *PathGraph) Reset() {
	g.nodes = make(map[string]*Node)
	g.pairs = make(map[pairKey]*Edge)
	g.order = nil
	g.edges = nil
	g.shortest = nil
	g.pending = nil
	g.stale = false
}

// Rebuild recomputes the route table from scratch.
//
// Direct neighbors route over their own edge. Every other pair takes the
// smallest union of two known routes through an intermediate node, which
// makes the table hold fewest-edge routes rather than geometrically
// shortest ones. Each round only combines routes found in earlier rounds
// and rounds repeat until nothing changes, so a pair is left empty only
// when it is unreachable.
func (g *PathGraph) Rebuild() {
	start := time.Now()
	n := len(g.order)

	m := make([][]EdgeSet, n)
	for i := range m {
		m[i] = make([]EdgeSet, n)
	}
	for _, e := range g.edges {
		direct := NewEdgeSet(e)
		m[e.Source.Index][e.Destination.Index] = direct
		m[e.Destination.Index][e.Source.Index] = direct
	}

	rounds := 0
	for {
		prev := snapshot(m)
		changed := false

		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if i == j || !m[i][j].Empty() {
					continue
				}
				best := bestJump(prev, i, j)
				if best.Empty() {
					continue
				}
				m[i][j] = best
				changed = true

				if !m[j][i].Empty() {
					continue
				}
				if g.biased {
					m[j][i] = best
				} else if reverse := bestJump(prev, j, i); !reverse.Empty() {
					m[j][i] = reverse
				}
			}
		}

		rounds++
		if !changed {
			break
		}
	}

	g.shortest = m
	g.stale = false

	g.logger.Debug("routes rebuilt",
		"nodes", n,
		"edges", len(g.edges),
		"rounds", rounds,
		"biased", g.biased,
		"elapsed", time.Since(start))
}

// bestJump finds the smallest union m[i][k] + m[k][j] over every
// intermediate k. Ties go to the later k.
func bestJump(m [][]EdgeSet, i, j int) EdgeSet {
	var best EdgeSet
	for k := range m {
		if k == i || k == j {
			continue
		}
		a, b := m[i][k], m[k][j]
		if a.Empty() || b.Empty() {
			continue
		}
		if best != nil && a.unionLen(b) > best.Len() {
			continue
		}
		best = a.Union(b)
	}
	return best
}

func snapshot(m [][]EdgeSet) [][]EdgeSet {
	out := make([][]EdgeSet, len(m))
	for i := range m {
		out[i] = append([]EdgeSet(nil), m[i]...)
	}
	return out
}

// PathEdges returns the edges routing a to b. The set is empty when either
// endpoint is untracked or no route exists.
func (g *PathGraph) PathEdges(a, b Endpoint) EdgeSet {
	if g.stale {
		g.Rebuild()
	}
	start, end := g.Node(a), g.Node(b)
	if start == nil || end == nil {
		return nil
	}
	return g.shortest[start.Index][end.Index]
}

// GetPathConnections returns the connections routing a to b.
func (g *PathGraph) GetPathConnections(a, b Endpoint) []*Connection {
	return g.PathEdges(a, b).Connections()
}
