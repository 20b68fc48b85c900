package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddIsIdempotent(t *testing.T) {
	a, b := pt("a", 0, 0, 0), pt("b", 1, 0, 0)
	ab := connect(t, a, b)
	ba := connect(t, b, a)

	g := NewPathGraph()
	g.Add(ab)
	g.Add(ab, ba)

	assert.Len(t, g.Edges(), 1)
	assert.Len(t, g.Nodes(), 2)
	assert.Same(t, ab, g.Edge(b, a).Connection)
}

func TestNodesKeepInsertionIndex(t *testing.T) {
	a, b, c := pt("a", 0, 0, 0), pt("b", 1, 0, 0), pt("c", 2, 0, 0)
	ab, bc := connect(t, a, b), connect(t, b, c)

	g := NewPathGraph()
	g.Add(ab, bc)

	require.Len(t, g.Nodes(), 3)
	assert.Equal(t, 0, g.Node(a).Index)
	assert.Equal(t, 1, g.Node(b).Index)
	assert.Equal(t, 2, g.Node(c).Index)
	assert.Nil(t, g.Node(pt("x", 0, 0, 0)))

	// Upstream/downstream follow connection endpoint order
	assert.Equal(t, []*Connection{ab}, g.Node(b).Upstream())
	assert.Equal(t, []*Connection{bc}, g.Node(b).Downstream())
	assert.Same(t, g.Node(a), ab.Source())
	assert.Same(t, g.Node(b), ab.Destination())
}

func TestGetPathConnectionsChain(t *testing.T) {
	a, b, c := pt("a", 0, 0, 0), pt("b", 4, 0, 0), pt("c", 8, 0, 0)
	ab, bc := connect(t, a, b), connect(t, b, c)

	g := NewPathGraph()
	g.Add(ab, bc)
	g.Rebuild()

	assert.Equal(t, []*Connection{ab, bc}, g.GetPathConnections(a, c))
	assert.Equal(t, []*Connection{ab, bc}, g.GetPathConnections(c, a))
	assert.Equal(t, []*Connection{ab}, g.GetPathConnections(a, b))
	assert.Empty(t, g.GetPathConnections(a, a))
	assert.Empty(t, g.GetPathConnections(a, pt("x", 0, 0, 0)))
}

func TestRebuildDiagonalIsEmpty(t *testing.T) {
	g := ringGraph(t, 5, WithBiased(true))
	g.Rebuild()

	for i := range g.shortest {
		assert.True(t, g.shortest[i][i].Empty(), "node %d routes to itself", i)
	}
}

func TestRebuildFindsFewestEdgeRoutes(t *testing.T) {
	for _, biased := range []bool{true, false} {
		g := ringGraph(t, 8, WithBiased(biased))

		// Chord across the ring
		nodes := g.Nodes()
		g.Add(connect(t, nodes[1].Endpoint, nodes[5].Endpoint))
		g.Rebuild()

		dist := hopDistances(g)
		for i := range nodes {
			for j := range nodes {
				if i == j {
					continue
				}
				assert.Equal(t, dist[i][j], g.shortest[i][j].Len(),
					"biased=%v route %d->%d", biased, i, j)
			}
		}
	}
}

func TestRebuildLongChainIsComplete(t *testing.T) {
	g := NewPathGraph()
	points := make([]*point, 12)
	for i := range points {
		points[i] = pt(string(rune('a'+i)), float32(i), 0, 0)
	}
	for i := 1; i < len(points); i++ {
		g.Add(connect(t, points[i-1], points[i]))
	}
	g.Rebuild()

	assert.Len(t, g.PathEdges(points[0], points[11]), 11)
	assert.Len(t, g.PathEdges(points[11], points[0]), 11)
	assert.Len(t, g.PathEdges(points[3], points[9]), 6)
}

func TestRebuildUnbiasedIsSymmetric(t *testing.T) {
	g := ringGraph(t, 7, WithBiased(false))
	nodes := g.Nodes()
	g.Add(
		connect(t, nodes[0].Endpoint, nodes[3].Endpoint),
		connect(t, nodes[2].Endpoint, nodes[5].Endpoint),
	)
	g.Rebuild()

	for i := range nodes {
		for j := range nodes {
			assert.Equal(t, indexes(g.shortest[i][j]), indexes(g.shortest[j][i]),
				"route %d->%d differs from its reverse", i, j)
		}
	}
}

func TestRebuildLeavesUnreachablePairsEmpty(t *testing.T) {
	a, b := pt("a", 0, 0, 0), pt("b", 1, 0, 0)
	x, y := pt("x", 5, 0, 0), pt("y", 6, 0, 0)

	g := NewPathGraph()
	g.Add(connect(t, a, b), connect(t, x, y))
	g.Rebuild()

	assert.True(t, g.PathEdges(a, x).Empty())
	assert.True(t, g.PathEdges(b, y).Empty())
	assert.Equal(t, 1, g.PathEdges(x, y).Len())
}

func TestResetDropsTopology(t *testing.T) {
	g := ringGraph(t, 4)
	g.Rebuild()
	g.Reset()

	assert.Empty(t, g.Nodes())
	assert.Empty(t, g.Edges())
	assert.Empty(t, g.Connections())
}

func TestEdgeSetOperations(t *testing.T) {
	g := ringGraph(t, 4)
	e := g.Edges()

	s := NewEdgeSet(e[2], e[0], e[2])
	assert.Equal(t, []int{0, 2}, indexes(s))
	assert.True(t, s.Contains(e[0]))
	assert.False(t, s.Contains(e[1]))

	u := s.Union(NewEdgeSet(e[1], e[2]))
	assert.Equal(t, []int{0, 1, 2}, indexes(u))
	assert.Equal(t, 3, s.unionLen(NewEdgeSet(e[1], e[2])))
	assert.Equal(t, 0, EdgeSet(nil).unionLen(nil))
	assert.Equal(t, []*Edge{e[0], e[2]}, s.Edges())
}

// ringGraph builds n points on a ring, each connected to the next.
func ringGraph(t *testing.T, n int, opts ...Option) *PathGraph {
	t.Helper()
	points := make([]*point, n)
	for i := range points {
		points[i] = pt(string(rune('a'+i)), float32(i), float32(i%2), 0)
	}

	g := NewPathGraph(opts...)
	for i := range points {
		g.Add(connect(t, points[i], points[(i+1)%n]))
	}
	return g
}

// hopDistances computes edge-count distances with a breadth-first search.
func hopDistances(g *PathGraph) [][]int {
	n := len(g.Nodes())
	dist := make([][]int, n)
	for s := range dist {
		dist[s] = make([]int, n)
		for i := range dist[s] {
			dist[s][i] = -1
		}
		dist[s][s] = 0
		queue := []*Node{g.Nodes()[s]}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, e := range cur.Edges() {
				next := e.Other(cur)
				if dist[s][next.Index] < 0 {
					dist[s][next.Index] = dist[s][cur.Index] + 1
					queue = append(queue, next)
				}
			}
		}
	}
	return dist
}
