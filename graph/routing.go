package graph

// routing is the continuation of a routed emission: once the hop over edge
// expires, the emission continues from the far side of edge.
type routing struct {
	emission  *Emission
	edge      *Edge
	from      *Node
	traversed EdgeSet
}

// Emit starts e from its source and routes it toward its destination.
//
// Without a destination the emission floods outward along every edge it has
// not already traversed. With one, it follows the route table one hop at a
// time. Each hop is a clone of the previous one. Untracked endpoints and
// unreachable destinations are silently ignored.
//
// e itself only serves as the template for the first hops and is retired
// once they are launched.
func (g *PathGraph) Emit(e *Emission) {
	if e == nil {
		return
	}
	if g.stale {
		g.Rebuild()
	}

	e.emit()
	g.route(e, e.Source, nil, nil)
	e.retire()
}

// Tick advances every connection one frame and then continues the
// emissions whose hop ended during the frame.
func (g *PathGraph) Tick() {
	for _, e := range g.edges {
		e.Connection.Update()
	}
	g.Flush()
}

// Flush launches the next hop of every emission whose previous hop has
// ended. Hops are processed iteratively, in the order they ended.
func (g *PathGraph) Flush() {
	for len(g.pending) > 0 {
		r := g.pending[0]
		g.pending[0] = routing{}
		g.pending = g.pending[1:]
		g.advance(r)
	}
	g.pending = nil
}

// Pending returns the number of hops waiting to be continued
func (g *PathGraph) Pending() int {
	return len(g.pending)
}

func (g *PathGraph) advance(r routing) {
	done := r.emission
	if done.IsFinal {
		g.logger.Debug("emission delivered",
			"emission", done.ID,
			"destination", endpointID(done.Destination))
		return
	}

	far := r.edge.Other(r.from)
	if far == nil {
		return
	}

	// Never step straight back toward the node we came from
	exclude := r.from.EdgeSet().Union(r.traversed)
	g.route(done, far.Endpoint, exclude, r.traversed)
}

// route clones e onto every next edge leaving from.
func (g *PathGraph) route(e *Emission, from Endpoint, exclude, traversed EdgeSet) {
	if g.stale {
		g.Rebuild()
	}

	start := g.Node(from)
	if start == nil {
		g.logger.Debug("emission from untracked endpoint dropped",
			"emission", e.ID,
			"source", endpointID(from))
		return
	}

	next := g.nextEdges(start, e.Destination, exclude)
	if len(next) == 0 {
		g.logger.Debug("emission has no further hop",
			"emission", e.ID,
			"at", start.ID(),
			"destination", endpointID(e.Destination))
		return
	}

	for _, edge := range next {
		hop := e.Clone()
		hop.Source = start.Endpoint
		hop.IsFinal = e.Destination != nil && edge.Connection.Touches(e.Destination)

		r := routing{
			edge:      edge,
			from:      start,
			traversed: traversed.Union(NewEdgeSet(edge)),
		}
		hop.OnNext(func(ended *Emission) {
			r.emission = ended
			g.pending = append(g.pending, r)
		})

		edge.Connection.Emit(hop)
	}
}

// nextEdges picks the edges an emission at start continues on.
func (g *PathGraph) nextEdges(start *Node, destination Endpoint, exclude EdgeSet) []*Edge {
	if destination == nil {
		var result []*Edge
		for _, edge := range start.edges {
			if !exclude.Contains(edge) {
				result = append(result, edge)
			}
		}
		return result
	}

	end := g.Node(destination)
	if end == nil || end == start {
		return nil
	}
	for _, edge := range g.shortest[start.Index][end.Index] {
		if edge.Touches(start) && !exclude.Contains(edge) {
			return []*Edge{edge}
		}
	}
	return nil
}

func endpointID(ep Endpoint) string {
	if ep == nil {
		return ""
	}
	return ep.ID()
}
