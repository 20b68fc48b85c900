package graph

import (
	"fmt"

	"cogentcore.org/core/math32"
	"github.com/TFMV/echoflow/curve"
)

// DefaultFidelity is the number of curve samples used when none is given.
const DefaultFidelity = 32

// ConnectionOption configures a Connection.
type ConnectionOption func(*Connection)

// WithFidelity sets the number of curve samples.
func WithFidelity(n int) ConnectionOption {
	return func(c *Connection) {
		c.fidelity = clampFidelity(n)
	}
}

// WithCurveAdapter sets the adapter used to compute the curve.
func WithCurveAdapter(a curve.Adapter) ConnectionOption {
	return func(c *Connection) {
		if a != nil {
			c.adapter = a
		}
	}
}

// WithScene sets the scene that receives emission visuals.
func WithScene(s Scene) ConnectionOption {
	return func(c *Connection) {
		if s != nil {
			c.scene = s
		}
	}
}

// Connection is a curved path between two fixed endpoints that hosts
// traveling emissions.
type Connection struct {
	endpoints [2]Endpoint
	adapter   curve.Adapter
	scene     Scene

	curve       curve.Curve
	fidelity    int
	length      float32
	needsUpdate bool
	anchors     [2]math32.Vector3 // endpoint positions the curve was fit to

	emissions []*Emission
	incoming  []*Emission // emitted while an update pass is running
	updating  bool

	batches    []*Batch
	batchByKey map[string]*Batch

	source      *Node
	destination *Node
}

// NewConnection creates a connection from a to b. It fails when either
// endpoint is nil or both share the same identity.
func NewConnection(a, b Endpoint, opts ...ConnectionOption) (*Connection, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("new connection: %w", ErrNilEndpoint)
	}
	if a.ID() == b.ID() {
		return nil, fmt.Errorf("new connection %q: %w", a.ID(), ErrIdenticalEndpoints)
	}

	c := &Connection{
		endpoints:   [2]Endpoint{a, b},
		adapter:     curve.NewArc(),
		scene:       nopScene{},
		fidelity:    DefaultFidelity,
		needsUpdate: true,
		batchByKey:  make(map[string]*Batch),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoints returns the two endpoints in construction order
func (c *Connection) Endpoints() [2]Endpoint {
	return c.endpoints
}

// Source returns the node bound to the first endpoint, once added to a graph
func (c *Connection) Source() *Node {
	return c.source
}

// Destination returns the node bound to the second endpoint
func (c *Connection) Destination() *Node {
	return c.destination
}

// Touches reports whether ep is one of the connection's endpoints
func (c *Connection) Touches(ep Endpoint) bool {
	if ep == nil {
		return false
	}
	id := ep.ID()
	return c.endpoints[0].ID() == id || c.endpoints[1].ID() == id
}

// Fidelity returns the number of curve samples
func (c *Connection) Fidelity() int {
	return c.fidelity
}

// SetFidelity changes the number of curve samples, never going below
// curve.MinFidelity, and recomputes the curve.
func (c *Connection) SetFidelity(n int) {
	c.fidelity = clampFidelity(n)
	c.MarkDirty()
	c.refresh()
}

// MarkDirty forces the curve to be recomputed on next read.
func (c *Connection) MarkDirty() {
	c.needsUpdate = true
}

// Curve returns the current curve, recomputing it if needed
func (c *Connection) Curve() curve.Curve {
	c.refresh()
	return c.curve
}

// Length returns the current curve length, recomputing it if needed
func (c *Connection) Length() float32 {
	c.refresh()
	return c.length
}

// Emissions returns the free-form emissions in flight
func (c *Connection) Emissions() []*Emission {
	return c.emissions
}

// Batches returns the instanced batches in creation order
func (c *Connection) Batches() []*Batch {
	return c.batches
}

// Emit starts e on this connection. Emissions that cannot travel the
// connection, or that would start closer than their margin to an emission
// already in flight, are dropped and Emit returns false.
func (c *Connection) Emit(e *Emission) bool {
	dir := c.directionOf(e)
	if dir == DirectionInvalid {
		return false
	}
	if c.updating {
		c.incoming = append(c.incoming, e)
		return true
	}

	if e.kind == Instanced {
		return c.emitInstance(e, dir)
	}

	start := c.endpoints[terminalOf(dir)].Position()
	if c.overlapping(start, e.Margin) {
		return false
	}

	e.Direction = dir
	e.connection = c
	c.emissions = append(c.emissions, e)
	c.scene.AddEntity(e.Visual)
	e.emit()
	return true
}

// Update advances the connection one frame: the curve is refreshed first,
// then batches, then free-form emissions. Expired emissions leave the scene
// in the same pass.
func (c *Connection) Update() {
	c.refresh()

	c.updating = true
	for _, b := range c.batches {
		b.Update()
	}

	kept := c.emissions[:0]
	for _, e := range c.emissions {
		if e.update() {
			kept = append(kept, e)
			continue
		}
		c.scene.RemoveEntity(e.Visual)
	}
	for i := len(kept); i < len(c.emissions); i++ {
		c.emissions[i] = nil
	}
	c.emissions = kept
	c.updating = false

	pending := c.incoming
	c.incoming = nil
	for _, e := range pending {
		c.Emit(e)
	}
}

func (c *Connection) emitInstance(e *Emission, dir Direction) bool {
	visual := e.Visual.(InstancedVisual)
	b, ok := c.batchByKey[visual.InstanceKey()]
	if !ok {
		b = newBatch(c, visual, e.InstanceCount)
		c.batches = append(c.batches, b)
		c.batchByKey[b.key] = b
		c.scene.AddEntity(visual)
		visual.OnCreate()
	}

	if b.Overlapping(terminalOf(dir), e) {
		return false
	}
	e.Direction = dir
	e.connection = c
	return b.Add(e)
}

// directionOf resolves which way e would travel this connection.
func (c *Connection) directionOf(e *Emission) Direction {
	if e == nil || e.Source == nil {
		return DirectionInvalid
	}
	src := e.Source.ID()
	if e.Destination != nil && e.Destination.ID() == src {
		return DirectionInvalid
	}

	switch src {
	case c.endpoints[0].ID():
		return Forward
	case c.endpoints[1].ID():
		return Backward
	default:
		return DirectionInvalid
	}
}

func (c *Connection) overlapping(start math32.Vector3, margin float32) bool {
	for _, e := range c.emissions {
		if e.IsFinished {
			continue
		}
		if e.position.DistanceTo(start) < margin {
			return true
		}
	}
	return false
}

// refresh recomputes the curve when it is dirty or an endpoint moved.
func (c *Connection) refresh() {
	a, b := c.endpoints[0].Position(), c.endpoints[1].Position()
	if !c.needsUpdate && c.curve != nil && a == c.anchors[0] && b == c.anchors[1] {
		return
	}

	c.curve = c.adapter.Compute(a, b, c.fidelity, c.curve, c.neighbors())
	c.length = c.curve.Length()
	c.anchors = [2]math32.Vector3{a, b}
	c.needsUpdate = false
}

// neighbors returns the already computed curves feeding into this
// connection's source and leaving its destination.
func (c *Connection) neighbors() []curve.Curve {
	var result []curve.Curve
	add := func(conns []*Connection) {
		for _, n := range conns {
			if n != c && n.curve != nil {
				result = append(result, n.curve)
			}
		}
	}
	if c.source != nil {
		add(c.source.Upstream())
	}
	if c.destination != nil {
		add(c.destination.Downstream())
	}
	return result
}

func (c *Connection) bind(source, destination *Node) {
	c.source = source
	c.destination = destination
	c.MarkDirty()
}

func (c *Connection) pointAt(distance float32) math32.Vector3 {
	return c.Curve().PointAt(distance)
}

// String returns the connection as "a -> b"
func (c *Connection) String() string {
	return fmt.Sprintf("%s -> %s", c.endpoints[0].ID(), c.endpoints[1].ID())
}

func terminalOf(dir Direction) int {
	if dir == Backward {
		return 1
	}
	return 0
}

func clampFidelity(n int) int {
	if n < curve.MinFidelity {
		return curve.MinFidelity
	}
	return n
}
