package graph

import (
	"cogentcore.org/core/math32"
	"github.com/google/uuid"
)

// Emission defaults
const (
	DefaultSpeed         float32 = 0.5
	DefaultMargin        float32 = 1
	DefaultInstanceCount         = 1
)

// Direction of travel relative to a connection's endpoint order.
type Direction int

const (
	// DirectionInvalid marks an emission that cannot travel the connection.
	DirectionInvalid Direction = iota
	// Forward travels from the first endpoint to the second.
	Forward
	// Backward travels from the second endpoint to the first.
	Backward
)

// String returns the name of the direction
func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return "invalid"
	}
}

// State is the life cycle stage of an emission.
type State int

const (
	// StateCreated is set until the emission joins a connection
	StateCreated State = iota
	// StateTraveling means the emission moves along its connection
	StateTraveling
	// StateExpired means the emission reached the end of its connection
	StateExpired
	// StateDestroyed means the emission was finished before reaching the end
	StateDestroyed
)

// String returns the name of the state
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateTraveling:
		return "traveling"
	case StateExpired:
		return "expired"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Options configure a new emission.
type Options struct {
	Speed         float32
	Margin        float32
	InstanceCount int
	Source        Endpoint
	Destination   Endpoint // nil broadcasts along every edge
}

// DefaultOptions returns the default options for an emission between two
// endpoints. destination may be nil.
func DefaultOptions(source, destination Endpoint) Options {
	return Options{
		Speed:         DefaultSpeed,
		Margin:        DefaultMargin,
		InstanceCount: DefaultInstanceCount,
		Source:        source,
		Destination:   destination,
	}
}

// Listener observes an emission life cycle event.
type Listener func(e *Emission)

// Emission is a single token traveling along a connection.
type Emission struct {
	ID     uuid.UUID
	Visual Visual

	Source      Endpoint
	Destination Endpoint

	// Vector is the signed distance traveled along the current curve.
	Vector    float32
	Direction Direction

	Speed         float32
	Margin        float32
	InstanceCount int

	// IsFinal marks the last hop of a routed emission.
	IsFinal    bool
	IsFinished bool

	options    Options
	kind       VisualKind
	state      State
	connection *Connection
	batch      *Batch
	slot       int
	position   math32.Vector3

	onEmit    []Listener
	onUpdate  []Listener
	onDestroy []Listener
	onNext    []Listener
}

// NewEmission creates an emission drawn with visual. Whether the emission
// is instanced is decided here, from the capabilities of visual.
func NewEmission(visual Visual, opts Options) *Emission {
	if opts.Speed <= 0 {
		opts.Speed = DefaultSpeed
	}
	if opts.Margin < 0 {
		opts.Margin = 0
	}
	if opts.InstanceCount < 1 {
		opts.InstanceCount = DefaultInstanceCount
	}

	return &Emission{
		ID:            uuid.New(),
		Visual:        visual,
		Source:        opts.Source,
		Destination:   opts.Destination,
		Speed:         opts.Speed,
		Margin:        opts.Margin,
		InstanceCount: opts.InstanceCount,
		options:       opts,
		kind:          kindOf(visual),
		slot:          -1,
	}
}

// Kind returns how the emission is drawn
func (e *Emission) Kind() VisualKind {
	return e.kind
}

// State returns the life cycle stage of the emission
func (e *Emission) State() State {
	return e.state
}

// Connection returns the connection the emission is traveling, if any
func (e *Emission) Connection() *Connection {
	return e.connection
}

// Position returns the last sampled world position
func (e *Emission) Position() math32.Vector3 {
	return e.position
}

// Slot returns the batch slot of an instanced emission, or -1
func (e *Emission) Slot() int {
	return e.slot
}

// OnEmit registers a listener fired when the emission starts traveling.
func (e *Emission) OnEmit(l Listener) {
	e.onEmit = append(e.onEmit, l)
}

// OnUpdate registers a listener fired after every advance.
func (e *Emission) OnUpdate(l Listener) {
	e.onUpdate = append(e.onUpdate, l)
}

// OnDestroy registers a listener fired when the emission is destroyed.
func (e *Emission) OnDestroy(l Listener) {
	e.onDestroy = append(e.onDestroy, l)
}

// OnNext registers a one-shot listener fired after the destroy listeners.
// It is how a routed emission continues onto its next hop.
func (e *Emission) OnNext(l Listener) {
	e.onNext = append(e.onNext, l)
}

// Clone returns a new emission with the same options and a cloned visual.
// Emit, update and destroy listeners are carried over; next listeners are
// not, since every hop gets its own continuation.
func (e *Emission) Clone() *Emission {
	visual := e.Visual.Clone()
	if sc, ok := visual.(StateCopier); ok {
		sc.CopyState(e.Visual)
	}

	c := NewEmission(visual, e.options)
	c.Source = e.Source
	c.Destination = e.Destination
	c.Speed = e.Speed
	c.Margin = e.Margin
	c.InstanceCount = e.InstanceCount
	c.onEmit = append([]Listener(nil), e.onEmit...)
	c.onUpdate = append([]Listener(nil), e.onUpdate...)
	c.onDestroy = append([]Listener(nil), e.onDestroy...)
	return c
}

// emit resets the kinematics to the start of the connection and creates the
// visual.
func (e *Emission) emit() {
	e.IsFinished = false
	e.state = StateTraveling
	e.Vector = 0
	if e.connection != nil {
		if e.Direction == Backward {
			e.Vector = e.connection.Length()
		}
		e.place(e.connection.pointAt(e.Vector))
	}

	// Instanced visuals are created once by their batch
	if e.kind == Individual {
		e.Visual.OnCreate()
	}
	fire(e, e.onEmit)
}

func (e *Emission) expired() bool {
	if e.connection == nil {
		return true
	}
	if e.Direction == Backward {
		return e.Vector <= 0
	}
	return e.Vector > e.connection.Length()
}

// update advances the emission one frame. It returns false once the
// emission is finished; an emission that expires is destroyed instead of
// being advanced.
func (e *Emission) update() bool {
	if e.IsFinished {
		return false
	}
	if e.expired() {
		e.state = StateExpired
		e.destroy()
		return false
	}

	if e.Direction == Backward {
		e.Vector -= e.Speed
	} else {
		e.Vector += e.Speed
	}
	e.place(e.connection.pointAt(e.Vector))

	if e.kind == Individual {
		e.Visual.OnUpdate()
	}
	fire(e, e.onUpdate)
	return true
}

// destroy finishes the emission. Destroy listeners run before next
// listeners, and next listeners run at most once.
func (e *Emission) destroy() {
	e.IsFinished = true
	if e.state != StateExpired {
		e.state = StateDestroyed
	}

	if e.kind == Individual {
		e.Visual.OnDestroy()
	}
	fire(e, e.onDestroy)

	next := e.onNext
	e.onNext = nil
	fire(e, next)
}

// retire finishes a template emission without notifying listeners.
func (e *Emission) retire() {
	if e.IsFinished {
		return
	}
	e.IsFinished = true
	e.state = StateDestroyed
	if e.kind == Individual {
		e.Visual.OnDestroy()
	}
}

func (e *Emission) place(p math32.Vector3) {
	e.position = p
	if e.batch != nil && e.slot >= 0 {
		e.batch.visual.SetInstancePosition(e.slot, p)
		return
	}
	e.Visual.SetPosition(p)
}

func fire(e *Emission, listeners []Listener) {
	for _, l := range listeners {
		l(e)
	}
}
