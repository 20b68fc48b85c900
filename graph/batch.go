package graph

import (
	"math"

	"cogentcore.org/core/math32"
)

// ParkedPosition is where unused instance slots are moved to keep them
// out of view.
var ParkedPosition = math32.Vec3(1e6, 1e6, 1e6)

const farAway float32 = math.MaxFloat32

// Comparator tracks the nearest emission to one terminal of a connection
// during the current frame.
type Comparator struct {
	Terminal int
	Nearest  float32
}

func (c *Comparator) reset() {
	c.Nearest = farAway
}

func (c *Comparator) consider(distance float32) {
	if distance < c.Nearest {
		c.Nearest = distance
	}
}

// Batch is a fixed-capacity pool of emissions sharing one instanced visual.
type Batch struct {
	key         string
	visual      InstancedVisual
	connection  *Connection
	slots       []*Emission
	active      int
	comparators [2]Comparator
}

func newBatch(conn *Connection, visual InstancedVisual, capacity int) *Batch {
	if capacity < 1 {
		capacity = 1
	}
	b := &Batch{
		key:        visual.InstanceKey(),
		visual:     visual,
		connection: conn,
		slots:      make([]*Emission, capacity),
	}
	for i := range b.comparators {
		b.comparators[i] = Comparator{Terminal: i}
		b.comparators[i].reset()
	}
	for i := range b.slots {
		visual.SetInstancePosition(i, ParkedPosition)
	}
	return b
}

// Key returns the instance key shared by the batch's emissions
func (b *Batch) Key() string {
	return b.key
}

// Visual returns the shared instanced visual
func (b *Batch) Visual() InstancedVisual {
	return b.visual
}

// Capacity returns the number of slots
func (b *Batch) Capacity() int {
	return len(b.slots)
}

// Active returns the number of occupied slots
func (b *Batch) Active() int {
	return b.active
}

// Emissions returns the emissions currently occupying slots
func (b *Batch) Emissions() []*Emission {
	result := make([]*Emission, 0, b.active)
	for _, e := range b.slots {
		if e != nil {
			result = append(result, e)
		}
	}
	return result
}

// Comparator returns the nearest-distance tracker for a terminal
func (b *Batch) Comparator(terminal int) Comparator {
	return b.comparators[terminal]
}

// Add places e into the first free slot and starts it. It returns false
// when every slot is taken.
func (b *Batch) Add(e *Emission) bool {
	for i, s := range b.slots {
		if s != nil {
			continue
		}
		b.slots[i] = e
		b.active++
		e.batch = b
		e.slot = i
		e.emit()

		// Count the newcomer right away so a second emission in the same
		// frame sees it
		b.track(e)
		return true
	}
	return false
}

// Update advances every occupied slot and frees the expired ones.
func (b *Batch) Update() {
	if b.active <= 0 {
		return
	}
	for i := range b.comparators {
		b.comparators[i].reset()
	}

	for i, e := range b.slots {
		if e == nil {
			b.visual.SetInstancePosition(i, ParkedPosition)
			continue
		}
		if !e.update() {
			b.release(i)
			continue
		}
		b.track(e)
	}
	b.visual.OnUpdate()
}

// Overlapping reports whether the nearest emission to the terminal is
// closer than e's margin.
func (b *Batch) Overlapping(terminal int, e *Emission) bool {
	return b.comparators[terminal].Nearest < e.Margin
}

func (b *Batch) track(e *Emission) {
	ends := b.connection.endpoints
	for t := range b.comparators {
		b.comparators[t].consider(e.position.DistanceTo(ends[t].Position()))
	}
}

func (b *Batch) release(slot int) {
	if e := b.slots[slot]; e != nil {
		e.batch = nil
		e.slot = -1
	}
	b.slots[slot] = nil
	b.active--
	b.visual.SetInstancePosition(slot, ParkedPosition)
	if b.active == 0 {
		for i := range b.comparators {
			b.comparators[i].reset()
		}
	}
}
