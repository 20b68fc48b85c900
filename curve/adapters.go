package curve

import (
	"cogentcore.org/core/math32"
)

// Line connects two points with a straight segment.
type Line struct{}

// Compute returns a straight polyline from a to b.
func (Line) Compute(a, b math32.Vector3, fidelity int, previous Curve, _ []Curve) Curve {
	fidelity = clampFidelity(fidelity)
	points := make([]math32.Vector3, fidelity)
	for i := range points {
		points[i] = lerp(a, b, float32(i)/float32(fidelity-1))
	}

	p := reuse(previous)
	p.Reset(points)
	p.hasCtrl = false
	return p
}

// Arc connects two points with a quadratic Bezier raised along Up.
type Arc struct {
	// Up is the direction the arc bulges toward.
	Up math32.Vector3

	// Height scales the bulge relative to the endpoint distance.
	Height float32

	// Tension blends the control point toward the neighbors' control
	// offsets, in [0, 1].
	Tension float32
}

// NewArc returns an arc adapter bulging along +Y.
func NewArc() *Arc {
	return &Arc{
		Up:      math32.Vec3(0, 1, 0),
		Height:  0.25,
		Tension: 0.2,
	}
}

// Compute returns a sampled quadratic Bezier from a to b.
func (arc *Arc) Compute(a, b math32.Vector3, fidelity int, previous Curve, neighbors []Curve) Curve {
	fidelity = clampFidelity(fidelity)

	mid := lerp(a, b, 0.5)
	offset := arc.Up.MulScalar(arc.Height * a.DistanceTo(b))

	// Pull the bulge toward the average of the neighboring bulges so chains
	// of connections read as one continuous flow
	if arc.Tension > 0 {
		var sum math32.Vector3
		count := 0
		for _, n := range neighbors {
			p, ok := n.(*Polyline)
			if !ok || p == nil || p == previous {
				continue
			}
			ctrl, ok := p.Control()
			if !ok || len(p.points) == 0 {
				continue
			}
			nmid := lerp(p.points[0], p.points[len(p.points)-1], 0.5)
			sum = sum.Add(ctrl.Sub(nmid))
			count++
		}
		if count > 0 {
			avg := sum.MulScalar(1 / float32(count))
			offset = lerp(offset, avg, arc.Tension)
		}
	}
	control := mid.Add(offset)

	points := make([]math32.Vector3, fidelity)
	for i := range points {
		t := float32(i) / float32(fidelity-1)
		points[i] = quadratic(a, control, b, t)
	}

	p := reuse(previous)
	p.Reset(points)
	p.control = control
	p.hasCtrl = true
	return p
}

func quadratic(a, c, b math32.Vector3, t float32) math32.Vector3 {
	u := 1 - t
	return a.MulScalar(u * u).Add(c.MulScalar(2 * u * t)).Add(b.MulScalar(t * t))
}

// GetAdapter returns a curve adapter by name.
func GetAdapter(name string) Adapter {
	switch name {
	case "line":
		return Line{}
	default:
		return NewArc()
	}
}
