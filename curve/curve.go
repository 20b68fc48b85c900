// Package curve provides the parametric 3D curves that connections travel
// along. A curve is sampled into a polyline with a cumulative arc-length
// table so that emissions can be placed by distance traveled rather than by
// the curve's native parameter.
package curve

import (
	"sort"

	"cogentcore.org/core/math32"
)

// MinFidelity is the smallest number of samples a curve is tessellated into.
const MinFidelity = 3

// Curve is a parametric path measured by arc length.
type Curve interface {
	// Length returns the total arc length of the curve.
	Length() float32

	// PointAt returns the point at the given distance along the curve.
	// Distances outside [0, Length] are clamped.
	PointAt(distance float32) math32.Vector3
}

// Adapter computes curves between two endpoint positions.
type Adapter interface {
	// Compute returns a curve from a to b sampled at fidelity points.
	// previous, when non-nil, is the curve being replaced and may be refit
	// in place. neighbors are the curves of adjacent connections and may be
	// used to keep tangents continuous.
	Compute(a, b math32.Vector3, fidelity int, previous Curve, neighbors []Curve) Curve
}

// Polyline is a curve approximated by straight segments.
type Polyline struct {
	points  []math32.Vector3
	lengths []float32 // cumulative arc length at each point
	control math32.Vector3
	hasCtrl bool
}

// NewPolyline builds a polyline through the given points.
func NewPolyline(points []math32.Vector3) *Polyline {
	p := &Polyline{}
	p.Reset(points)
	return p
}

// Reset replaces the sampled points and recomputes the arc-length table.
func (p *Polyline) Reset(points []math32.Vector3) {
	p.points = append(p.points[:0], points...)
	if cap(p.lengths) < len(points) {
		p.lengths = make([]float32, len(points))
	}
	p.lengths = p.lengths[:len(points)]

	var total float32
	for i := range p.points {
		if i > 0 {
			total += p.points[i].DistanceTo(p.points[i-1])
		}
		p.lengths[i] = total
	}
}

// Points returns the sampled points of the polyline.
func (p *Polyline) Points() []math32.Vector3 {
	return p.points
}

// Control returns the control point the polyline was generated from, if any.
func (p *Polyline) Control() (math32.Vector3, bool) {
	return p.control, p.hasCtrl
}

// Length returns the total arc length.
func (p *Polyline) Length() float32 {
	if len(p.lengths) == 0 {
		return 0
	}
	return p.lengths[len(p.lengths)-1]
}

// PointAt returns the point at distance along the polyline.
func (p *Polyline) PointAt(distance float32) math32.Vector3 {
	switch len(p.points) {
	case 0:
		return math32.Vector3{}
	case 1:
		return p.points[0]
	}

	if distance <= 0 {
		return p.points[0]
	}
	total := p.Length()
	if distance >= total {
		return p.points[len(p.points)-1]
	}

	// First sample whose cumulative length reaches the distance
	i := sort.Search(len(p.lengths), func(i int) bool {
		return p.lengths[i] >= distance
	})
	if i == 0 {
		return p.points[0]
	}

	segment := p.lengths[i] - p.lengths[i-1]
	if segment <= 0 {
		return p.points[i]
	}
	t := (distance - p.lengths[i-1]) / segment
	return lerp(p.points[i-1], p.points[i], t)
}

func lerp(a, b math32.Vector3, t float32) math32.Vector3 {
	return a.Add(b.Sub(a).MulScalar(t))
}

func clampFidelity(fidelity int) int {
	if fidelity < MinFidelity {
		return MinFidelity
	}
	return fidelity
}

// reuse returns previous as a polyline when it can be refit in place.
func reuse(previous Curve) *Polyline {
	if p, ok := previous.(*Polyline); ok && p != nil {
		return p
	}
	return NewPolyline(nil)
}
