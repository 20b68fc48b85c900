// Package physics positions the points of a topology in 3D space. Points
// whose position was given explicitly are marked Fixed and are never moved;
// they still push and pull on the points around them.
package physics

import (
	"context"
	"time"

	"cogentcore.org/core/math32"
	"github.com/TFMV/echoflow/models"
)

// DefaultExtent is the edge length of the cube layouts place points in,
// centered on the origin
const DefaultExtent float32 = 10

// LayoutAlgorithm defines an interface for layout algorithms
type LayoutAlgorithm interface {
	Initialize(topology *models.Topology)
	Step() bool // Returns true if stable, false if needs more steps
	Apply(topology *models.Topology)
	Name() string
}

// Bounded is implemented by layouts whose cube of extent can be changed
// before Initialize
type Bounded interface {
	SetExtent(extent float32)
}

// GetLayoutAlgorithm returns a layout algorithm by name
func GetLayoutAlgorithm(name string) (LayoutAlgorithm, error) {
	seed := time.Now().UnixNano()
	switch name {
	case "ring":
		return NewRingLayout(), nil
	case "surreal":
		return NewSurrealLayout(NewForceDirectedLayout(), seed), nil
	case "cluster":
		return NewClusterLayout(seed), nil
	default:
		// Default to force-directed
		return NewForceDirectedLayout(), nil
	}
}

// Run initializes the layout, steps it until it is stable or maxIterations
// is reached, and applies the result to the topology. The topology is left
// untouched when ctx is canceled first.
func Run(ctx context.Context, layout LayoutAlgorithm, topology *models.Topology, maxIterations int) error {
	layout.Initialize(topology)

	for i := 0; maxIterations <= 0 || i < maxIterations; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if layout.Step() {
			break
		}
	}

	layout.Apply(topology)
	return nil
}

// xorshift is a fast pseudo-random number generator
type xorshift uint32

// next returns a value in the 0-1 range
func (x *xorshift) next() float32 {
	if *x == 0 {
		*x = 1234567890
	}
	*x ^= *x << 13
	*x ^= *x >> 17
	*x ^= *x << 5
	return float32(*x) / float32(4294967295) // Normalize to 0-1
}

// clampCube constrains v to the cube of the given half edge length
func clampCube(v math32.Vector3, half float32) math32.Vector3 {
	return math32.Vec3(
		math32.Max(-half, math32.Min(half, v.X)),
		math32.Max(-half, math32.Min(half, v.Y)),
		math32.Max(-half, math32.Min(half, v.Z)),
	)
}

// placed reports whether a point already carries a usable position
func placed(p *models.Point) bool {
	return p.Fixed || p.Position != (math32.Vector3{})
}
