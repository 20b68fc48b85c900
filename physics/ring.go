package physics

import (
	"sync"

	"cogentcore.org/core/math32"
	"github.com/TFMV/echoflow/models"
)

// RingLayout places points evenly on a circle in the XY plane. It is
// deterministic and finishes in a single step.
type RingLayout struct {
	radius    float32
	positions map[string]math32.Vector3
	mu        sync.Mutex
}

// NewRingLayout creates a new ring layout
func NewRingLayout() *RingLayout {
	return &RingLayout{
		radius:    DefaultExtent * 0.4,
		positions: make(map[string]math32.Vector3),
	}
}

// SetExtent scales the ring to fit a cube of the given edge length
func (rl *RingLayout) SetExtent(extent float32) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if extent > 0 {
		rl.radius = extent * 0.4
	}
}

// Name returns the name of the layout algorithm
func (rl *RingLayout) Name() string {
	return "Ring Layout"
}

// Initialize arranges the points that are not fixed in a circle
func (rl *RingLayout) Initialize(topology *models.Topology) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	clear(rl.positions)
	free := topology.FilterPoints(func(p *models.Point) bool { return !p.Fixed })
	for i, p := range free {
		angle := (2 * math32.Pi * float32(i)) / float32(len(free))
		rl.positions[p.ID] = math32.Vec3(rl.radius*math32.Cos(angle), rl.radius*math32.Sin(angle), 0)
	}
}

// Step performs one iteration of the layout algorithm
func (rl *RingLayout) Step() bool {
	return true
}

// Apply updates point positions in the topology
func (rl *RingLayout) Apply(topology *models.Topology) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for _, p := range topology.Points {
		if pos, ok := rl.positions[p.ID]; ok && !p.Fixed {
			p.SetPosition(pos)
		}
	}
}
