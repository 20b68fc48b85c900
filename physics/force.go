package physics

import (
	"sync"

	"cogentcore.org/core/math32"
	"github.com/TFMV/echoflow/models"
)

// ForceDirectedLayout implements a Fruchterman-Reingold force-directed layout in 3D
type ForceDirectedLayout struct {
	extent          float32
	ids             []string // stable iteration order
	positions       map[string]math32.Vector3
	velocities      map[string]math32.Vector3
	forces          map[string]math32.Vector3
	fixed           map[string]bool
	springs         []spring
	temperature     float32
	k               float32 // optimal distance
	iterations      int
	maxIterations   int
	stable          bool
	energyThreshold float32
	gravity         float32 // Gravity factor
	repulsionForce  float32 // Repulsion strength
	dampingFactor   float32 // Damping for velocity
	springConstant  float32 // Spring stiffness
	rng             xorshift
	mu              sync.Mutex
}

// spring pulls two linked points together
type spring struct {
	a, b   string
	weight float32
}

// NewForceDirectedLayout creates a new force-directed layout
func NewForceDirectedLayout() *ForceDirectedLayout {
	return &ForceDirectedLayout{
		extent:          DefaultExtent,
		positions:       make(map[string]math32.Vector3),
		velocities:      make(map[string]math32.Vector3),
		forces:          make(map[string]math32.Vector3),
		fixed:           make(map[string]bool),
		maxIterations:   1000,
		energyThreshold: 0.001,
		gravity:         0.05,
		repulsionForce:  100.0,
		dampingFactor:   0.9,
		springConstant:  0.04,
	}
}

// Name returns the name of the layout algorithm
func (fd *ForceDirectedLayout) Name() string {
	return "Force-Directed Layout"
}

// SetExtent sets the edge length of the cube points are kept in
func (fd *ForceDirectedLayout) SetExtent(extent float32) {
	fd.mu.Lock()
	defer fd.mu.Unlock()
	if extent > 0 {
		fd.extent = extent
	}
}

// Initialize sets up the layout algorithm
func (fd *ForceDirectedLayout) Initialize(topology *models.Topology) {
	fd.mu.Lock()
	defer fd.mu.Unlock()

	fd.iterations = 0
	fd.stable = false
	fd.temperature = fd.extent / 10
	fd.ids = fd.ids[:0]
	clear(fd.positions)
	clear(fd.velocities)
	clear(fd.forces)
	clear(fd.fixed)

	// Optimal distance between points
	// Based on the volume of the layout cube and number of points
	count := float32(max(len(topology.Points), 1))
	fd.k = math32.Cbrt(fd.extent * fd.extent * fd.extent / count)

	// Initialize point positions randomly if not already set
	half := fd.extent / 2
	for _, p := range topology.Points {
		fd.ids = append(fd.ids, p.ID)
		if placed(p) {
			fd.positions[p.ID] = p.Position
		} else {
			fd.positions[p.ID] = math32.Vec3(
				(fd.rng.next()*2-1)*half,
				(fd.rng.next()*2-1)*half,
				(fd.rng.next()*2-1)*half,
			)
		}
		fd.fixed[p.ID] = p.Fixed
		fd.velocities[p.ID] = math32.Vector3{}
		fd.forces[p.ID] = math32.Vector3{}
	}

	// Cache springs for quick lookup during force calculation
	fd.springs = fd.springs[:0]
	for _, l := range topology.Links {
		_, okA := fd.positions[l.Source]
		_, okB := fd.positions[l.Target]
		if okA && okB {
			fd.springs = append(fd.springs, spring{a: l.Source, b: l.Target, weight: l.Weight})
		}
	}
}

// Step performs one iteration of the layout algorithm
func (fd *ForceDirectedLayout) Step() bool {
	fd.mu.Lock()
	defer fd.mu.Unlock()

	// Check if we've exceeded max iterations or reached stability
	if fd.iterations >= fd.maxIterations || fd.stable || len(fd.ids) == 0 {
		return true
	}

	// Reset forces
	for _, id := range fd.ids {
		fd.forces[id] = math32.Vector3{}
	}

	for i, id1 := range fd.ids {
		pos1 := fd.positions[id1]

		// Apply gravity toward the center, stronger from far away
		toCenter := pos1.MulScalar(-1)
		distance := math32.Max(0.1, toCenter.Length())
		gravityFactor := fd.gravity * (distance / fd.extent)
		fd.forces[id1] = fd.forces[id1].Add(toCenter.MulScalar(gravityFactor))

		// Apply repulsive forces (points repel each other)
		for _, id2 := range fd.ids[i+1:] {
			delta := pos1.Sub(fd.positions[id2])
			distance := math32.Max(0.1, delta.Length()) // Prevent division by zero

			// F = k^2 / distance
			repulsive := (fd.k * fd.k / distance) * fd.repulsionForce / 100.0
			push := delta.MulScalar(repulsive / distance)

			fd.forces[id1] = fd.forces[id1].Add(push)
			fd.forces[id2] = fd.forces[id2].Sub(push)
		}
	}

	// Apply attractive forces (links pull connected points together)
	for _, s := range fd.springs {
		delta := fd.positions[s.b].Sub(fd.positions[s.a])
		distance := math32.Max(0.1, delta.Length())

		// F = distance^2 / k, stronger for heavier links
		attractive := distance * distance / fd.k * fd.springConstant * (1.0 + s.weight)
		pull := delta.MulScalar(attractive / distance)

		fd.forces[s.a] = fd.forces[s.a].Add(pull)
		fd.forces[s.b] = fd.forces[s.b].Sub(pull)
	}

	// Apply forces with temperature limiting (simulated annealing)
	half := fd.extent / 2
	var totalEnergy float32
	for _, id := range fd.ids {
		f := fd.forces[id]
		magnitude := f.Length()
		totalEnergy += magnitude
		if fd.fixed[id] {
			continue
		}
		if magnitude > 0 {
			f = f.MulScalar(math32.Min(magnitude, fd.temperature) / magnitude)
		}

		// Update velocity with damping
		v := fd.velocities[id].Add(f).MulScalar(fd.dampingFactor)
		fd.velocities[id] = v
		fd.positions[id] = clampCube(fd.positions[id].Add(v), half)
	}

	// Cool temperature
	fd.temperature *= 0.95

	// Check if layout is stable
	fd.stable = totalEnergy/float32(len(fd.ids)) < fd.energyThreshold
	fd.iterations++
	return fd.stable
}

// Apply updates point positions in the topology
func (fd *ForceDirectedLayout) Apply(topology *models.Topology) {
	fd.mu.Lock()
	defer fd.mu.Unlock()

	for _, p := range topology.Points {
		if p.Fixed {
			continue
		}
		if pos, ok := fd.positions[p.ID]; ok {
			p.SetPosition(pos)
		}
	}
}

// Iterations returns the number of steps taken since Initialize
func (fd *ForceDirectedLayout) Iterations() int {
	fd.mu.Lock()
	defer fd.mu.Unlock()
	return fd.iterations
}
