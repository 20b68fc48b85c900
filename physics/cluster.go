package physics

import (
	"sync"

	"cogentcore.org/core/math32"
	"github.com/TFMV/echoflow/models"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// ClusterLayout runs a force-directed layout and then pulls points of the
// same type toward a shared center, so that groups of similar points read
// as islands
type ClusterLayout struct {
	forceLayout     *ForceDirectedLayout
	noiseGenerator  opensimplex.Noise
	timeStep        float64
	groupAttraction float32
	pointCluster    map[string]int // Maps point IDs to cluster IDs
	clusterCenters  []math32.Vector3
	extent          float32
	mu              sync.Mutex
}

// NewClusterLayout creates a new cluster layout
func NewClusterLayout(seed int64) *ClusterLayout {
	return &ClusterLayout{
		forceLayout:     NewForceDirectedLayout(),
		noiseGenerator:  opensimplex.New(seed),
		groupAttraction: 0.3,
		pointCluster:    make(map[string]int),
		extent:          DefaultExtent,
	}
}

// SetExtent sets the edge length of the cube points are kept in
func (cl *ClusterLayout) SetExtent(extent float32) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if extent > 0 {
		cl.extent = extent
		cl.forceLayout.SetExtent(extent)
	}
}

// Name returns the name of the layout algorithm
func (cl *ClusterLayout) Name() string {
	return "Cluster Layout"
}

// Initialize sets up the cluster layout
func (cl *ClusterLayout) Initialize(topology *models.Topology) {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	cl.forceLayout.Initialize(topology)

	// Cluster points based on their types
	clear(cl.pointCluster)
	clusters := make(map[string]int)
	for _, p := range topology.Points {
		id, ok := clusters[p.Type]
		if !ok {
			id = len(clusters)
			clusters[p.Type] = id
		}
		cl.pointCluster[p.ID] = id
	}

	// Arrange cluster centers in a circle
	cl.clusterCenters = cl.clusterCenters[:0]
	if len(clusters) < 2 {
		cl.clusterCenters = append(cl.clusterCenters, math32.Vector3{})
		return
	}
	radius := cl.extent * 0.3
	for i := range len(clusters) {
		angle := (2 * math32.Pi * float32(i)) / float32(len(clusters))
		cl.clusterCenters = append(cl.clusterCenters,
			math32.Vec3(radius*math32.Cos(angle), radius*math32.Sin(angle), 0))
	}
}

// Step performs one iteration of the layout algorithm
func (cl *ClusterLayout) Step() bool {
	return cl.forceLayout.Step()
}

// Apply updates point positions in the topology
func (cl *ClusterLayout) Apply(topology *models.Topology) {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	cl.forceLayout.Apply(topology)

	for _, p := range topology.Points {
		id, ok := cl.pointCluster[p.ID]
		if !ok || p.Fixed {
			continue
		}

		// Move the point toward its cluster center
		pos := p.Position
		pos = pos.Add(cl.clusterCenters[id].Sub(pos).MulScalar(cl.groupAttraction))

		// Jitter so that clustered points do not stack up
		noise := float32(cl.noiseGenerator.Eval3(float64(pos.X)*0.1, float64(pos.Y)*0.1, cl.timeStep))
		pos = pos.Add(math32.Vec3(noise, noise, noise).MulScalar(0.2))

		p.SetPosition(pos)
	}

	cl.timeStep += 0.05
}
