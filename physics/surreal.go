package physics

import (
	"cogentcore.org/core/math32"
	"github.com/TFMV/echoflow/models"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// SurrealLayout is a creative layout that applies noise distortions on top
// of a base layout
type SurrealLayout struct {
	baseLayout        LayoutAlgorithm
	noiseGenerator    opensimplex.Noise
	noiseScale        float64
	timeStep          float64
	distortionAmount  float32
	pulseFactor       float32
	flowFields        bool
	vorticityEnabled  bool
	vorticityStrength float32
}

// NewSurrealLayout creates a new surreal layout using the specified base layout
func NewSurrealLayout(base LayoutAlgorithm, seed int64) *SurrealLayout {
	return &SurrealLayout{
		baseLayout:        base,
		noiseGenerator:    opensimplex.New(seed),
		noiseScale:        0.3,
		distortionAmount:  0.5,
		pulseFactor:       0.1,
		flowFields:        true,
		vorticityEnabled:  true,
		vorticityStrength: 0.05,
	}
}

// Name returns the name of the layout algorithm
func (sl *SurrealLayout) Name() string {
	return "Surreal Layout"
}

// SetExtent passes the extent on to the base layout
func (sl *SurrealLayout) SetExtent(extent float32) {
	if b, ok := sl.baseLayout.(Bounded); ok {
		b.SetExtent(extent)
	}
}

// Initialize initializes the surreal layout
func (sl *SurrealLayout) Initialize(topology *models.Topology) {
	sl.baseLayout.Initialize(topology)
}

// Step performs one iteration of the layout algorithm
func (sl *SurrealLayout) Step() bool {
	return sl.baseLayout.Step()
}

// Apply applies the base layout and then distorts every point that is not
// fixed. Every call advances the noise field, so repeated calls animate
// the scene.
func (sl *SurrealLayout) Apply(topology *models.Topology) {
	sl.baseLayout.Apply(topology)

	for i, p := range topology.Points {
		if p.Fixed {
			continue
		}
		pos := p.Position

		// Calculate a unique phase for each point based on its index
		phase := float32(i) * 0.1

		// Base distortion using simplex noise, one sample per axis
		x, y, z := float64(pos.X)*sl.noiseScale, float64(pos.Y)*sl.noiseScale, float64(pos.Z)*sl.noiseScale
		noise := math32.Vec3(
			float32(sl.noiseGenerator.Eval3(x, y, z+sl.timeStep)),
			float32(sl.noiseGenerator.Eval3(x+100, y+100, z+sl.timeStep)),
			float32(sl.noiseGenerator.Eval3(x+200, y+200, z+sl.timeStep)),
		)

		// Apply distortion with pulsing effect
		pulse := 1.0 + math32.Sin(float32(sl.timeStep)*2+phase)*sl.pulseFactor
		pos = pos.Add(noise.MulScalar(sl.distortionAmount * pulse))

		// Flow fields for more organic movement
		if sl.flowFields {
			flow := math32.Vec3(
				float32(sl.noiseGenerator.Eval3(y*0.5, x*0.3, sl.timeStep*0.2)),
				float32(sl.noiseGenerator.Eval3(x*0.5+50, z*0.3+50, sl.timeStep*0.2)),
				float32(sl.noiseGenerator.Eval3(z*0.5+75, y*0.3+75, sl.timeStep*0.2)),
			)
			pos = pos.Add(flow.MulScalar(0.25))
		}

		// Vorticity swirls points around the vertical axis
		if sl.vorticityEnabled {
			distance := math32.Sqrt(pos.X*pos.X + pos.Z*pos.Z)
			angle := sl.vorticityStrength * math32.Sin(distance*0.1+float32(sl.timeStep))
			cos, sin := math32.Cos(angle), math32.Sin(angle)
			pos = math32.Vec3(pos.X*cos-pos.Z*sin, pos.Y, pos.X*sin+pos.Z*cos)
		}

		p.SetPosition(pos)
	}

	// Increment time step for animation
	sl.timeStep += 0.01
}
