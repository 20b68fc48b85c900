package physics

import (
	"context"
	"fmt"
	"testing"

	"cogentcore.org/core/math32"
	"github.com/TFMV/echoflow/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chain(t *testing.T, n int) *models.Topology {
	t.Helper()
	top := models.NewTopology("chain")
	for i := 0; i < n; i++ {
		p := models.NewPointWithID(fmt.Sprintf("p%d", i), "host", "")
		if i%2 == 1 {
			p.Type = "switch"
		}
		require.NoError(t, top.AddPoint(p))
		if i > 0 {
			require.NoError(t, top.AddLink(models.NewLink(fmt.Sprintf("p%d", i-1), p.ID, "", 1, nil)))
		}
	}
	return top
}

func distinctPositions(t *testing.T, top *models.Topology) {
	t.Helper()
	for i, a := range top.Points {
		for _, b := range top.Points[i+1:] {
			assert.Greater(t, a.Position.DistanceTo(b.Position), float32(1e-3), "%s overlaps %s", a.ID, b.ID)
		}
	}
}

func TestForceDirectedLayoutSpreadsPointsInsideExtent(t *testing.T) {
	top := chain(t, 6)
	layout := NewForceDirectedLayout()

	require.NoError(t, Run(context.Background(), layout, top, 200))
	assert.LessOrEqual(t, layout.Iterations(), 200)

	half := DefaultExtent / 2
	for _, p := range top.Points {
		assert.LessOrEqual(t, math32.Abs(p.Position.X), half)
		assert.LessOrEqual(t, math32.Abs(p.Position.Y), half)
		assert.LessOrEqual(t, math32.Abs(p.Position.Z), half)
	}
	distinctPositions(t, top)
}

func TestForceDirectedLayoutKeepsFixedPoints(t *testing.T) {
	top := chain(t, 4)
	anchor := top.Points[0]
	anchor.Position = math32.Vec3(1, 2, 3)
	anchor.Fixed = true

	require.NoError(t, Run(context.Background(), NewForceDirectedLayout(), top, 50))
	assert.Equal(t, math32.Vec3(1, 2, 3), anchor.Position)
}

func TestRingLayout(t *testing.T) {
	top := chain(t, 4)
	top.Points[3].Fixed = true

	layout := NewRingLayout()
	require.NoError(t, Run(context.Background(), layout, top, 0))

	radius := DefaultExtent * 0.4
	for _, p := range top.Points[:3] {
		assert.InDelta(t, radius, p.Position.Length(), 1e-4)
		assert.Equal(t, float32(0), p.Position.Z)
	}
	assert.InDelta(t, radius, top.Points[0].Position.X, 1e-4)
	assert.Equal(t, math32.Vector3{}, top.Points[3].Position)
	distinctPositions(t, &models.Topology{Points: top.Points[:3]})
}

func TestLayoutsHonorExtent(t *testing.T) {
	ring := NewRingLayout()
	ring.SetExtent(40)
	ring.SetExtent(-1)
	top := chain(t, 3)
	require.NoError(t, Run(context.Background(), ring, top, 0))
	for _, p := range top.Points {
		assert.InDelta(t, 16, p.Position.Length(), 1e-4)
	}

	// Surreal passes the extent through to the ring it wraps
	base := NewRingLayout()
	var layout LayoutAlgorithm = NewSurrealLayout(base, 3)
	layout.(Bounded).SetExtent(100)
	assert.InDelta(t, 40, base.radius, 1e-6)

	cluster := NewClusterLayout(7)
	cluster.SetExtent(100)
	assert.Equal(t, float32(100), cluster.forceLayout.extent)
	top = chain(t, 4)
	require.NoError(t, Run(context.Background(), cluster, top, 1))
	require.Len(t, cluster.clusterCenters, 2)
	assert.InDelta(t, 30, cluster.clusterCenters[0].Length(), 1e-4)
}

func TestSurrealLayoutDistortsBase(t *testing.T) {
	plain := chain(t, 5)
	warped := chain(t, 5)

	require.NoError(t, Run(context.Background(), NewRingLayout(), plain, 0))
	require.NoError(t, Run(context.Background(), NewSurrealLayout(NewRingLayout(), 42), warped, 0))

	moved := 0
	for i := range plain.Points {
		if plain.Points[i].Position.DistanceTo(warped.Points[i].Position) > 1e-4 {
			moved++
		}
	}
	assert.Positive(t, moved)
	assert.Equal(t, "Surreal Layout", NewSurrealLayout(NewRingLayout(), 1).Name())
}

func TestClusterLayoutGroupsByType(t *testing.T) {
	top := chain(t, 8)
	require.NoError(t, Run(context.Background(), NewClusterLayout(7), top, 100))

	centroid := func(pointType string) math32.Vector3 {
		var sum math32.Vector3
		points := top.FindPointsByType(pointType)
		for _, p := range points {
			sum = sum.Add(p.Position)
		}
		return sum.MulScalar(1 / float32(len(points)))
	}
	assert.Greater(t, centroid("host").DistanceTo(centroid("switch")), float32(0.1))
}

func TestRunStopsOnCanceledContext(t *testing.T) {
	top := chain(t, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, NewForceDirectedLayout(), top, 10)
	assert.ErrorIs(t, err, context.Canceled)
	for _, p := range top.Points {
		assert.Equal(t, math32.Vector3{}, p.Position)
	}
}

func TestGetLayoutAlgorithm(t *testing.T) {
	for name, want := range map[string]string{
		"force":   "Force-Directed Layout",
		"ring":    "Ring Layout",
		"surreal": "Surreal Layout",
		"cluster": "Cluster Layout",
		"":        "Force-Directed Layout",
	} {
		layout, err := GetLayoutAlgorithm(name)
		require.NoError(t, err)
		assert.Equal(t, want, layout.Name())
	}
}
