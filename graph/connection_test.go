package graph

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConnectionRejectsIdenticalEndpoints(t *testing.T) {
	x := pt("x", 0, 0, 0)

	c, err := NewConnection(x, x)
	assert.Nil(t, c)
	assert.ErrorIs(t, err, ErrIdenticalEndpoints)

	_, err = NewConnection(x, nil)
	assert.ErrorIs(t, err, ErrNilEndpoint)
}

func TestSetFidelityFloor(t *testing.T) {
	c := connect(t, pt("a", 0, 0, 0), pt("b", 1, 0, 0))

	for _, n := range []int{0, -7, 1, 2} {
		c.SetFidelity(n)
		assert.Equal(t, 3, c.Fidelity(), "input %d", n)
	}

	c.SetFidelity(12)
	assert.Equal(t, 12, c.Fidelity())

	c, err := NewConnection(pt("a", 0, 0, 0), pt("b", 1, 0, 0), WithFidelity(-1))
	require.NoError(t, err)
	assert.Equal(t, 3, c.Fidelity())
}

func TestEmitDirection(t *testing.T) {
	a, b, x := pt("a", 0, 0, 0), pt("b", 4, 0, 0), pt("x", 9, 9, 9)
	c := connect(t, a, b)

	forward := NewEmission(&token{}, DefaultOptions(a, b))
	require.True(t, c.Emit(forward))
	assert.Equal(t, Forward, forward.Direction)
	assert.Equal(t, float32(0), forward.Vector)

	backward := NewEmission(&token{}, DefaultOptions(b, a))
	require.True(t, c.Emit(backward))
	assert.Equal(t, Backward, backward.Direction)
	assert.InDelta(t, 4, backward.Vector, 1e-5)

	// Source is not on the connection
	stranger := NewEmission(&token{}, DefaultOptions(x, a))
	assert.False(t, c.Emit(stranger))
	assert.Equal(t, DirectionInvalid, stranger.Direction)
	assert.Nil(t, stranger.Connection())

	// Source and destination coincide
	loop := NewEmission(&token{}, DefaultOptions(a, a))
	assert.False(t, c.Emit(loop))

	assert.Len(t, c.Emissions(), 2)
}

func TestEmitDropsOverlappingEmission(t *testing.T) {
	a, b := pt("a", 0, 0, 0), pt("b", 10, 0, 0)
	scene := &recordingScene{}
	c := connect(t, a, b, WithScene(scene))

	first := NewEmission(&token{}, DefaultOptions(a, b))
	require.True(t, c.Emit(first))

	second := NewEmission(&token{}, DefaultOptions(a, b))
	assert.False(t, c.Emit(second))
	assert.Len(t, c.Emissions(), 1)
	assert.Len(t, scene.added, 1)

	// Once the first has moved past the margin there is room again
	c.Update()
	c.Update()
	c.Update()
	third := NewEmission(&token{}, DefaultOptions(a, b))
	assert.True(t, c.Emit(third))
	assert.Len(t, c.Emissions(), 2)
}

func TestUpdateRemovesExpiredEmissions(t *testing.T) {
	a, b := pt("a", 0, 0, 0), pt("b", 2, 0, 0)
	scene := &recordingScene{}
	c := connect(t, a, b, WithScene(scene))

	visual := &token{}
	e := NewEmission(visual, Options{Speed: 1, Margin: 1, Source: a})
	require.True(t, c.Emit(e))

	// 0 -> 1 -> 2 -> 3, then expired on the next pass
	for i := 0; i < 3; i++ {
		c.Update()
		require.Len(t, c.Emissions(), 1)
	}
	c.Update()

	assert.Empty(t, c.Emissions())
	assert.Equal(t, []Visual{visual}, scene.removed)
	assert.Equal(t, StateExpired, e.State())
	assert.Equal(t, 1, visual.destroyed)
}

func TestCurveFollowsMovingEndpoints(t *testing.T) {
	a, b := pt("a", 0, 0, 0), pt("b", 3, 0, 0)
	c := connect(t, a, b)
	assert.InDelta(t, 3, c.Length(), 1e-5)

	b.pos = math32.Vec3(6, 0, 0)
	assert.InDelta(t, 6, c.Length(), 1e-5)

	c.Update()
	assert.InDelta(t, 6, c.Length(), 1e-5)
}

func TestEmitDuringUpdateIsQueued(t *testing.T) {
	a, b := pt("a", 0, 0, 0), pt("b", 10, 0, 0)
	c := connect(t, a, b)

	spawned := false
	e := NewEmission(&token{}, DefaultOptions(a, b))
	e.OnUpdate(func(cur *Emission) {
		if spawned || cur.Vector < 3 {
			return
		}
		spawned = true
		c.Emit(NewEmission(&token{}, DefaultOptions(b, a)))
	})
	require.True(t, c.Emit(e))

	for i := 0; i < 6; i++ {
		c.Update()
	}

	require.True(t, spawned)
	require.Len(t, c.Emissions(), 2)
	assert.Equal(t, Backward, c.Emissions()[1].Direction)
}

func TestConnectionTouches(t *testing.T) {
	a, b := pt("a", 0, 0, 0), pt("b", 1, 0, 0)
	c := connect(t, a, b)

	assert.True(t, c.Touches(pt("a", 5, 5, 5)))
	assert.True(t, c.Touches(b))
	assert.False(t, c.Touches(pt("z", 0, 0, 0)))
	assert.False(t, c.Touches(nil))
	assert.Equal(t, "a -> b", c.String())
}
