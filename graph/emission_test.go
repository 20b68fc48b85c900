package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmissionDefaults(t *testing.T) {
	a := pt("a", 0, 0, 0)

	e := NewEmission(&token{}, Options{Source: a, Speed: -1, Margin: -2, InstanceCount: 0})
	assert.Equal(t, DefaultSpeed, e.Speed)
	assert.Equal(t, float32(0), e.Margin)
	assert.Equal(t, 1, e.InstanceCount)
	assert.Equal(t, StateCreated, e.State())
	assert.Equal(t, -1, e.Slot())

	d := DefaultOptions(a, nil)
	assert.Equal(t, float32(0.5), d.Speed)
	assert.Equal(t, float32(1), d.Margin)
	assert.Equal(t, 1, d.InstanceCount)
	assert.Nil(t, d.Destination)
}

func TestVisualKindResolvedAtCreation(t *testing.T) {
	a := pt("a", 0, 0, 0)

	assert.Equal(t, Individual, NewEmission(&token{}, DefaultOptions(a, nil)).Kind())
	assert.Equal(t, Instanced, NewEmission(newInstanced("dot"), DefaultOptions(a, nil)).Kind())
	assert.Equal(t, "instanced", Instanced.String())
}

func TestForwardEmissionExpiresOnce(t *testing.T) {
	a, b := pt("a", 0, 0, 0), pt("b", 4, 0, 0)
	c := connect(t, a, b)

	visual := &token{}
	e := NewEmission(visual, DefaultOptions(a, b))

	destroyed, next := 0, 0
	e.OnDestroy(func(*Emission) { destroyed++ })
	e.OnNext(func(*Emission) { next++ })
	require.True(t, c.Emit(e))
	assert.Equal(t, StateTraveling, e.State())
	assert.Equal(t, 1, visual.created)

	// Travel up to and past the end of the curve
	for e.Vector <= c.Length() {
		require.True(t, e.update())
	}
	assert.Equal(t, 0, destroyed)

	assert.False(t, e.update())
	assert.True(t, e.IsFinished)
	assert.Equal(t, StateExpired, e.State())
	assert.Equal(t, 1, destroyed)
	assert.Equal(t, 1, next)

	// Finished emissions are not advanced or destroyed again
	assert.False(t, e.update())
	assert.Equal(t, 1, destroyed)
	assert.Equal(t, 1, next)
	assert.Equal(t, 1, visual.destroyed)
}

func TestBackwardEmissionExpiresAtZero(t *testing.T) {
	a, b := pt("a", 0, 0, 0), pt("b", 2, 0, 0)
	c := connect(t, a, b)

	e := NewEmission(&token{}, Options{Source: b, Speed: 1})
	require.True(t, c.Emit(e))
	assert.InDelta(t, 2, e.Vector, 1e-5)
	assert.InDelta(t, 2, e.Position().X, 1e-5)

	require.True(t, e.update())
	assert.InDelta(t, 1, e.Vector, 1e-5)
	assert.InDelta(t, 1, e.Position().X, 1e-5)
	require.True(t, e.update())
	assert.InDelta(t, 0, e.Vector, 1e-5)

	assert.False(t, e.update())
	assert.Equal(t, StateExpired, e.State())
}

func TestDestroyRunsNextAfterDestroyListenersOnce(t *testing.T) {
	e := NewEmission(&token{}, DefaultOptions(pt("a", 0, 0, 0), nil))

	var order []string
	e.OnDestroy(func(*Emission) { order = append(order, "destroy") })
	e.OnNext(func(*Emission) { order = append(order, "next") })

	e.destroy()
	e.destroy()

	assert.Equal(t, []string{"destroy", "next", "destroy"}, order)
	assert.Equal(t, StateDestroyed, e.State())
}

func TestCloneCarriesListenersButNotNext(t *testing.T) {
	a, b := pt("a", 0, 0, 0), pt("b", 4, 0, 0)
	visual := &token{frame: 7}
	e := NewEmission(visual, Options{Source: a, Destination: b, Speed: 2, Margin: 0.25, InstanceCount: 3})

	emitted, updated, destroyed, next := 0, 0, 0, 0
	e.OnEmit(func(*Emission) { emitted++ })
	e.OnUpdate(func(*Emission) { updated++ })
	e.OnDestroy(func(*Emission) { destroyed++ })
	e.OnNext(func(*Emission) { next++ })

	clone := e.Clone()
	assert.NotEqual(t, e.ID, clone.ID)
	assert.NotSame(t, visual, clone.Visual)
	assert.Equal(t, 7, clone.Visual.(*token).frame)
	assert.Equal(t, float32(2), clone.Speed)
	assert.Equal(t, float32(0.25), clone.Margin)
	assert.Equal(t, 3, clone.InstanceCount)
	assert.Same(t, b, clone.Destination)

	// Cloning does not re-trigger anything
	assert.Zero(t, emitted)

	c := connect(t, a, b)
	require.True(t, c.Emit(clone))
	clone.update()
	clone.destroy()

	assert.Equal(t, 1, emitted)
	assert.Equal(t, 1, updated)
	assert.Equal(t, 1, destroyed)
	assert.Equal(t, 0, next)
}
