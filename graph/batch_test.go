package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchCapacityIsFixed(t *testing.T) {
	a, b := pt("a", 0, 0, 0), pt("b", 10, 0, 0)
	c := connect(t, a, b)
	shared := newInstanced("dot")

	b1 := newBatch(c, shared, 2)
	opts := Options{Source: a, InstanceCount: 2}

	first := NewEmission(newInstanced("dot"), opts)
	first.connection, first.Direction = c, Forward
	second := NewEmission(newInstanced("dot"), opts)
	second.connection, second.Direction = c, Forward
	third := NewEmission(newInstanced("dot"), opts)
	third.connection, third.Direction = c, Forward

	assert.True(t, b1.Add(first))
	assert.True(t, b1.Add(second))
	assert.False(t, b1.Add(third))

	assert.Equal(t, 2, b1.Active())
	assert.Equal(t, 2, b1.Capacity())
	assert.Equal(t, 0, first.Slot())
	assert.Equal(t, 1, second.Slot())
	assert.Equal(t, -1, third.Slot())
	assert.Equal(t, StateCreated, third.State())
}

func TestBatchCreatedLazilyPerInstanceKey(t *testing.T) {
	a, b := pt("a", 0, 0, 0), pt("b", 10, 0, 0)
	scene := &recordingScene{}
	c := connect(t, a, b, WithScene(scene))
	assert.Empty(t, c.Batches())

	dots := newInstanced("dot")
	require.True(t, c.Emit(NewEmission(dots, Options{Source: a, InstanceCount: 4})))
	require.True(t, c.Emit(NewEmission(newInstanced("ring"), Options{Source: b})))

	require.Len(t, c.Batches(), 2)
	assert.Equal(t, "dot", c.Batches()[0].Key())
	assert.Equal(t, 4, c.Batches()[0].Capacity())
	assert.Equal(t, "ring", c.Batches()[1].Key())
	assert.Equal(t, 1, c.Batches()[1].Capacity())

	// Only the shared visual of each batch reaches the scene
	assert.Len(t, scene.added, 2)
	assert.Same(t, dots, scene.added[0])
	assert.Empty(t, c.Emissions())
}

func TestBatchMarginUsesComparator(t *testing.T) {
	a, b := pt("a", 0, 0, 0), pt("b", 10, 0, 0)
	c := connect(t, a, b)

	opts := Options{Source: a, Speed: 0.5, Margin: 1, InstanceCount: 4}
	require.True(t, c.Emit(NewEmission(newInstanced("dot"), opts)))

	// Same frame, same terminal: the comparator already counts the first
	assert.False(t, c.Emit(NewEmission(newInstanced("dot"), opts)))

	// Leaving from the other terminal is far enough away
	back := opts
	back.Source = b
	assert.True(t, c.Emit(NewEmission(newInstanced("dot"), back)))

	c.Update()
	c.Update()
	assert.InDelta(t, 1, c.Batches()[0].Comparator(0).Nearest, 1e-5)
	assert.True(t, c.Emit(NewEmission(newInstanced("dot"), opts)))
	assert.Equal(t, 3, c.Batches()[0].Active())
}

func TestBatchUpdateFreesAndParksExpiredSlots(t *testing.T) {
	a, b := pt("a", 0, 0, 0), pt("b", 1, 0, 0)
	c := connect(t, a, b)

	shared := newInstanced("dot")
	e := NewEmission(shared, Options{Source: a, Speed: 1, InstanceCount: 2})
	require.True(t, c.Emit(e))
	batch := c.Batches()[0]
	assert.Equal(t, a.Position(), shared.slots[0])
	assert.Equal(t, ParkedPosition, shared.slots[1])

	batch.Update()
	assert.InDelta(t, 1, shared.slots[0].X, 1e-5)
	batch.Update()
	assert.Equal(t, 1, batch.Active())
	batch.Update()

	assert.Equal(t, 0, batch.Active())
	assert.Equal(t, ParkedPosition, shared.slots[0])
	assert.Equal(t, StateExpired, e.State())
	assert.Empty(t, batch.Emissions())

	// Comparators are cleared once the batch is empty
	assert.False(t, batch.Overlapping(0, e))

	// Idle batches do nothing
	batch.Update()
	assert.Equal(t, 0, batch.Active())
}
