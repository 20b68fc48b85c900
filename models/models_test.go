package models

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTopology(t *testing.T) *Topology {
	t.Helper()
	top := NewTopology("sample")
	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, top.AddPoint(NewPointWithID(id, "host", id)))
	}
	require.NoError(t, top.AddLink(NewLink("a", "b", "wire", 1, nil)))
	require.NoError(t, top.AddLink(NewLink("b", "c", "wire", 1, nil)))
	require.NoError(t, top.AddLink(NewLink("c", "d", "radio", 1, nil)))
	require.NoError(t, top.AddFlow(NewFlow("a", "d")))
	require.NoError(t, top.AddFlow(NewFlow("b", "")))
	return top
}

func TestAddPointRejectsDuplicate(t *testing.T) {
	top := sampleTopology(t)

	err := top.AddPoint(NewPointWithID("a", "host", "again"))
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Len(t, top.Points, 4)
}

func TestAddLinkValidatesEndpoints(t *testing.T) {
	top := sampleTopology(t)

	assert.ErrorIs(t, top.AddLink(NewLink("a", "a", "", 1, nil)), ErrSelfLink)
	assert.ErrorIs(t, top.AddLink(NewLink("a", "zz", "", 1, nil)), ErrNotFound)
	assert.ErrorIs(t, top.AddLink(NewLink("zz", "a", "", 1, nil)), ErrNotFound)
	assert.Len(t, top.Links, 3)
}

func TestAddFlowValidatesEndpoints(t *testing.T) {
	top := sampleTopology(t)

	assert.ErrorIs(t, top.AddFlow(NewFlow("zz", "")), ErrNotFound)
	assert.ErrorIs(t, top.AddFlow(NewFlow("a", "zz")), ErrNotFound)

	f := NewFlow("c", "")
	assert.True(t, f.Broadcast())
	assert.Equal(t, DefaultFlowSpeed, f.Speed)
	require.NoError(t, top.AddFlow(f))
	assert.Len(t, top.Flows, 3)
}

func TestRemovePointDropsAttachedLinksAndFlows(t *testing.T) {
	top := sampleTopology(t)
	top.RemovePoint("b")

	assert.Len(t, top.Points, 3)
	require.Len(t, top.Links, 1)
	assert.Equal(t, "c", top.Links[0].Source)
	require.Len(t, top.Flows, 1)
	assert.Equal(t, "a", top.Flows[0].Source)
}

func TestRemoveLink(t *testing.T) {
	top := sampleTopology(t)
	id := top.Links[0].ID
	top.RemoveLink(id)

	assert.Len(t, top.Links, 2)
	_, err := top.FindLink(id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, top.Points, 4)

	top.RemoveLink("missing")
	assert.Len(t, top.Links, 2)
}

func TestSetAppearance(t *testing.T) {
	p := NewPointWithID("a", "host", "a")
	p.SetAppearance(9, "#fff")
	assert.Equal(t, float32(9), p.Size)
	assert.Equal(t, "#fff", p.Color)

	l := NewLink("a", "b", "wire", 1, nil)
	before := l.UpdatedAt
	l.SetAppearance("#000")
	assert.Equal(t, "#000", l.Color)
	assert.False(t, l.UpdatedAt.Before(before))
}

func TestQueries(t *testing.T) {
	top := sampleTopology(t)

	p, err := top.FindPoint("c")
	require.NoError(t, err)
	assert.Equal(t, "c", p.Label)

	_, err = top.FindPoint("zz")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Len(t, top.FindLinks("b"), 2)
	assert.Len(t, top.FilterLinks(func(l *Link) bool { return l.Type == "radio" }), 1)

	var ids []string
	for _, n := range top.Neighbors("c") {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"b", "d"}, ids)
	assert.Len(t, top.FindPointsByType("host"), 4)

	l, err := top.FindLink(top.Links[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "b", l.Source)
}

func TestPointEndpointTracksPosition(t *testing.T) {
	p := NewPointWithID("a", "host", "a")
	ep := p.Endpoint()
	assert.Equal(t, "a", ep.ID())

	p.SetPosition(math32.Vec3(1, 2, 3))
	assert.Equal(t, math32.Vec3(1, 2, 3), ep.Position())
}

func TestBounds(t *testing.T) {
	top := NewTopology("empty")
	assert.True(t, top.Bounds().IsEmpty())

	top = sampleTopology(t)
	top.Points[0].SetPosition(math32.Vec3(-1, 0, 2))
	top.Points[1].SetPosition(math32.Vec3(3, 4, -2))

	b := top.Bounds()
	assert.Equal(t, math32.Vec3(-1, 0, -2), b.Min)
	assert.Equal(t, math32.Vec3(3, 4, 2), b.Max)
}
