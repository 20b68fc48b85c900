package graph

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/TFMV/echoflow/curve"
	"github.com/stretchr/testify/require"
)

type point struct {
	id  string
	pos math32.Vector3
}

func (p *point) ID() string               { return p.id }
func (p *point) Position() math32.Vector3 { return p.pos }

func pt(id string, x, y, z float32) *point {
	return &point{id: id, pos: math32.Vec3(x, y, z)}
}

type token struct {
	pos                         math32.Vector3
	created, updated, destroyed int
	frame                       int
}

func (v *token) OnCreate()  { v.created++ }
func (v *token) OnUpdate()  { v.updated++; v.frame++ }
func (v *token) OnDestroy() { v.destroyed++ }
func (v *token) Clone() Visual {
	return &token{}
}
func (v *token) CopyState(src Visual) {
	if s, ok := src.(*token); ok {
		v.frame = s.frame
	}
}
func (v *token) SetPosition(p math32.Vector3) { v.pos = p }
func (v *token) Position() math32.Vector3     { return v.pos }

type instancedToken struct {
	token
	key   string
	slots map[int]math32.Vector3
}

func newInstanced(key string) *instancedToken {
	return &instancedToken{key: key, slots: make(map[int]math32.Vector3)}
}

func (v *instancedToken) Clone() Visual       { return newInstanced(v.key) }
func (v *instancedToken) InstanceKey() string { return v.key }
func (v *instancedToken) SetInstancePosition(slot int, p math32.Vector3) {
	v.slots[slot] = p
}

type recordingScene struct {
	added   []Visual
	removed []Visual
}

func (s *recordingScene) AddEntity(v Visual)    { s.added = append(s.added, v) }
func (s *recordingScene) RemoveEntity(v Visual) { s.removed = append(s.removed, v) }

func connect(t *testing.T, a, b Endpoint, opts ...ConnectionOption) *Connection {
	t.Helper()
	opts = append([]ConnectionOption{WithCurveAdapter(curve.Line{}), WithFidelity(8)}, opts...)
	c, err := NewConnection(a, b, opts...)
	require.NoError(t, err)
	return c
}

// tickUntil ticks the graph until done reports true or the frame budget runs out.
func tickUntil(g *PathGraph, frames int, done func() bool) int {
	for i := 0; i < frames; i++ {
		if done() {
			return i
		}
		g.Tick()
	}
	return frames
}

func indexes(s EdgeSet) []int {
	result := make([]int, 0, len(s))
	for _, e := range s {
		result = append(result, e.Index())
	}
	return result
}
