package render

import (
	"cogentcore.org/core/math32"
	"github.com/TFMV/echoflow/graph"
)

// Token is a single drawn emission
type Token struct {
	Color  string
	Radius float32

	position math32.Vector3
	age      int // frames lived, carried across hops
	alive    bool
}

// NewToken creates a token visual
func NewToken(color string, radius float32) *Token {
	return &Token{Color: color, Radius: radius}
}

// OnCreate marks the token alive
func (t *Token) OnCreate() { t.alive = true }

// OnUpdate ages the token by one frame
func (t *Token) OnUpdate() { t.age++ }

// OnDestroy marks the token dead
func (t *Token) OnDestroy() { t.alive = false }

// Clone returns a fresh token with the same appearance
func (t *Token) Clone() graph.Visual {
	return NewToken(t.Color, t.Radius)
}

// CopyState continues the age of the token the clone was made from
func (t *Token) CopyState(src graph.Visual) {
	switch s := src.(type) {
	case *Token:
		t.age = s.age
	case *InstancedToken:
		t.age = s.age
	}
}

// SetPosition moves the token
func (t *Token) SetPosition(p math32.Vector3) { t.position = p }

// Position returns where the token was last placed
func (t *Token) Position() math32.Vector3 { return t.position }

// Age returns the number of frames the token has lived
func (t *Token) Age() int {
	return t.age
}

// Alive reports whether the token is between create and destroy
func (t *Token) Alive() bool {
	return t.alive
}

// InstancedToken is one draw object shared by every emission of a batch.
// Only the visual that became the batch visual receives slot positions.
type InstancedToken struct {
	Token
	key   string
	slots []math32.Vector3
}

// NewInstancedToken creates an instanced token. Emissions with the same key
// on the same connection share one batch.
func NewInstancedToken(key, color string, radius float32) *InstancedToken {
	return &InstancedToken{
		Token: Token{Color: color, Radius: radius},
		key:   key,
	}
}

// Clone returns a fresh instanced token with the same key and appearance
func (t *InstancedToken) Clone() graph.Visual {
	return NewInstancedToken(t.key, t.Color, t.Radius)
}

// InstanceKey returns the batch key
func (t *InstancedToken) InstanceKey() string {
	return t.key
}

// SetInstancePosition moves one slot of the shared draw object
func (t *InstancedToken) SetInstancePosition(slot int, p math32.Vector3) {
	if slot < 0 {
		return
	}
	for len(t.slots) <= slot {
		t.slots = append(t.slots, graph.ParkedPosition)
	}
	t.slots[slot] = p
}

// Instances returns the positions of the occupied slots
func (t *InstancedToken) Instances() []math32.Vector3 {
	var result []math32.Vector3
	for _, p := range t.slots {
		if p != graph.ParkedPosition {
			result = append(result, p)
		}
	}
	return result
}

// Slots returns the number of slots seen so far
func (t *InstancedToken) Slots() int {
	return len(t.slots)
}
