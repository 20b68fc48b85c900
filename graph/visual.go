package graph

import (
	"cogentcore.org/core/math32"
)

// Endpoint is anything with a stable identity and a position in the scene.
// Endpoints are owned by the caller; the graph only references them.
type Endpoint interface {
	ID() string
	Position() math32.Vector3
}

// Visual is the renderable appearance of an emission.
type Visual interface {
	// OnCreate is called when the emission starts traveling.
	OnCreate()

	// OnUpdate is called after the emission has moved.
	OnUpdate()

	// OnDestroy is called when the emission is torn down.
	OnDestroy()

	// Clone returns a fresh visual of the same type.
	Clone() Visual

	SetPosition(p math32.Vector3)
	Position() math32.Vector3
}

// InstancedVisual is a visual drawn as many instances of one shared object.
// Emissions carrying an InstancedVisual are pooled into a Batch on the
// connection instead of being added to the scene one by one.
type InstancedVisual interface {
	Visual

	// InstanceKey groups visually identical emissions into one batch.
	InstanceKey() string

	// SetInstancePosition places one instance slot.
	SetInstancePosition(slot int, p math32.Vector3)
}

// StateCopier is implemented by visuals that can continue the animation
// state of another visual, so that a cloned emission picks up where its
// predecessor left off.
type StateCopier interface {
	CopyState(src Visual)
}

// Scene receives the visuals of emissions as they enter and leave a
// connection.
type Scene interface {
	AddEntity(v Visual)
	RemoveEntity(v Visual)
}

// VisualKind tells whether an emission is drawn on its own or as an instance.
type VisualKind int

const (
	// Individual visuals are added to the scene per emission.
	Individual VisualKind = iota
	// Instanced visuals share one draw object per batch.
	Instanced
)

// String returns the name of the visual kind
func (k VisualKind) String() string {
	switch k {
	case Individual:
		return "individual"
	case Instanced:
		return "instanced"
	default:
		return "unknown"
	}
}

// kindOf resolves the visual capability once, at emission creation.
func kindOf(v Visual) VisualKind {
	if _, ok := v.(InstancedVisual); ok {
		return Instanced
	}
	return Individual
}

type nopScene struct{}

func (nopScene) AddEntity(Visual)    {}
func (nopScene) RemoveEntity(Visual) {}
