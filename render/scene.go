package render

import (
	"sync"

	"github.com/TFMV/echoflow/graph"
)

// Scene is the registry of visuals currently on screen. Connections add
// and remove visuals from the simulation goroutine while the server reads
// snapshots, so every method is safe for concurrent use.
type Scene struct {
	mu       sync.RWMutex
	entities []graph.Visual
	index    map[graph.Visual]int
}

// NewScene creates an empty scene
func NewScene() *Scene {
	return &Scene{index: make(map[graph.Visual]int)}
}

// AddEntity adds a visual to the scene. Adding a visual twice is a no-op.
func (s *Scene) AddEntity(v graph.Visual) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[v]; ok {
		return
	}
	s.index[v] = len(s.entities)
	s.entities = append(s.entities, v)
}

// RemoveEntity removes a visual from the scene
func (s *Scene) RemoveEntity(v graph.Visual) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[v]
	if !ok {
		return
	}
	delete(s.index, v)

	// Keep insertion order so frames are stable
	copy(s.entities[i:], s.entities[i+1:])
	s.entities[len(s.entities)-1] = nil
	s.entities = s.entities[:len(s.entities)-1]
	for j := i; j < len(s.entities); j++ {
		s.index[s.entities[j]] = j
	}
}

// Len returns the number of visuals in the scene
func (s *Scene) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities)
}

// Entities returns a copy of the visuals in insertion order
func (s *Scene) Entities() []graph.Visual {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]graph.Visual(nil), s.entities...)
}

// Clear removes every visual
func (s *Scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entities = nil
	clear(s.index)
}

// Tokens returns the drawable tokens of every visual in the scene. Parked
// instance slots are left out.
func (s *Scene) Tokens() []FrameToken {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tokens []FrameToken
	for _, v := range s.entities {
		switch t := v.(type) {
		case *InstancedToken:
			for _, pos := range t.Instances() {
				tokens = append(tokens, FrameToken{
					Position:  pos,
					Color:     t.Color,
					Radius:    t.Radius,
					Instanced: true,
				})
			}
		case *Token:
			if !t.Alive() {
				continue
			}
			tokens = append(tokens, FrameToken{
				Position: t.Position(),
				Color:    t.Color,
				Radius:   t.Radius,
				Age:      t.Age(),
			})
		}
	}
	return tokens
}
