package render

import (
	"time"

	"cogentcore.org/core/math32"
	"github.com/TFMV/echoflow/curve"
	"github.com/TFMV/echoflow/models"
)

// Frame is a snapshot of the scene at one tick, decoupled from the live
// simulation so that it can be rendered or sent while the next tick runs
type Frame struct {
	Name      string         `json:"name"`
	Tick      uint64         `json:"tick"`
	Timestamp time.Time      `json:"timestamp"`
	Points    []FramePoint   `json:"points"`
	Links     []FrameLink    `json:"links"`
	Tokens    []FrameToken   `json:"tokens"`
	Stats     map[string]int `json:"stats,omitempty"`
}

// FramePoint is a point as drawn in a frame
type FramePoint struct {
	ID       string         `json:"id"`
	Label    string         `json:"label"`
	Type     string         `json:"type,omitempty"`
	Color    string         `json:"color"`
	Size     float32        `json:"size"`
	Position math32.Vector3 `json:"position"`
}

// FrameLink is a link as drawn in a frame, sampled along its curve
type FrameLink struct {
	ID     string           `json:"id"`
	Source string           `json:"source"`
	Target string           `json:"target"`
	Color  string           `json:"color"`
	Weight float32          `json:"weight"`
	Path   []math32.Vector3 `json:"path"`
}

// FrameToken is a traveling emission as drawn in a frame
type FrameToken struct {
	Position  math32.Vector3 `json:"position"`
	Color     string         `json:"color"`
	Radius    float32        `json:"radius"`
	Age       int            `json:"age,omitempty"`
	Instanced bool           `json:"instanced,omitempty"`
}

// NewFrame creates an empty frame
func NewFrame(name string, tick uint64) *Frame {
	return &Frame{
		Name:      name,
		Tick:      tick,
		Timestamp: time.Now(),
		Stats:     make(map[string]int),
	}
}

// AddPoint adds a point to the frame
func (f *Frame) AddPoint(p *models.Point) {
	f.Points = append(f.Points, FramePoint{
		ID:       p.ID,
		Label:    p.Label,
		Type:     p.Type,
		Color:    p.Color,
		Size:     p.Size,
		Position: p.Position,
	})
}

// AddLink adds a link to the frame, sampling c at samples+1 evenly spaced
// distances. A nil curve draws a straight segment between the endpoints.
func (f *Frame) AddLink(l *models.Link, c curve.Curve, from, to math32.Vector3, samples int) {
	link := FrameLink{
		ID:     l.ID,
		Source: l.Source,
		Target: l.Target,
		Color:  l.Color,
		Weight: l.Weight,
	}

	if c == nil || samples < 1 {
		link.Path = []math32.Vector3{from, to}
	} else {
		length := c.Length()
		link.Path = make([]math32.Vector3, 0, samples+1)
		for i := 0; i <= samples; i++ {
			link.Path = append(link.Path, c.PointAt(length*float32(i)/float32(samples)))
		}
	}
	f.Links = append(f.Links, link)
}

// AddTokens adds the drawable tokens of a scene
func (f *Frame) AddTokens(s *Scene) {
	f.Tokens = append(f.Tokens, s.Tokens()...)
}

// Bounds returns the box enclosing everything drawn in the frame
func (f *Frame) Bounds() math32.Box3 {
	box := math32.B3Empty()
	for _, p := range f.Points {
		box.ExpandByPoint(p.Position)
	}
	for _, l := range f.Links {
		box.ExpandByPoints(l.Path)
	}
	for _, t := range f.Tokens {
		box.ExpandByPoint(t.Position)
	}
	return box
}

// point returns the frame point with the given ID
func (f *Frame) point(id string) (FramePoint, bool) {
	for _, p := range f.Points {
		if p.ID == id {
			return p, true
		}
	}
	return FramePoint{}, false
}
