package models

import (
	"fmt"
	"time"

	"cogentcore.org/core/math32"
	"github.com/TFMV/echoflow/graph"
	"github.com/google/uuid"
)

// Flow defaults, matching the emission defaults of the graph package
const (
	DefaultFlowSpeed    = graph.DefaultSpeed
	DefaultFlowMargin   = graph.DefaultMargin
	DefaultFlowInterval = 30
)

// NewPoint creates a new point with a unique ID and timestamps
func NewPoint(pointType, label string, properties map[string]any) *Point {
	now := time.Now()
	return &Point{
		ID:         uuid.New().String(),
		Type:       pointType,
		Label:      label,
		Properties: properties,
		Size:       1.0,       // Default size
		Color:      "#808080", // Default color (gray)
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// NewPointWithID creates a new point with the given ID
func NewPointWithID(id, pointType, label string) *Point {
	p := NewPoint(pointType, label, nil)
	if id != "" {
		p.ID = id
	}
	return p
}

// NewLink creates a new link with a unique ID and timestamps
func NewLink(source, target, linkType string, weight float32, properties map[string]any) *Link {
	now := time.Now()
	return &Link{
		ID:         uuid.New().String(),
		Source:     source,
		Target:     target,
		Type:       linkType,
		Weight:     weight,
		Color:      "#000000", // Default to black
		Properties: properties,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// NewFlow creates a new flow with default kinematics. destination may be
// empty for a broadcast.
func NewFlow(source, destination string) *Flow {
	return &Flow{
		ID:            uuid.New().String(),
		Source:        source,
		Destination:   destination,
		Speed:         DefaultFlowSpeed,
		Margin:        DefaultFlowMargin,
		InstanceCount: graph.DefaultInstanceCount,
		Interval:      DefaultFlowInterval,
		Color:         "#ff9900",
	}
}

// NewTopology creates an empty topology with a unique ID and timestamps
func NewTopology(name string) *Topology {
	now := time.Now()
	return &Topology{
		ID:        uuid.New().String(),
		Name:      name,
		Points:    []*Point{},
		Links:     []*Link{},
		Flows:     []*Flow{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Endpoint returns the point as a graph endpoint. The returned value reads
// the point's position on every call, so layouts moving the point move the
// curves attached to it.
func (p *Point) Endpoint() graph.Endpoint {
	return anchor{p}
}

// SetPosition sets the position of a point
func (p *Point) SetPosition(pos math32.Vector3) {
	p.Position = pos
	p.UpdatedAt = time.Now()
}

// SetAppearance sets the visual properties of a point
func (p *Point) SetAppearance(size float32, color string) {
	p.Size = size
	p.Color = color
	p.UpdatedAt = time.Now()
}

// SetAppearance sets the visual properties of a link
func (l *Link) SetAppearance(color string) {
	l.Color = color
	l.UpdatedAt = time.Now()
}

// Broadcast reports whether the flow floods every link instead of
// following a route
func (f *Flow) Broadcast() bool {
	return f.Destination == ""
}

// AddPoint adds a point to the topology
func (t *Topology) AddPoint(point *Point) error {
	if _, err := t.FindPoint(point.ID); err == nil {
		return fmt.Errorf("point %s: %w", point.ID, ErrDuplicate)
	}
	t.Points = append(t.Points, point)
	t.UpdatedAt = time.Now()
	return nil
}

// AddLink adds a link to the topology
func (t *Topology) AddLink(link *Link) error {
	if link.Source == link.Target {
		return fmt.Errorf("link %s: %w", link.ID, ErrSelfLink)
	}

	// Check if source and target points exist
	if _, err := t.FindPoint(link.Source); err != nil {
		return fmt.Errorf("link %s source: %w", link.ID, err)
	}
	if _, err := t.FindPoint(link.Target); err != nil {
		return fmt.Errorf("link %s target: %w", link.ID, err)
	}

	t.Links = append(t.Links, link)
	t.UpdatedAt = time.Now()
	return nil
}

// AddFlow adds a flow to the topology
func (t *Topology) AddFlow(flow *Flow) error {
	if _, err := t.FindPoint(flow.Source); err != nil {
		return fmt.Errorf("flow %s source: %w", flow.ID, err)
	}
	if !flow.Broadcast() {
		if _, err := t.FindPoint(flow.Destination); err != nil {
			return fmt.Errorf("flow %s destination: %w", flow.ID, err)
		}
	}

	t.Flows = append(t.Flows, flow)
	t.UpdatedAt = time.Now()
	return nil
}

// RemovePoint removes a point and every link and flow attached to it
func (t *Topology) RemovePoint(pointID string) {
	// Remove point
	var points []*Point
	for _, p := range t.Points {
		if p.ID != pointID {
			points = append(points, p)
		}
	}
	t.Points = points

	// Remove all links connected to the point
	var links []*Link
	for _, l := range t.Links {
		if l.Source != pointID && l.Target != pointID {
			links = append(links, l)
		}
	}
	t.Links = links

	// Remove all flows starting or ending at the point
	var flows []*Flow
	for _, f := range t.Flows {
		if f.Source != pointID && f.Destination != pointID {
			flows = append(flows, f)
		}
	}
	t.Flows = flows

	t.UpdatedAt = time.Now()
}

// RemoveLink removes a link from the topology
func (t *Topology) RemoveLink(linkID string) {
	var links []*Link
	for _, l := range t.Links {
		if l.ID != linkID {
			links = append(links, l)
		}
	}
	t.Links = links
	t.UpdatedAt = time.Now()
}

type anchor struct {
	point *Point
}

func (a anchor) ID() string               { return a.point.ID }
func (a anchor) Position() math32.Vector3 { return a.point.Position }
