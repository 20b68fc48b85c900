package models

import (
	"fmt"

	"cogentcore.org/core/math32"
)

// PointFilter is a function type used to filter points in queries
type PointFilter func(point *Point) bool

// LinkFilter is a function type used to filter links in queries
type LinkFilter func(link *Link) bool

// FindPoint returns a point by its ID
func (t *Topology) FindPoint(id string) (*Point, error) {
	for _, p := range t.Points {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("point %s: %w", id, ErrNotFound)
}

// FindLink returns a link by its ID
func (t *Topology) FindLink(id string) (*Link, error) {
	for _, l := range t.Links {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, fmt.Errorf("link %s: %w", id, ErrNotFound)
}

// FindPointsByType returns all points of a specific type
func (t *Topology) FindPointsByType(pointType string) []*Point {
	return t.FilterPoints(func(p *Point) bool {
		return p.Type == pointType
	})
}

// FindLinks returns all links attached to a point, in either direction
func (t *Topology) FindLinks(pointID string) []*Link {
	return t.FilterLinks(func(l *Link) bool {
		return l.Source == pointID || l.Target == pointID
	})
}

// Neighbors returns all points directly linked to a point
func (t *Topology) Neighbors(pointID string) []*Point {
	linked := make(map[string]bool)
	for _, l := range t.Links {
		if l.Source == pointID {
			linked[l.Target] = true
		}
		if l.Target == pointID {
			linked[l.Source] = true
		}
	}

	return t.FilterPoints(func(p *Point) bool {
		return linked[p.ID]
	})
}

// FilterPoints returns points that match the provided filter function
func (t *Topology) FilterPoints(filter PointFilter) []*Point {
	var result []*Point
	for _, p := range t.Points {
		if filter(p) {
			result = append(result, p)
		}
	}
	return result
}

// FilterLinks returns links that match the provided filter function
func (t *Topology) FilterLinks(filter LinkFilter) []*Link {
	var result []*Link
	for _, l := range t.Links {
		if filter(l) {
			result = append(result, l)
		}
	}
	return result
}

// Bounds returns the box enclosing every point, or an empty box when there
// are no points
func (t *Topology) Bounds() math32.Box3 {
	box := math32.B3Empty()
	for _, p := range t.Points {
		box.ExpandByPoint(p.Position)
	}
	return box
}
