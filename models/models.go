// Package models provides the scene topology used by the echoflow application:
// the points traffic travels between, the links joining them and the flows
// that schedule emissions over them.
package models

import (
	"time"

	"cogentcore.org/core/math32"
)

// Point represents a fixed anchor in the scene
type Point struct {
	ID         string         `json:"id" yaml:"id"`
	Type       string         `json:"type" yaml:"type"`
	Label      string         `json:"label" yaml:"label"`
	Size       float32        `json:"size" yaml:"size"`
	Color      string         `json:"color" yaml:"color"`
	Position   math32.Vector3 `json:"position" yaml:"position"`
	Fixed      bool           `json:"fixed,omitempty" yaml:"fixed,omitempty"` // Position was given explicitly and is kept by layouts
	Properties map[string]any `json:"properties,omitempty" yaml:"properties,omitempty"`
	CreatedAt  time.Time      `json:"created_at" yaml:"-"`
	UpdatedAt  time.Time      `json:"updated_at" yaml:"-"`
}

// Link represents a curved connection between two points
type Link struct {
	ID         string         `json:"id" yaml:"id"`
	Source     string         `json:"source" yaml:"source"` // ID of the first point
	Target     string         `json:"target" yaml:"target"` // ID of the second point
	Type       string         `json:"type" yaml:"type"`
	Weight     float32        `json:"weight" yaml:"weight"`
	Color      string         `json:"color" yaml:"color"`
	Fidelity   int            `json:"fidelity,omitempty" yaml:"fidelity,omitempty"` // Curve samples, 0 uses the configured default
	Properties map[string]any `json:"properties,omitempty" yaml:"properties,omitempty"`
	CreatedAt  time.Time      `json:"created_at" yaml:"-"`
	UpdatedAt  time.Time      `json:"updated_at" yaml:"-"`
}

// Flow schedules emissions from a point, either toward a destination or
// broadcast when Destination is empty
type Flow struct {
	ID            string  `json:"id" yaml:"id"`
	Label         string  `json:"label,omitempty" yaml:"label,omitempty"`
	Source        string  `json:"source" yaml:"source"`
	Destination   string  `json:"destination,omitempty" yaml:"destination,omitempty"`
	Speed         float32 `json:"speed" yaml:"speed"`
	Margin        float32 `json:"margin" yaml:"margin"`
	InstanceCount int     `json:"instance_count" yaml:"instance_count"`
	Instanced     bool    `json:"instanced" yaml:"instanced"`
	Interval      int     `json:"interval" yaml:"interval"` // Ticks between emissions, 0 emits only on demand
	Color         string  `json:"color" yaml:"color"`
}

// Topology is the full set of points, links and flows of a scene
type Topology struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Points    []*Point  `json:"points" yaml:"points"`
	Links     []*Link   `json:"links" yaml:"links"`
	Flows     []*Flow   `json:"flows" yaml:"flows"`
	Source    string    `json:"source,omitempty" yaml:"source,omitempty"` // File or format the topology was loaded from
	CreatedAt time.Time `json:"created_at" yaml:"-"`
	UpdatedAt time.Time `json:"updated_at" yaml:"-"`
}
