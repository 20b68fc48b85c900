package ingest

import (
	"encoding/json"
	"fmt"

	"cogentcore.org/core/math32"
	"github.com/TFMV/echoflow/models"
	"gopkg.in/yaml.v3"
)

// document is the schema shared by JSON and YAML topology files. The
// nodes/edges keys are accepted as aliases of points/links.
type document struct {
	Name   string    `json:"name" yaml:"name"`
	Points []docNode `json:"points" yaml:"points"`
	Nodes  []docNode `json:"nodes" yaml:"nodes"`
	Links  []docLink `json:"links" yaml:"links"`
	Edges  []docLink `json:"edges" yaml:"edges"`
	Flows  []docFlow `json:"flows" yaml:"flows"`
}

type docNode struct {
	ID         string         `json:"id" yaml:"id"`
	Label      string         `json:"label" yaml:"label"`
	Type       string         `json:"type" yaml:"type"`
	Color      string         `json:"color" yaml:"color"`
	Size       float32        `json:"size" yaml:"size"`
	Position   []float32      `json:"position" yaml:"position"` // [x, y] or [x, y, z]
	Properties map[string]any `json:"data" yaml:"data"`
}

type docLink struct {
	Source   string  `json:"source" yaml:"source"`
	Target   string  `json:"target" yaml:"target"`
	Type     string  `json:"type" yaml:"type"`
	Weight   float32 `json:"weight" yaml:"weight"`
	Color    string  `json:"color" yaml:"color"`
	Fidelity int     `json:"fidelity" yaml:"fidelity"`
}

type docFlow struct {
	ID            string  `json:"id" yaml:"id"`
	Label         string  `json:"label" yaml:"label"`
	Source        string  `json:"source" yaml:"source"`
	Destination   string  `json:"destination" yaml:"destination"`
	Speed         float32 `json:"speed" yaml:"speed"`
	Margin        float32 `json:"margin" yaml:"margin"`
	InstanceCount int     `json:"instance_count" yaml:"instance_count"`
	Instanced     bool    `json:"instanced" yaml:"instanced"`
	Interval      int     `json:"interval" yaml:"interval"`
	Color         string  `json:"color" yaml:"color"`
}

// JSONProcessor handles JSON topology documents
type JSONProcessor struct {
	palette *Palette
}

// NewJSONProcessor creates a new JSON processor with the specified palette
func NewJSONProcessor(palette *Palette) *JSONProcessor {
	if palette == nil {
		palette = DefaultPalette()
	}
	return &JSONProcessor{palette: palette}
}

// Name returns the name of the processor
func (p *JSONProcessor) Name() string {
	return "JSON Processor"
}

// Process processes JSON data
func (p *JSONProcessor) Process(data []byte) (*models.Topology, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing JSON: %w", err)
	}
	return build(doc, "JSON Import", p.palette)
}

// YAMLProcessor handles YAML topology documents
type YAMLProcessor struct {
	palette *Palette
}

// NewYAMLProcessor creates a new YAML processor with the specified palette
func NewYAMLProcessor(palette *Palette) *YAMLProcessor {
	if palette == nil {
		palette = DefaultPalette()
	}
	return &YAMLProcessor{palette: palette}
}

// Name returns the name of the processor
func (p *YAMLProcessor) Name() string {
	return "YAML Processor"
}

// Process processes YAML data
func (p *YAMLProcessor) Process(data []byte) (*models.Topology, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing YAML: %w", err)
	}
	return build(doc, "YAML Import", p.palette)
}

func build(doc document, fallbackName string, palette *Palette) (*models.Topology, error) {
	name := doc.Name
	if name == "" {
		name = fallbackName
	}
	b := newBuilder(name, palette)

	// Add points
	for _, n := range append(doc.Points, doc.Nodes...) {
		if n.ID == "" {
			return nil, fmt.Errorf("point %q has no id", n.Label)
		}
		if _, err := b.topology.FindPoint(n.ID); err == nil {
			return nil, fmt.Errorf("point %s: %w", n.ID, models.ErrDuplicate)
		}

		point := b.point(n.ID, n.Label)
		point.Properties = n.Properties
		if n.Type != "" {
			point.Type = n.Type
		}
		size, color := point.Size, point.Color
		if n.Color != "" {
			color = n.Color
		}
		if n.Size > 0 {
			size = n.Size
			b.sized[n.ID] = true
		}
		point.SetAppearance(size, color)
		if pos, ok := position(n.Position); ok {
			point.Position = pos
			point.Fixed = true
		}
	}

	// Add links
	for _, l := range append(doc.Links, doc.Edges...) {
		weight := l.Weight
		if weight == 0 {
			weight = 1
		}
		link, err := b.link(l.Source, l.Target, weight)
		if err != nil {
			return nil, err
		}
		if l.Type != "" {
			link.Type = l.Type
		}
		if l.Color != "" {
			link.SetAppearance(l.Color)
		}
		link.Fidelity = l.Fidelity
	}

	// Add flows
	for _, f := range doc.Flows {
		flow := models.NewFlow(f.Source, f.Destination)
		if f.ID != "" {
			flow.ID = f.ID
		}
		flow.Label = f.Label
		flow.Instanced = f.Instanced
		flow.Color = b.flowColor()
		if f.Color != "" {
			flow.Color = f.Color
		}
		if f.Speed > 0 {
			flow.Speed = f.Speed
		}
		if f.Margin > 0 {
			flow.Margin = f.Margin
		}
		if f.InstanceCount > 0 {
			flow.InstanceCount = f.InstanceCount
		}
		if f.Interval > 0 {
			flow.Interval = f.Interval
		}
		if err := b.topology.AddFlow(flow); err != nil {
			return nil, err
		}
	}

	return b.finish(), nil
}

func position(v []float32) (math32.Vector3, bool) {
	switch len(v) {
	case 2:
		return math32.Vec3(v[0], v[1], 0), true
	case 3:
		return math32.Vec3(v[0], v[1], v[2]), true
	default:
		return math32.Vector3{}, false
	}
}
