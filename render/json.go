package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// JSONRenderer outputs raw JSON format
type JSONRenderer struct{}

// Name returns the name of the renderer
func (r *JSONRenderer) Name() string {
	return "JSON Renderer"
}

// Description returns a description of the renderer
func (r *JSONRenderer) Description() string {
	return "Renders frames as JSON data for machine consumption or custom visualizations"
}

// Render creates a JSON representation of the frame
func (r *JSONRenderer) Render(frame *Frame, options *OutputOptions) ([]byte, error) {
	return json.MarshalIndent(frame, "", "  ")
}

// DOTRenderer outputs Graphviz DOT format
type DOTRenderer struct{}

// Name returns the name of the renderer
func (r *DOTRenderer) Name() string {
	return "DOT Renderer"
}

// Description returns a description of the renderer
func (r *DOTRenderer) Description() string {
	return "Renders the frame topology in Graphviz DOT format for compatibility with Graphviz tools"
}

// Render creates a DOT representation of the frame. Links are undirected
// and tokens are not drawn.
func (r *DOTRenderer) Render(frame *Frame, options *OutputOptions) ([]byte, error) {
	var buf bytes.Buffer
	pr := newProjector(frame.Bounds(), options.Width, options.Height, options.Padding)

	buf.WriteString("graph G {\n")

	// Graph attributes
	fmt.Fprintf(&buf, "  graph [bgcolor=\"%s\", size=\"%g,%g\"];\n",
		options.Background, options.Width/72.0, options.Height/72.0)

	// Point default attributes
	fmt.Fprintf(&buf, "  node [shape=circle, fontname=\"Arial\", fontsize=%g];\n", options.FontSize)

	// Link default attributes
	fmt.Fprintf(&buf, "  edge [fontname=\"Arial\", fontsize=%g];\n", options.FontSize*0.8)

	// Add points
	for _, p := range frame.Points {
		color := p.Color
		if color == "" {
			color = "#4285F4"
		}

		size := p.Size
		if size <= 0 {
			size = options.PointSize
		}

		label := p.Label
		if label == "" {
			label = p.ID
		}

		// Pin points at their projected position, in inches
		x, y := pr.project(p.Position)
		fmt.Fprintf(&buf, "  %s [label=%s, color=\"%s\", width=%g, pos=\"%g,%g!\"];\n",
			quote(p.ID), quote(label), color, size/20.0, x/72.0, (options.Height-y)/72.0)
	}

	// Add links
	for _, l := range frame.Links {
		color := l.Color
		if color == "" {
			color = "#666666"
		}

		weight := l.Weight
		if weight <= 0 {
			weight = 1.0
		}

		fmt.Fprintf(&buf, "  %s -- %s [color=\"%s\", weight=%g];\n",
			quote(l.Source), quote(l.Target), color, weight)
	}

	buf.WriteString("}\n")

	return buf.Bytes(), nil
}

// quote returns s as a DOT string literal
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
