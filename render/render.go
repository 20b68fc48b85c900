// Package render draws simulation frames. The Scene collects the visuals
// of traveling emissions, a Frame snapshots the scene together with the
// topology, and the renderers turn frames into SVG, ASCII, JSON, DOT or an
// HTML page that keeps itself updated over a websocket.
package render

import (
	"fmt"
	"strings"

	"cogentcore.org/core/math32"
)

// OutputOptions defines rendering configuration options
type OutputOptions struct {
	Format     string  // Output format (svg, ascii, json, dot, html)
	Width      float32 // Width of the output
	Height     float32 // Height of the output
	Padding    float32 // Margin kept free around the drawing
	Background string  // Background color
	Timestamp  bool    // Include timestamp in visualization
	PointSize  float32 // Default point size
	LinkWidth  float32 // Default link width
	TokenSize  float32 // Default token radius
	FontSize   float32 // Font size for labels
	ShowLabels bool    // Show point labels
	Color      bool    // Colorize ASCII output with terminal escapes
	Quality    string  // Rendering quality (low, medium, high)
	Stream     string  // Websocket path the HTML page subscribes to
}

// Renderer interface defines methods that all rendering backends must implement
type Renderer interface {
	// Render creates a visualization of the frame using the provided options
	Render(frame *Frame, options *OutputOptions) ([]byte, error)

	// Name returns the name of the renderer
	Name() string

	// Description returns a description of the renderer
	Description() string
}

// NewDefaultOptions creates a default set of output options
func NewDefaultOptions(format string) *OutputOptions {
	return &OutputOptions{
		Format:     format,
		Width:      800,
		Height:     600,
		Padding:    40,
		Background: "#f8f8f8",
		Timestamp:  true,
		PointSize:  12.0,
		LinkWidth:  1.0,
		TokenSize:  4.0,
		FontSize:   10.0,
		ShowLabels: true,
		Quality:    "medium",
		Stream:     "/ws",
	}
}

// GetRenderer returns the appropriate renderer based on format
func GetRenderer(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "svg":
		return &SVGRenderer{}, nil
	case "ascii":
		return &ASCIIRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	case "dot":
		return &DOTRenderer{}, nil
	case "html":
		return &HTMLRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// Formats lists the supported output formats
func Formats() []string {
	return []string{"svg", "ascii", "json", "dot", "html"}
}

// projector maps scene coordinates onto a 2D canvas. The projection is
// orthographic along Z, with Y pointing up in the scene and down on screen.
type projector struct {
	bounds math32.Box3
	scale  float32
	offX   float32
	offY   float32
	height float32
}

func newProjector(bounds math32.Box3, width, height, padding float32) projector {
	if bounds.IsEmpty() {
		bounds = math32.B3(-1, -1, -1, 1, 1, 1)
	}
	size := bounds.Size()
	innerW := math32.Max(width-2*padding, 1)
	innerH := math32.Max(height-2*padding, 1)

	// Keep the aspect ratio and center the drawing
	scale := math32.Min(innerW/math32.Max(size.X, 1e-3), innerH/math32.Max(size.Y, 1e-3))
	return projector{
		bounds: bounds,
		scale:  scale,
		offX:   padding + (innerW-size.X*scale)/2,
		offY:   padding + (innerH-size.Y*scale)/2,
		height: height,
	}
}

// project returns the canvas coordinates of p
func (pr projector) project(p math32.Vector3) (float32, float32) {
	x := pr.offX + (p.X-pr.bounds.Min.X)*pr.scale
	y := pr.height - (pr.offY + (p.Y-pr.bounds.Min.Y)*pr.scale)
	return x, y
}

// Helper functions

// Parse a hex color string into RGB components
func parseHexColor(hex string) (uint8, uint8, uint8) {
	hex = strings.TrimPrefix(hex, "#")

	// Handle different formats
	if len(hex) == 3 {
		// Convert 3-digit hex to 6-digit
		r := parseHexDigit(hex[0])
		g := parseHexDigit(hex[1])
		b := parseHexDigit(hex[2])
		return r * 17, g * 17, b * 17 // Multiply by 17 to convert from 0-15 to 0-255
	} else if len(hex) >= 6 {
		r := parseHexByte(hex[0:2])
		g := parseHexByte(hex[2:4])
		b := parseHexByte(hex[4:6])
		return r, g, b
	}

	// Default to black if invalid
	return 0, 0, 0
}

func parseHexDigit(c byte) uint8 {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

func parseHexByte(s string) uint8 {
	var result uint8
	for i := 0; i < len(s); i++ {
		result = result*16 + parseHexDigit(s[i])
	}
	return result
}

// Clamp a value between lo and hi
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// Absolute value of an integer
func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
