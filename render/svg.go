package render

import (
	"bytes"
	"fmt"
	"html"
	"time"

	"cogentcore.org/core/math32"
)

// SVGRenderer outputs SVG format
type SVGRenderer struct{}

// Name returns the name of the renderer
func (r *SVGRenderer) Name() string {
	return "SVG Renderer"
}

// Description returns a description of the renderer
func (r *SVGRenderer) Description() string {
	return "Renders frames as Scalable Vector Graphics (SVG) for high-quality vector output"
}

// Render creates an SVG representation of the frame
func (r *SVGRenderer) Render(frame *Frame, options *OutputOptions) ([]byte, error) {
	var buf bytes.Buffer
	pr := newProjector(frame.Bounds(), options.Width, options.Height, options.Padding)

	// SVG header with appropriate encoding and responsive viewBox
	fmt.Fprintf(&buf, `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<svg width="%g" height="%g" viewBox="0 0 %g %g" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="%s"/>
`, options.Width, options.Height, options.Width, options.Height, options.Background)

	// Draw a border if quality is high
	if options.Quality == "high" {
		fmt.Fprintf(&buf, `<rect x="0" y="0" width="%g" height="%g" fill="none" stroke="#e0e0e0" stroke-width="1"/>
`, options.Width, options.Height)
	}

	// Draw links as polylines along their curves
	buf.WriteString("<g class=\"links\">\n")
	for _, link := range frame.Links {
		color := link.Color
		if color == "" {
			color = "#666666"
		}

		strokeWidth := options.LinkWidth
		if link.Weight > 0 {
			// Scale the link width based on weight with a minimum
			strokeWidth = math32.Max(0.5, link.Weight*options.LinkWidth*0.5)
		}

		buf.WriteString(`<polyline fill="none" points="`)
		for i, p := range link.Path {
			x, y := pr.project(p)
			if i > 0 {
				buf.WriteByte(' ')
			}
			fmt.Fprintf(&buf, "%.2f,%.2f", x, y)
		}
		fmt.Fprintf(&buf, `" stroke="%s" stroke-width="%g"/>
`, color, strokeWidth)
	}
	buf.WriteString("</g>\n")

	// Draw points
	buf.WriteString("<g class=\"points\">\n")
	for _, p := range frame.Points {
		x, y := pr.project(p.Position)

		color := p.Color
		if color == "" {
			color = "#4285F4" // Default blue
		}
		radius := p.Size
		if radius <= 0 {
			radius = options.PointSize
		}

		// Draw shadow for high quality rendering
		if options.Quality == "high" {
			fmt.Fprintf(&buf, `<circle cx="%.2f" cy="%.2f" r="%g" fill="rgba(0,0,0,0.1)" transform="translate(2,2)"/>
`, x, y, radius)
		}

		fmt.Fprintf(&buf, `<circle cx="%.2f" cy="%.2f" r="%g" fill="%s" stroke="rgba(0,0,0,0.3)" stroke-width="0.5"/>
`, x, y, radius, color)

		// Add point label if enabled
		if options.ShowLabels && p.Label != "" {
			labelY := y + radius + options.FontSize + 2 // Position label below the point
			fmt.Fprintf(&buf, `<text x="%.2f" y="%.2f" font-family="sans-serif" font-size="%g" fill="#333333" text-anchor="middle">%s</text>
`, x, labelY, options.FontSize, html.EscapeString(p.Label))
		}
	}
	buf.WriteString("</g>\n")

	// Draw tokens on top
	buf.WriteString("<g class=\"tokens\">\n")
	for _, t := range frame.Tokens {
		x, y := pr.project(t.Position)
		radius := t.Radius
		if radius <= 0 {
			radius = options.TokenSize
		}
		fmt.Fprintf(&buf, `<circle cx="%.2f" cy="%.2f" r="%g" fill="%s"/>
`, x, y, radius, t.Color)
	}
	buf.WriteString("</g>\n")

	// Add timestamp if requested
	if options.Timestamp {
		fmt.Fprintf(&buf, `<text x="5" y="%g" font-family="sans-serif" font-size="8" fill="#808080">%s tick %d</text>
`, options.Height-5, frame.Timestamp.Format(time.DateTime), frame.Tick)
	}

	// Add frame metadata for high quality rendering
	if options.Quality == "high" {
		fmt.Fprintf(&buf, `<text x="5" y="15" font-family="sans-serif" font-size="10" fill="#808080">Points: %d | Links: %d | Tokens: %d</text>
`, len(frame.Points), len(frame.Links), len(frame.Tokens))
	}

	// SVG footer
	buf.WriteString("</svg>\n")

	return buf.Bytes(), nil
}
