package render

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Symbols used on the ASCII grid
const (
	linkSymbol  = '·'
	tokenSymbol = 'o'
)

var pointSymbols = []rune{'O', '@', '#', 'X', '*', '+'}

// ASCIIRenderer outputs ASCII art format
type ASCIIRenderer struct{}

// Name returns the name of the renderer
func (r *ASCIIRenderer) Name() string {
	return "ASCII Renderer"
}

// Description returns a description of the renderer
func (r *ASCIIRenderer) Description() string {
	return "Renders frames as ASCII art for terminal or text-based output"
}

// cell is one character of the grid and the color it is drawn in
type cell struct {
	r     rune
	color string
}

// Render creates an ASCII representation of the frame
func (r *ASCIIRenderer) Render(frame *Frame, options *OutputOptions) ([]byte, error) {
	// Scale down for ASCII, with adjustment for the aspect ratio of characters
	width := max(int(options.Width/10), 40)
	height := max(int(options.Height/20), 20)

	grid := make([][]cell, height)
	for i := range grid {
		grid[i] = make([]cell, width)
		for j := range grid[i] {
			grid[i][j] = cell{r: ' '}
		}
	}

	// Draw a border around the frame
	for i := 0; i < width; i++ {
		grid[0][i].r = '-'
		grid[height-1][i].r = '-'
	}
	for i := 0; i < height; i++ {
		grid[i][0].r = '|'
		grid[i][width-1].r = '|'
	}
	grid[0][0].r, grid[0][width-1].r = '+', '+'
	grid[height-1][0].r, grid[height-1][width-1].r = '+', '+'

	// Project into the inner area of the grid
	pr := newProjector(frame.Bounds(), float32(width-2), float32(height-2), 1)
	toGrid := func(x, y float32) (int, int) {
		return clamp(int(x)+1, 1, width-2), clamp(int(y)+1, 1, height-2)
	}

	// Draw links segment by segment along their curves
	for _, link := range frame.Links {
		for i := 1; i < len(link.Path); i++ {
			x1, y1 := toGrid(pr.project(link.Path[i-1]))
			x2, y2 := toGrid(pr.project(link.Path[i]))
			drawLine(grid, x1, y1, x2, y2, link.Color)
		}
	}

	// Draw points
	for i, p := range frame.Points {
		x, y := toGrid(pr.project(p.Position))
		grid[y][x] = cell{r: pointSymbols[i%len(pointSymbols)], color: p.Color}

		// Add a simple label if enabled and space available
		if options.ShowLabels && p.Label != "" && y+1 < height-1 {
			label := []rune(p.Label)
			for j := 0; j < len(label) && x+j < width-1; j++ {
				grid[y+1][x+j] = cell{r: label[j]}
			}
		}
	}

	// Draw tokens on top
	for _, t := range frame.Tokens {
		x, y := toGrid(pr.project(t.Position))
		grid[y][x] = cell{r: tokenSymbol, color: t.Color}
	}

	// Add title at the top if there's space
	title := fmt.Sprintf("EchoFlow - %s", frame.Name)
	if len(title) < width-4 && height > 3 {
		for i, c := range []rune(title) {
			grid[1][i+2] = cell{r: c}
		}
	}

	// Add timestamp if requested
	if options.Timestamp && height > 4 {
		stamp := fmt.Sprintf("%s tick %d tokens %d", frame.Timestamp.Format("2006-01-02 15:04"), frame.Tick, len(frame.Tokens))
		if len(stamp) < width-4 {
			for i, c := range []rune(stamp) {
				grid[height-2][i+2] = cell{r: c}
			}
		}
	}

	// Convert grid to string
	var result strings.Builder
	for _, row := range grid {
		for _, c := range row {
			if options.Color && c.color != "" {
				result.WriteString(terminalColor(c.color).Sprint(string(c.r)))
				continue
			}
			result.WriteRune(c.r)
		}
		result.WriteRune('\n')
	}

	return []byte(result.String()), nil
}

// Draw a line on the grid using Bresenham's algorithm
func drawLine(grid [][]cell, x1, y1, x2, y2 int, hex string) {
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx := 1
	if x1 >= x2 {
		sx = -1
	}
	sy := 1
	if y1 >= y2 {
		sy = -1
	}
	err := dx + dy

	for {
		// Plot the point if it's in bounds and still blank
		if x1 >= 0 && x1 < len(grid[0]) && y1 >= 0 && y1 < len(grid) && grid[y1][x1].r == ' ' {
			grid[y1][x1] = cell{r: linkSymbol, color: hex}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			err += dx
			y1 += sy
		}
	}
}

// terminalColor maps a hex color to the closest basic terminal color
func terminalColor(hex string) *color.Color {
	r, g, b := parseHexColor(hex)
	hi := func(v uint8) bool { return v >= 0x80 }

	var attr color.Attribute
	switch {
	case hi(r) && hi(g) && hi(b):
		attr = color.FgWhite
	case hi(r) && hi(g):
		attr = color.FgYellow
	case hi(r) && hi(b):
		attr = color.FgMagenta
	case hi(g) && hi(b):
		attr = color.FgCyan
	case hi(r):
		attr = color.FgRed
	case hi(g):
		attr = color.FgGreen
	case hi(b):
		attr = color.FgBlue
	default:
		attr = color.FgHiBlack
	}

	c := color.New(attr)
	// Emit escapes even when stdout is not a terminal
	c.EnableColor()
	return c
}
