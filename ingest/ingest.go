// Package ingest turns topology files into models.Topology values. JSON and
// YAML documents describe points, links and flows explicitly; CSV and log
// files only describe links, and their points are created as they appear.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/TFMV/echoflow/models"
)

// TopologyProcessor defines the interface that all topology processors must implement
type TopologyProcessor interface {
	// Process takes raw data bytes and returns a topology
	Process(data []byte) (*models.Topology, error)

	// Name returns the name of the processor
	Name() string
}

// Palette provides color schemes for scene visualization
type Palette struct {
	PointColors []string
	LinkColors  []string
	FlowColors  []string
	Background  string
}

// DefaultPalette returns a default color palette with vibrant colors
func DefaultPalette() *Palette {
	return &Palette{
		PointColors: []string{
			"#4285F4", // Google Blue
			"#EA4335", // Google Red
			"#FBBC05", // Google Yellow
			"#34A853", // Google Green
			"#673AB7", // Purple
			"#3F51B5", // Indigo
			"#00BCD4", // Cyan
			"#009688", // Teal
			"#FF5722", // Deep Orange
		},
		LinkColors: []string{
			"#666666", // Default gray
			"#888888", // Lighter gray
			"#AAAAAA", // Even lighter gray
		},
		FlowColors: []string{
			"#FF9900",
			"#E91E63",
			"#00C853",
		},
		Background: "#f8f8f8",
	}
}

// SurrealPalette returns a surrealist-inspired color palette
func SurrealPalette() *Palette {
	return &Palette{
		PointColors: []string{
			"#FF6D00", // Amber
			"#2979FF", // Blue
			"#00E676", // Green
			"#F50057", // Pink
			"#651FFF", // Deep Purple
			"#C6FF00", // Lime
			"#FF3D00", // Deep Orange
			"#00B0FF", // Light Blue
			"#76FF03", // Light Green
		},
		LinkColors: []string{
			"#333333", // Dark gray
			"#9C27B0", // Purple
			"#00BFA5", // Teal
		},
		FlowColors: []string{
			"#FFEA00",
			"#18FFFF",
			"#FF4081",
		},
		Background: "#212121", // Dark background for contrast
	}
}

// GetProcessor returns the appropriate processor for the given format
func GetProcessor(format string) (TopologyProcessor, error) {
	switch strings.ToLower(format) {
	case "json":
		return NewJSONProcessor(DefaultPalette()), nil
	case "yaml", "yml":
		return NewYAMLProcessor(DefaultPalette()), nil
	case "csv":
		return NewCSVProcessor(DefaultPalette()), nil
	case "log", "txt":
		return NewLogProcessor(DefaultPalette()), nil
	case "surreal-json":
		return NewJSONProcessor(SurrealPalette()), nil
	case "surreal-yaml":
		return NewYAMLProcessor(SurrealPalette()), nil
	case "surreal-csv":
		return NewCSVProcessor(SurrealPalette()), nil
	case "surreal-log":
		return NewLogProcessor(SurrealPalette()), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// FormatOf guesses the format of a file from its extension
func FormatOf(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// ProcessFile reads and processes a topology file. An empty format is
// derived from the file extension.
func ProcessFile(path, format string) (*models.Topology, error) {
	if format == "" {
		format = FormatOf(path)
	}
	processor, err := GetProcessor(format)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}

	topology, err := processor.Process(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", processor.Name(), err)
	}
	topology.Source = path
	return topology, nil
}

// builder accumulates points and links while a file is processed
type builder struct {
	palette  *Palette
	topology *models.Topology
	degree   map[string]int
	sized    map[string]bool // points whose size was given explicitly
}

func newBuilder(name string, palette *Palette) *builder {
	if palette == nil {
		palette = DefaultPalette()
	}
	return &builder{
		palette:  palette,
		topology: models.NewTopology(name),
		degree:   make(map[string]int),
		sized:    make(map[string]bool),
	}
}

// point returns the point with the given ID, creating it on first use
func (b *builder) point(id, label string) *models.Point {
	if p, err := b.topology.FindPoint(id); err == nil {
		return p
	}
	if label == "" {
		label = id
	}

	p := models.NewPointWithID(id, "default", label)
	p.SetAppearance(12.0, b.palette.PointColors[len(b.topology.Points)%len(b.palette.PointColors)])
	b.topology.Points = append(b.topology.Points, p)
	return p
}

// link adds a link between two existing points
func (b *builder) link(source, target string, weight float32) (*models.Link, error) {
	l := models.NewLink(source, target, "default", weight, nil)
	l.SetAppearance(b.palette.LinkColors[len(b.topology.Links)%len(b.palette.LinkColors)])
	if err := b.topology.AddLink(l); err != nil {
		return nil, err
	}

	// Increase point size based on number of connections
	b.degree[source]++
	b.degree[target]++
	return l, nil
}

func (b *builder) flowColor() string {
	return b.palette.FlowColors[len(b.topology.Flows)%len(b.palette.FlowColors)]
}

// defaultFlow broadcasts from the busiest point when the source format
// cannot describe flows itself
func (b *builder) defaultFlow() {
	if len(b.topology.Flows) > 0 || len(b.topology.Links) == 0 {
		return
	}

	ids := make([]string, 0, len(b.degree))
	for id := range b.degree {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if b.degree[ids[i]] != b.degree[ids[j]] {
			return b.degree[ids[i]] > b.degree[ids[j]]
		}
		return ids[i] < ids[j]
	})

	f := models.NewFlow(ids[0], "")
	f.Label = "broadcast"
	f.Color = b.flowColor()
	b.topology.Flows = append(b.topology.Flows, f)
}

// finish normalizes point sizes and returns the topology
func (b *builder) finish() *models.Topology {
	const minSize, maxSize = 8.0, 24.0
	for _, p := range b.topology.Points {
		if b.sized[p.ID] {
			continue
		}
		size := p.Size + float32(b.degree[p.ID])
		if size < minSize {
			size = minSize
		} else if size > maxSize {
			size = maxSize
		}
		p.SetAppearance(size, p.Color)
	}
	return b.topology
}
