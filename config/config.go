// Package config holds the settings shared by every echoflow command.
// Values come from defaults, an optional YAML file and command line flags,
// in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/TFMV/echoflow/render"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a configuration fails validation
var ErrInvalidConfig = errors.New("invalid configuration")

// Configuration represents all the settings for the application
type Configuration struct {
	Format   string  `yaml:"format"`   // Output format for render
	Data     string  `yaml:"data"`     // Path to the topology file
	Output   string  `yaml:"output"`   // Output file, stdout when empty
	Port     int     `yaml:"port"`     // Port for serve
	Width    float32 `yaml:"width"`    // Width of the rendering
	Height   float32 `yaml:"height"`   // Height of the rendering
	Noise    float32 `yaml:"noise"`    // Intensity of the surreal palette and layout (0.0-1.0)
	Layout   string  `yaml:"layout"`   // force, ring, surreal or cluster
	Curve    string  `yaml:"curve"`    // arc or line
	Fidelity int     `yaml:"fidelity"` // Curve samples per connection
	Biased   bool    `yaml:"biased"`   // Reuse routes in both directions
	Ticks    int     `yaml:"ticks"`    // Ticks simulated before a render
	FPS      int     `yaml:"fps"`      // Ticks per second in serve
	Debug    bool    `yaml:"debug"`    // Enable debug logging
	Color    bool    `yaml:"color"`    // Colorize ASCII output
	Watch    bool    `yaml:"watch"`    // Reload the topology when the file changes

	TokenSize     float32 `yaml:"token_size"` // Radius of drawn tokens
	Extent        float32 `yaml:"extent"`     // Edge length of the layout cube
	MaxIterations int     `yaml:"iterations"` // Maximum layout iterations
}

// Default returns the default configuration
func Default() *Configuration {
	return &Configuration{
		Format:        "svg",
		Port:          8080,
		Width:         800,
		Height:        600,
		Layout:        "force",
		Curve:         "arc",
		Fidelity:      24,
		Biased:        true,
		Ticks:         60,
		FPS:           30,
		TokenSize:     4,
		Extent:        10,
		MaxIterations: 1000,
	}
}

// Load reads a YAML configuration file on top of the defaults
func Load(path string) (*Configuration, error) {
	cfg := Default()
	if err := cfg.Merge(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge overwrites the settings present in a YAML file. An empty path is a
// no-op.
func (c *Configuration) Merge(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks the configuration for values no command can work with
func (c *Configuration) Validate() error {
	var problems []string

	if !slices.Contains(render.Formats(), strings.ToLower(c.Format)) {
		problems = append(problems, fmt.Sprintf("unsupported format %q", c.Format))
	}
	if !slices.Contains([]string{"force", "ring", "surreal", "cluster"}, c.Layout) {
		problems = append(problems, fmt.Sprintf("unknown layout %q", c.Layout))
	}
	if !slices.Contains([]string{"arc", "line"}, c.Curve) {
		problems = append(problems, fmt.Sprintf("unknown curve %q", c.Curve))
	}
	if c.Port < 0 || c.Port > 65535 {
		problems = append(problems, fmt.Sprintf("port %d out of range", c.Port))
	}
	if c.Width <= 0 || c.Height <= 0 {
		problems = append(problems, "width and height must be positive")
	}
	if c.Noise < 0 || c.Noise > 1 {
		problems = append(problems, "noise must be between 0 and 1")
	}
	if c.Ticks < 0 {
		problems = append(problems, "ticks must not be negative")
	}
	if c.TokenSize <= 0 {
		problems = append(problems, "token size must be positive")
	}
	if c.Extent <= 0 {
		problems = append(problems, "extent must be positive")
	}
	if c.FPS <= 0 {
		problems = append(problems, "fps must be positive")
	}
	if c.Watch && c.Data == "" {
		problems = append(problems, "watch needs a data file")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// Renderer returns the render options matching the configuration
func (c *Configuration) Renderer() *render.OutputOptions {
	options := render.NewDefaultOptions(strings.ToLower(c.Format))
	options.Width = c.Width
	options.Height = c.Height
	options.Color = c.Color
	options.TokenSize = c.TokenSize
	return options
}
