package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/TFMV/echoflow/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	cfg        = config.Default()
	configFile string
	logger     = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "echoflow",
	Short: "Animate traffic flowing through a topology",
	Long: `echoflow lays out a topology in 3D, connects its points with curved
connections and routes traffic tokens along them. Frames can be rendered to
SVG, ASCII, JSON, DOT or HTML, or served live over a websocket.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd.Flags()); err != nil {
			return err
		}

		// Set up logging
		level := slog.LevelInfo
		if cfg.Debug {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
		logger.Debug("debug mode enabled")
		return nil
	},
}

// loadConfig applies the config file, then the flags given on the command
// line on top of it
func loadConfig(flags *pflag.FlagSet) error {
	changed := make(map[string]string)
	flags.Visit(func(f *pflag.Flag) {
		changed[f.Name] = f.Value.String()
	})

	if err := cfg.Merge(configFile); err != nil {
		return err
	}
	for name, value := range changed {
		if err := flags.Set(name, value); err != nil {
			return fmt.Errorf("flag --%s: %w", name, err)
		}
	}
	return nil
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Path to a YAML configuration file")

	// Basic options
	flags.StringVarP(&cfg.Data, "data", "d", cfg.Data, "Path to topology file (JSON, YAML, CSV, log)")
	flags.StringVarP(&cfg.Format, "format", "f", cfg.Format, "Output format: svg, ascii, json, dot, html")
	flags.StringVarP(&cfg.Output, "output", "o", cfg.Output, "Path to output file (defaults to stdout)")
	flags.IntVar(&cfg.Port, "port", cfg.Port, "Port for serve")

	// Visualization options
	flags.Float32Var(&cfg.Width, "width", cfg.Width, "Width of the visualization")
	flags.Float32Var(&cfg.Height, "height", cfg.Height, "Height of the visualization")
	flags.Float32Var(&cfg.Noise, "noise", cfg.Noise, "Intensity of surrealist noise (0.0-1.0)")
	flags.StringVar(&cfg.Layout, "layout", cfg.Layout, "Layout: force, ring, surreal, cluster")
	flags.StringVar(&cfg.Curve, "curve", cfg.Curve, "Connection curves: arc or line")
	flags.IntVar(&cfg.Fidelity, "fidelity", cfg.Fidelity, "Curve samples per connection")
	flags.Float32Var(&cfg.TokenSize, "token-size", cfg.TokenSize, "Radius of traffic tokens")
	flags.BoolVar(&cfg.Color, "color", cfg.Color, "Colorize ASCII output")

	// Simulation options
	flags.BoolVar(&cfg.Biased, "biased", cfg.Biased, "Reuse routes in both directions")
	flags.IntVar(&cfg.Ticks, "ticks", cfg.Ticks, "Ticks to simulate before rendering")
	flags.IntVar(&cfg.FPS, "fps", cfg.FPS, "Ticks per second for serve")
	flags.BoolVar(&cfg.Watch, "watch", cfg.Watch, "Reload the topology when the data file changes")

	// Advanced options
	flags.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Enable debug logging")
	flags.Float32Var(&cfg.Extent, "extent", cfg.Extent, "Edge length of the cube the layout fills")
	flags.IntVar(&cfg.MaxIterations, "iterations", cfg.MaxIterations, "Maximum iterations for the layout")

	rootCmd.AddCommand(renderCmd, serveCmd, routesCmd)
}

func main() {
	// Cancel on SIGINT/SIGTERM for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
