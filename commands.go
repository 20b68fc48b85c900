package main

import (
	"context"
	"fmt"
	"os"

	"github.com/TFMV/echoflow/config"
	"github.com/TFMV/echoflow/ingest"
	"github.com/TFMV/echoflow/models"
	"github.com/TFMV/echoflow/render"
	"github.com/TFMV/echoflow/server"
	"github.com/TFMV/echoflow/sim"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var renderCmd = &cobra.Command{
	Use:   "render [data file]",
	Short: "Simulate a number of ticks and render the last frame",
	Example: `  echoflow render network.json -f svg -o network.svg
  echoflow render links.csv -f ascii --color --ticks 120`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			cfg.Data = args[0]
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		topology, err := loadTopology(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		s := sim.New(cfg, logger)
		if err := s.Load(topology); err != nil {
			return err
		}
		for i := 0; i < cfg.Ticks; i++ {
			s.Tick()
		}

		return renderOutput(s.Frame(), cfg)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve [data file]",
	Short: "Run the simulation and serve it over HTTP",
	Example: `  echoflow serve network.yaml --port 9090
  echoflow serve links.log --watch --fps 60`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			cfg.Data = args[0]
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		topology, err := loadTopology(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		s := sim.New(cfg, logger)
		if err := s.Load(topology); err != nil {
			return err
		}
		srv := server.New(cfg, s, logger)

		g, ctx := errgroup.WithContext(cmd.Context())
		g.Go(func() error {
			return srv.Start(ctx)
		})
		g.Go(func() error {
			return s.Run(ctx, cfg.FPS)
		})

		if cfg.Watch {
			w, err := ingest.NewWatcher(cfg.Data, sim.Format(cfg, cfg.Data), logger)
			if err != nil {
				return err
			}
			g.Go(func() error {
				return w.Run(ctx)
			})
			g.Go(func() error {
				for topology := range w.Updates() {
					if err := sim.Layout(ctx, cfg, topology); err != nil {
						logger.Warn("layout of reloaded topology failed", "error", err)
						continue
					}
					if err := s.Load(topology); err != nil {
						logger.Warn("reloaded topology rejected", "error", err)
					}
				}
				return nil
			})
		}

		return g.Wait()
	},
}

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the HTTP routes served by serve",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		srv := server.New(cfg, sim.New(cfg, logger), logger)

		methods := map[string]*color.Color{
			"GET":    color.New(color.FgGreen, color.Bold),
			"POST":   color.New(color.FgYellow, color.Bold),
			"DELETE": color.New(color.FgRed, color.Bold),
		}
		out := cmd.OutOrStdout()
		for _, route := range srv.Routes() {
			method := fmt.Sprintf("%-6s", route.Method)
			if c, ok := methods[route.Method]; ok {
				method = c.Sprint(method)
			}
			fmt.Fprintf(out, "%s %s %s\n",
				method,
				color.CyanString("%-15s", route.Path),
				route.Description)
		}
		return nil
	},
}

// loadTopology reads and lays out the configured data file, or the sample
// topology when there is none
func loadTopology(ctx context.Context, cfg *config.Configuration) (*models.Topology, error) {
	if cfg.Data != "" {
		return sim.LoadFile(ctx, cfg, cfg.Data)
	}

	logger.Info("no data file given, using the sample topology")
	topology, err := server.SampleTopology()
	if err != nil {
		return nil, err
	}
	if err := sim.Layout(ctx, cfg, topology); err != nil {
		return nil, err
	}
	return topology, nil
}

// renderOutput renders the frame and writes it to the output file or stdout
func renderOutput(frame *render.Frame, cfg *config.Configuration) error {
	renderer, err := render.GetRenderer(cfg.Format)
	if err != nil {
		return err
	}

	output, err := renderer.Render(frame, cfg.Renderer())
	if err != nil {
		return fmt.Errorf("rendering failed: %w", err)
	}

	if cfg.Output == "" {
		_, err = os.Stdout.Write(output)
		return err
	}
	if err := os.WriteFile(cfg.Output, output, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	logger.Info("output written",
		"file", cfg.Output,
		"renderer", renderer.Name(),
		"tick", frame.Tick,
		"tokens", len(frame.Tokens))
	return nil
}
