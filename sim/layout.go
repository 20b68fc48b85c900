package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/TFMV/echoflow/config"
	"github.com/TFMV/echoflow/ingest"
	"github.com/TFMV/echoflow/models"
	"github.com/TFMV/echoflow/physics"
)

// Format returns the ingest format for path. A non zero noise selects the
// surreal palette.
func Format(cfg *config.Configuration, path string) string {
	format := ingest.FormatOf(path)
	if cfg.Noise > 0 {
		format = "surreal-" + format
	}
	return format
}

// LoadFile reads a topology file and lays it out
func LoadFile(ctx context.Context, cfg *config.Configuration, path string) (*models.Topology, error) {
	topology, err := ingest.ProcessFile(path, Format(cfg, path))
	if err != nil {
		return nil, fmt.Errorf("failed to process input file: %w", err)
	}
	if err := Layout(ctx, cfg, topology); err != nil {
		return nil, err
	}
	return topology, nil
}

// Layout positions the points of topology with the configured algorithm.
// Noise distorts any layout that is not surreal already. Layouts that
// support it are scaled to the configured extent.
func Layout(ctx context.Context, cfg *config.Configuration, topology *models.Topology) error {
	layout, err := physics.GetLayoutAlgorithm(cfg.Layout)
	if err != nil {
		return err
	}
	if cfg.Noise > 0 && cfg.Layout != "surreal" {
		layout = physics.NewSurrealLayout(layout, time.Now().UnixNano())
	}
	if b, ok := layout.(physics.Bounded); ok {
		b.SetExtent(cfg.Extent)
	}

	if err := physics.Run(ctx, layout, topology, cfg.MaxIterations); err != nil {
		return fmt.Errorf("failed to apply %s: %w", layout.Name(), err)
	}
	return nil
}
