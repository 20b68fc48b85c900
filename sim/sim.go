// Package sim drives a path graph built from a topology. It schedules the
// flows of the topology, advances the graph one tick at a time and
// snapshots frames for the renderers and the server.
//
// The graph itself is single threaded. Simulation serializes ticks, manual
// emits, reloads and snapshots behind one mutex so that the server and the
// tick loop can share it.
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/TFMV/echoflow/config"
	"github.com/TFMV/echoflow/curve"
	"github.com/TFMV/echoflow/graph"
	"github.com/TFMV/echoflow/models"
	"github.com/TFMV/echoflow/render"
)

// Simulation owns the path graph and scene of one topology
type Simulation struct {
	mu     sync.Mutex
	cfg    *config.Configuration
	logger *slog.Logger

	topology *models.Topology
	points   map[string]*models.Point
	links    map[string]*graph.Connection // by link ID
	graph    *graph.PathGraph
	scene    *render.Scene

	tick    uint64
	emitted int
	hops    int

	subMu       sync.Mutex
	subscribers map[chan *render.Frame]struct{}
}

// New creates a simulation with an empty topology
func New(cfg *config.Configuration, logger *slog.Logger) *Simulation {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Simulation{
		cfg:         cfg,
		logger:      logger,
		scene:       render.NewScene(),
		subscribers: make(map[chan *render.Frame]struct{}),
		topology:    models.NewTopology("empty"),
		points:      make(map[string]*models.Point),
		links:       make(map[string]*graph.Connection),
	}
	s.graph = s.newGraph()
	return s
}

// Load replaces the topology. The graph is rebuilt from scratch and every
// token in flight is dropped.
func (s *Simulation) Load(topology *models.Topology) error {
	if topology == nil {
		return fmt.Errorf("load: %w", models.ErrNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reset(topology); err != nil {
		return err
	}

	s.logger.Info("topology loaded",
		"name", topology.Name,
		"points", len(topology.Points),
		"links", len(topology.Links),
		"flows", len(topology.Flows),
		"nodes", len(s.graph.Nodes()))
	return nil
}

// RemoveLink drops a link from the topology and rebuilds the graph without
// it. Tokens in flight are dropped.
func (s *Simulation) RemoveLink(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.topology.FindLink(id); err != nil {
		return err
	}
	s.topology.RemoveLink(id)
	if err := s.reset(s.topology); err != nil {
		return err
	}

	s.logger.Info("link removed", "link", id, "connections", len(s.graph.Connections()))
	return nil
}

func (s *Simulation) newGraph() *graph.PathGraph {
	return graph.NewPathGraph(graph.WithBiased(s.cfg.Biased), graph.WithLogger(s.logger))
}

func (s *Simulation) reset(topology *models.Topology) error {
	g := s.newGraph()
	adapter := curve.GetAdapter(s.cfg.Curve)

	points := make(map[string]*models.Point, len(topology.Points))
	for _, p := range topology.Points {
		points[p.ID] = p
	}

	links := make(map[string]*graph.Connection, len(topology.Links))
	for _, link := range topology.Links {
		source, target := points[link.Source], points[link.Target]
		if source == nil || target == nil {
			return fmt.Errorf("link %s: %w", link.ID, models.ErrNotFound)
		}

		fidelity := link.Fidelity
		if fidelity <= 0 {
			fidelity = s.cfg.Fidelity
		}
		conn, err := graph.NewConnection(source.Endpoint(), target.Endpoint(),
			graph.WithFidelity(fidelity),
			graph.WithCurveAdapter(adapter),
			graph.WithScene(s.scene))
		if err != nil {
			return fmt.Errorf("link %s: %w", link.ID, err)
		}
		g.Add(conn)

		// Duplicate pairs share the connection the graph kept
		if edge := g.Edge(source.Endpoint(), target.Endpoint()); edge != nil {
			links[link.ID] = edge.Connection
		}
	}
	g.Rebuild()

	s.scene.Clear()
	s.topology = topology
	s.points = points
	s.links = links
	s.graph = g
	s.tick = 0
	return nil
}

// Topology returns the current topology
func (s *Simulation) Topology() *models.Topology {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.topology
}

// Graph returns the current path graph. It must not be used concurrently
// with the simulation.
func (s *Simulation) Graph() *graph.PathGraph {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph
}

// Tick launches the flows that are due and advances the graph one frame
func (s *Simulation) Tick() {
	s.mu.Lock()
	s.tick++
	for _, flow := range s.topology.Flows {
		if flow.Interval <= 0 || (s.tick-1)%uint64(flow.Interval) != 0 {
			continue
		}
		if err := s.emit(flow); err != nil {
			s.logger.Warn("flow skipped", "flow", flow.ID, "error", err)
		}
	}
	s.graph.Tick()
	s.mu.Unlock()

	s.publish()
}

// Emit launches one emission for flow. The flow does not need to be part of
// the topology but its points do.
func (s *Simulation) Emit(flow *models.Flow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.emit(flow)
}

func (s *Simulation) emit(flow *models.Flow) error {
	source, ok := s.points[flow.Source]
	if !ok {
		return fmt.Errorf("flow source %q: %w", flow.Source, models.ErrNotFound)
	}

	opts := graph.Options{
		Speed:         flow.Speed,
		Margin:        flow.Margin,
		InstanceCount: flow.InstanceCount,
		Source:        source.Endpoint(),
	}
	if !flow.Broadcast() {
		destination, ok := s.points[flow.Destination]
		if !ok {
			return fmt.Errorf("flow destination %q: %w", flow.Destination, models.ErrNotFound)
		}
		opts.Destination = destination.Endpoint()
	}

	color := flow.Color
	if color == "" {
		color = source.Color
	}
	var visual graph.Visual
	if flow.Instanced {
		visual = render.NewInstancedToken(color, color, s.cfg.TokenSize)
	} else {
		visual = render.NewToken(color, s.cfg.TokenSize)
	}

	e := graph.NewEmission(visual, opts)
	e.OnEmit(func(hop *graph.Emission) {
		if hop.Connection() != nil {
			s.hops++
		}
	})
	s.graph.Emit(e)
	s.emitted++

	s.logger.Debug("flow emitted",
		"flow", flow.ID,
		"source", flow.Source,
		"destination", flow.Destination,
		"tick", s.tick)
	return nil
}

// Frame snapshots the current state of the simulation
func (s *Simulation) Frame() *render.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame()
}

func (s *Simulation) frame() *render.Frame {
	f := render.NewFrame(s.topology.Name, s.tick)
	for _, p := range s.topology.Points {
		f.AddPoint(p)
	}
	for _, link := range s.topology.Links {
		from, to := s.points[link.Source].Position, s.points[link.Target].Position
		if conn, ok := s.links[link.ID]; ok {
			f.AddLink(link, conn.Curve(), from, to, conn.Fidelity())
			continue
		}
		f.AddLink(link, nil, from, to, 0)
	}
	f.AddTokens(s.scene)

	f.Stats["tokens"] = len(f.Tokens)
	f.Stats["pending"] = s.graph.Pending()
	f.Stats["emitted"] = s.emitted
	f.Stats["hops"] = s.hops
	f.Stats["connections"] = len(s.graph.Connections())
	return f
}

// Stats returns the counters of the latest frame
func (s *Simulation) Stats() map[string]int {
	return s.Frame().Stats
}

// Subscribe returns a channel receiving a frame after every tick. Slow
// subscribers only see the newest frame. The returned function cancels the
// subscription and closes the channel.
func (s *Simulation) Subscribe() (<-chan *render.Frame, func()) {
	ch := make(chan *render.Frame, 1)

	s.subMu.Lock()
	s.subscribers[ch] = struct{}{}
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subscribers, ch)
			s.subMu.Unlock()
			close(ch)
		})
	}
}

func (s *Simulation) publish() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if len(s.subscribers) == 0 {
		return
	}

	frame := s.Frame()
	for ch := range s.subscribers {
		// Drop the stale frame, if any, in favor of the new one
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- frame:
		default:
		}
	}
}

// Run ticks the simulation fps times per second until ctx is canceled
func (s *Simulation) Run(ctx context.Context, fps int) error {
	if fps <= 0 {
		return fmt.Errorf("fps must be positive, got %d", fps)
	}

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	s.logger.Info("simulation started", "fps", fps)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("simulation stopped")
			return nil
		case <-ticker.C:
			s.Tick()
		}
	}
}
