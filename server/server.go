// Package server exposes a running simulation over HTTP. Frames can be
// fetched in any render format or streamed as JSON over a websocket, and
// topologies can be uploaded to replace the running one.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/TFMV/echoflow/config"
	"github.com/TFMV/echoflow/ingest"
	"github.com/TFMV/echoflow/models"
	"github.com/TFMV/echoflow/render"
	"github.com/TFMV/echoflow/sim"
	"github.com/gorilla/websocket"
)

const (
	maxUploadSize = 10 << 20 // 10 MB
	writeWait     = 10 * time.Second
)

// Route describes one endpoint of the server
type Route struct {
	Method      string
	Path        string
	Description string

	handler http.HandlerFunc
}

// Server serves one simulation
type Server struct {
	cfg      *config.Configuration
	sim      *sim.Simulation
	logger   *slog.Logger
	upgrader websocket.Upgrader
	routes   []Route
}

// New creates a server for s
func New(cfg *config.Configuration, s *sim.Simulation, logger *slog.Logger) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}

	srv := &Server{
		cfg:    cfg,
		sim:    s,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
	srv.routes = []Route{
		{"GET", "/{$}", "Live canvas following the simulation", srv.handleIndex},
		{"GET", "/api/topology", "Current topology as JSON", srv.handleTopology},
		{"POST", "/api/topology", "Upload a topology file (multipart field dataFile)", srv.handleUpload},
		{"GET", "/api/frame", "Current frame (?format=svg|ascii|json|dot|html&width=&height=)", srv.handleFrame},
		{"GET", "/api/stats", "Simulation counters", srv.handleStats},
		{"POST", "/api/emit", "Launch one emission from a JSON flow", srv.handleEmit},
		{"DELETE", "/api/links/{id}", "Remove a link and rebuild the graph", srv.handleRemoveLink},
		{"GET", "/ws", "Websocket streaming a JSON frame per tick", srv.handleStream},
	}
	return srv
}

// Routes returns the routes served by Handler
func (s *Server) Routes() []Route {
	return s.routes
}

// Handler returns the HTTP handler serving every route
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	for _, route := range s.routes {
		mux.HandleFunc(route.Method+" "+route.Path, route.handler)
	}
	return s.logRequests(mux)
}

// Start launches the web server on the configured port and shuts it down
// gracefully once ctx is canceled
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		// Streams end with ctx
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "port", s.cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start))
	})
}

// handleIndex renders the live canvas page
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	options := s.cfg.Renderer()
	options.Format = "html"

	output, err := (&render.HTMLRenderer{}).Render(s.sim.Frame(), options)
	if err != nil {
		http.Error(w, "Error generating page: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(output)
}

// handleTopology provides a JSON API for the topology data
func (s *Server) handleTopology(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sim.Topology())
}

// handleUpload replaces the running topology with an uploaded file
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "Error parsing form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, handler, err := r.FormFile("dataFile")
	if err != nil {
		http.Error(w, "Error retrieving file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	// Processors read files, keep the extension so the format can be derived
	tempFile, err := os.CreateTemp("", "upload-*"+filepath.Ext(handler.Filename))
	if err != nil {
		http.Error(w, "Error creating temp file: "+err.Error(), http.StatusInternalServerError)
		return
	}
	defer os.Remove(tempFile.Name())
	defer tempFile.Close()

	if _, err := io.Copy(tempFile, file); err != nil {
		http.Error(w, "Error saving file: "+err.Error(), http.StatusInternalServerError)
		return
	}

	topology, err := sim.LoadFile(r.Context(), s.cfg, tempFile.Name())
	if err != nil {
		http.Error(w, "Error processing file: "+err.Error(), http.StatusBadRequest)
		return
	}
	topology.Source = handler.Filename
	if err := s.sim.Load(topology); err != nil {
		http.Error(w, "Error loading topology: "+err.Error(), http.StatusBadRequest)
		return
	}

	s.logger.Info("topology uploaded", "file", handler.Filename, "points", len(topology.Points))
	writeJSON(w, http.StatusOK, map[string]any{
		"name":   topology.Name,
		"points": len(topology.Points),
		"links":  len(topology.Links),
		"flows":  len(topology.Flows),
	})
}

// handleFrame renders the current frame in the requested format
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	format := strings.ToLower(query.Get("format"))
	if format == "" {
		format = "svg"
	}

	renderer, err := render.GetRenderer(format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	options := s.cfg.Renderer()
	options.Format = format
	if width, err := strconv.Atoi(query.Get("width")); err == nil && width > 0 {
		options.Width = float32(width)
	}
	if height, err := strconv.Atoi(query.Get("height")); err == nil && height > 0 {
		options.Height = float32(height)
	}
	// Terminal escapes make no sense in a browser
	options.Color = false

	output, err := renderer.Render(s.sim.Frame(), options)
	if err != nil {
		http.Error(w, "Error generating visualization: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType(format))
	w.Write(output)
}

// handleStats reports the simulation counters
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sim.Stats())
}

// handleEmit launches one emission. Fields missing from the body take the
// defaults of a new flow.
func (s *Server) handleEmit(w http.ResponseWriter, r *http.Request) {
	flow := models.NewFlow("", "")
	if err := json.NewDecoder(io.LimitReader(r.Body, maxUploadSize)).Decode(flow); err != nil {
		http.Error(w, "Error decoding flow: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.sim.Emit(flow); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, models.ErrNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, http.StatusAccepted, flow)
}

// handleRemoveLink drops one link from the running topology
func (s *Server) handleRemoveLink(w http.ResponseWriter, r *http.Request) {
	if err := s.sim.RemoveLink(r.PathValue("id")); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, models.ErrNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleStream sends the current frame, then one frame per tick until the
// client leaves or the server shuts down
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	frames, cancel := s.sim.Subscribe()
	defer cancel()

	// Clients never send anything, reading only detects them leaving
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(f *render.Frame) error {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(f)
	}
	if err := send(s.sim.Frame()); err != nil {
		return
	}

	s.logger.Debug("stream opened", "remote", r.RemoteAddr)
	for {
		select {
		case <-r.Context().Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
				time.Now().Add(writeWait))
			return
		case <-gone:
			s.logger.Debug("stream closed", "remote", r.RemoteAddr)
			return
		case f, ok := <-frames:
			if !ok {
				return
			}
			if err := send(f); err != nil {
				s.logger.Debug("stream write failed", "error", err)
				return
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.Encode(v)
}

func contentType(format string) string {
	switch format {
	case "svg":
		return "image/svg+xml"
	case "html":
		return "text/html; charset=utf-8"
	case "json":
		return "application/json"
	case "dot":
		return "text/vnd.graphviz"
	default:
		return "text/plain; charset=utf-8"
	}
}

// SampleTopology creates a sample topology for demonstration
func SampleTopology() (*models.Topology, error) {
	data := []byte(`{
		"name": "Sample",
		"nodes": [
			{"id": "1", "label": "Gateway", "type": "router"},
			{"id": "2", "label": "Edge", "type": "router"},
			{"id": "3", "label": "Cache", "type": "service"},
			{"id": "4", "label": "Store", "type": "service"},
			{"id": "5", "label": "Worker", "type": "service"}
		],
		"edges": [
			{"source": "1", "target": "2", "weight": 1.2},
			{"source": "2", "target": "3", "weight": 0.9},
			{"source": "3", "target": "4", "weight": 1.0},
			{"source": "4", "target": "5", "weight": 1.5},
			{"source": "5", "target": "1", "weight": 2.0},
			{"source": "2", "target": "5", "weight": 0.7}
		],
		"flows": [
			{"source": "1", "destination": "4", "interval": 20},
			{"source": "3", "interval": 45, "instanced": true, "instance_count": 8, "color": "#33ccff"}
		]
	}`)

	processor, err := ingest.GetProcessor("json")
	if err != nil {
		return nil, err
	}
	return processor.Process(data)
}
