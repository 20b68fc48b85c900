package ingest

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/TFMV/echoflow/models"
)

// flowSeparator marks a log line describing a flow instead of a link:
// "A ~> B" routes from A to B, "A ~> *" broadcasts from A
const flowSeparator = " ~> "

// linkSeparators are the relationship patterns recognized in log lines
var linkSeparators = []string{
	" -> ",
	" => ",
	" <-> ",
	" connected to ",
	" connects to ",
	" links to ",
	" linked to ",
	" - ",
}

// LogProcessor handles log data
type LogProcessor struct {
	palette *Palette
}

// NewLogProcessor creates a new log processor with the specified palette
func NewLogProcessor(palette *Palette) *LogProcessor {
	if palette == nil {
		palette = DefaultPalette()
	}
	return &LogProcessor{palette: palette}
}

// Name returns the name of the processor
func (p *LogProcessor) Name() string {
	return "Log Processor"
}

// Process processes log data where each line represents a relationship,
// e.g. "A -> B" or "X connected to Y". Lines starting with # and lines
// matching no pattern are ignored.
func (p *LogProcessor) Process(data []byte) (*models.Topology, error) {
	b := newBuilder("Log Import", p.palette)

	type pendingFlow struct {
		source, destination string
		line                int
	}
	var flows []pendingFlow

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		// Flows are resolved once every point is known
		if source, destination, ok := split(text, flowSeparator); ok {
			if destination == "*" {
				destination = ""
			}
			flows = append(flows, pendingFlow{source, destination, line})
			continue
		}

		var sourceID, targetID string
		var found bool
		for _, sep := range linkSeparators {
			if sourceID, targetID, found = split(text, sep); found {
				break
			}
		}

		// Skip if no pattern matched
		if !found || sourceID == targetID {
			continue
		}

		b.point(sourceID, "")
		b.point(targetID, "")
		if _, err := b.link(sourceID, targetID, 1.0); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading log: %w", err)
	}

	for _, pf := range flows {
		f := models.NewFlow(pf.source, pf.destination)
		f.Color = b.flowColor()
		if err := b.topology.AddFlow(f); err != nil {
			return nil, fmt.Errorf("line %d: %w", pf.line, err)
		}
	}

	b.defaultFlow()
	return b.finish(), nil
}

func split(line, sep string) (string, string, bool) {
	parts := strings.Split(line, sep)
	if len(parts) != 2 {
		return "", "", false
	}
	a, b := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if a == "" || b == "" {
		return "", "", false
	}
	return a, b, true
}
