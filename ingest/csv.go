package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/TFMV/echoflow/models"
)

// CSVProcessor handles CSV link lists
type CSVProcessor struct {
	palette *Palette
}

// NewCSVProcessor creates a new CSV processor with the specified palette
func NewCSVProcessor(palette *Palette) *CSVProcessor {
	if palette == nil {
		palette = DefaultPalette()
	}
	return &CSVProcessor{palette: palette}
}

// Name returns the name of the processor
func (p *CSVProcessor) Name() string {
	return "CSV Processor"
}

// Process processes CSV data. Rows linking a point to itself are skipped.
func (p *CSVProcessor) Process(data []byte) (*models.Topology, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	b := newBuilder("CSV Import", p.palette)

	// Read header
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}

	// Find source and target columns
	sourceIdx, targetIdx := -1, -1
	weightIdx := -1
	labelIdx := -1

	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "source", "from", "src":
			sourceIdx = i
		case "target", "to", "dst":
			targetIdx = i
		case "weight", "value", "strength":
			weightIdx = i
		case "label", "name", "title":
			labelIdx = i
		}
	}

	if sourceIdx == -1 || targetIdx == -1 {
		return nil, errors.New("CSV must contain source and target columns")
	}

	// Process rows
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV row %d: %w", line, err)
		}
		if sourceIdx >= len(row) || targetIdx >= len(row) {
			return nil, fmt.Errorf("CSV row %d is missing source or target", line)
		}

		sourceID := strings.TrimSpace(row[sourceIdx])
		targetID := strings.TrimSpace(row[targetIdx])
		if sourceID == "" || targetID == "" || sourceID == targetID {
			continue
		}

		label := ""
		if labelIdx >= 0 && labelIdx < len(row) {
			label = row[labelIdx]
		}
		b.point(sourceID, label)
		b.point(targetID, "")

		// Determine weight, default to 1.0 if parsing fails
		weight := float32(1.0)
		if weightIdx >= 0 && weightIdx < len(row) {
			if w, err := strconv.ParseFloat(strings.TrimSpace(row[weightIdx]), 32); err == nil {
				weight = float32(w)
			}
		}

		if _, err := b.link(sourceID, targetID, weight); err != nil {
			return nil, fmt.Errorf("CSV row %d: %w", line, err)
		}
	}

	b.defaultFlow()
	return b.finish(), nil
}
