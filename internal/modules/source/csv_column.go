package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/birdlab-tech/building-analytics/internal/logger"
	"github.com/birdlab-tech/building-analytics/internal/modconfig"
	"github.com/birdlab-tech/building-analytics/internal/pathutil"
	"github.com/birdlab-tech/building-analytics/pkg/filterrun"
)

// Error types for the CSV column module.
var (
	ErrMissingColumn  = errors.New("column is required in csvColumn configuration")
	ErrColumnNotFound = errors.New("column not found in CSV header")
)

// CSVColumnConfig represents the configuration for the csvColumn source
// module, which extracts one column of a BMS point export.
type CSVColumnConfig struct {
	// Path is the CSV file (required).
	Path string `json:"path"`
	// Column is the header name or, when HasHeader is false, the
	// zero-based column index as a string.
	Column string `json:"column"`
	// HasHeader indicates the first row is a header (default true).
	HasHeader bool `json:"hasHeader"`
	// Delimiter is the field separator (default comma).
	Delimiter string `json:"delimiter,omitempty"`
}

// CSVColumn reads point labels from one column of a CSV export.
type CSVColumn struct {
	cfg CSVColumnConfig
}

// ParseCSVColumnConfig parses a raw configuration map.
func ParseCSVColumnConfig(config map[string]interface{}) (CSVColumnConfig, error) {
	cfg := CSVColumnConfig{
		Path:      modconfig.String(config, "path"),
		Column:    modconfig.String(config, "column"),
		HasHeader: modconfig.Bool(config, "hasHeader", true),
		Delimiter: modconfig.String(config, "delimiter"),
	}
	if cfg.Path == "" {
		return cfg, ErrMissingPath
	}
	if cfg.Column == "" {
		return cfg, ErrMissingColumn
	}
	if len(cfg.Delimiter) > 1 {
		return cfg, fmt.Errorf("delimiter must be a single character, got %q", cfg.Delimiter)
	}
	return cfg, nil
}

// NewCSVColumnFromConfig creates a csvColumn source module from
// configuration.
func NewCSVColumnFromConfig(config *filterrun.ModuleConfig) (*CSVColumn, error) {
	if config == nil {
		return nil, ErrNilConfig
	}
	cfg, err := ParseCSVColumnConfig(config.Config)
	if err != nil {
		return nil, err
	}
	if err := pathutil.ValidateFilePath(cfg.Path); err != nil {
		return nil, err
	}
	return &CSVColumn{cfg: cfg}, nil
}

// Fetch reads the CSV file and extracts the configured column.
func (m *CSVColumn) Fetch(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(m.cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	if m.cfg.Delimiter != "" {
		reader.Comma = rune(m.cfg.Delimiter[0])
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing CSV file %s: %w", m.cfg.Path, err)
	}
	if len(records) == 0 {
		return []string{}, nil
	}

	index, rows, err := m.resolveColumn(records)
	if err != nil {
		return nil, err
	}

	labels := make([]string, 0, len(rows))
	for _, row := range rows {
		if index < len(row) {
			labels = append(labels, row[index])
		}
	}
	labels = dropBlank(labels)

	logger.WithModule("source", "csvColumn").Debug("labels loaded",
		"path", m.cfg.Path, "column", m.cfg.Column, "count", len(labels))
	return labels, nil
}

// resolveColumn maps the configured column to an index and returns the
// data rows. With a header the column is matched by name; without one
// it is a numeric index.
func (m *CSVColumn) resolveColumn(records [][]string) (int, [][]string, error) {
	if m.cfg.HasHeader {
		header := records[0]
		for i, name := range header {
			if strings.EqualFold(strings.TrimSpace(name), m.cfg.Column) {
				return i, records[1:], nil
			}
		}
		return 0, nil, fmt.Errorf("%w: %q (header: %s)",
			ErrColumnNotFound, m.cfg.Column, strings.Join(records[0], ", "))
	}

	var index int
	if _, err := fmt.Sscanf(m.cfg.Column, "%d", &index); err != nil || index < 0 {
		return 0, nil, fmt.Errorf("column must be a non-negative index when hasHeader is false, got %q", m.cfg.Column)
	}
	return index, records, nil
}

// Close is a no-op; the file is not held open between fetches.
func (m *CSVColumn) Close() error { return nil }

var _ Module = (*CSVColumn)(nil)
