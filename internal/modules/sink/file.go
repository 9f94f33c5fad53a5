package sink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/birdlab-tech/building-analytics/internal/logger"
	"github.com/birdlab-tech/building-analytics/internal/modconfig"
	"github.com/birdlab-tech/building-analytics/internal/pathutil"
	"github.com/birdlab-tech/building-analytics/pkg/filterrun"
)

// File output formats.
const (
	FileFormatText = "text"
	FileFormatJSON = "json"
)

// ErrMissingPath is returned when the file sink has no path configured.
var ErrMissingPath = errors.New("path is required in file sink configuration")

// FileConfig represents the configuration for a file sink module.
type FileConfig struct {
	// Path is the output file (required). Parent directories are created.
	Path string `json:"path"`
	// Format is "text" (one label per line) or "json" (array of strings).
	// Detected from the file extension when empty.
	Format string `json:"format,omitempty"`
}

// FileSink writes the filtered labels to a file, replacing any previous
// content. Each run produces a complete snapshot, not an append log.
type FileSink struct {
	path   string
	format string
}

// ParseFileConfig parses a raw configuration map.
func ParseFileConfig(config map[string]interface{}) (FileConfig, error) {
	cfg := FileConfig{
		Path:   modconfig.String(config, "path"),
		Format: modconfig.String(config, "format"),
	}
	if cfg.Path == "" {
		return cfg, ErrMissingPath
	}
	return cfg, nil
}

// NewFileFromConfig creates a file sink module from configuration.
func NewFileFromConfig(config *filterrun.ModuleConfig) (*FileSink, error) {
	if config == nil {
		return nil, ErrNilConfig
	}
	cfg, err := ParseFileConfig(config.Config)
	if err != nil {
		return nil, err
	}
	if err := pathutil.ValidateFilePath(cfg.Path); err != nil {
		return nil, err
	}

	format := cfg.Format
	if format == "" {
		if strings.EqualFold(filepath.Ext(cfg.Path), ".json") {
			format = FileFormatJSON
		} else {
			format = FileFormatText
		}
	}
	if format != FileFormatText && format != FileFormatJSON {
		return nil, fmt.Errorf("unsupported file format: %s", format)
	}

	return &FileSink{path: cfg.Path, format: format}, nil
}

// Write serializes the labels and writes them atomically via a rename
// from a temp file in the same directory, so readers never observe a
// half-written snapshot.
func (m *FileSink) Write(ctx context.Context, labels []string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var content []byte
	if m.format == FileFormatJSON {
		encoded, err := json.MarshalIndent(labels, "", "  ")
		if err != nil {
			return 0, fmt.Errorf("encoding labels: %w", err)
		}
		content = append(encoded, '\n')
	} else {
		var b strings.Builder
		for _, label := range labels {
			b.WriteString(label)
			b.WriteByte('\n')
		}
		content = []byte(b.String())
	}

	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return 0, fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(m.path)+".tmp-*")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return 0, fmt.Errorf("writing labels: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, m.path); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("replacing output file: %w", err)
	}

	logger.WithModule("sink", "file").Debug("labels written",
		"path", m.path, "count", len(labels))
	return len(labels), nil
}

// Close is a no-op; every Write is self-contained.
func (m *FileSink) Close() error { return nil }

var _ Module = (*FileSink)(nil)
