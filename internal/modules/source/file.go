package source

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

// Supported file source formats.
const (
	FileFormatText = "text"
	FileFormatJSON = "json"
)

// ErrMissingPath is returned when the file source has no path configured.
var ErrMissingPath = errors.New("path is required in file source configuration")

// FileConfig represents the configuration for a file source module.
type FileConfig struct {
	// Path is the label list file (required).
	Path string `json:"path"`
	// Format is "text" (one label per line) or "json" (array of strings).
	// Detected from the file extension when empty.
	Format string `json:"format,omitempty"`
}

// FileSource reads labels from a local file: newline-delimited text or
// a JSON array of strings. Blank lines and surrounding whitespace are
// dropped.
type FileSource struct {
	path   string
	format string
}

// ParseFileConfig parses a raw configuration map into FileConfig.
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

// NewFileFromConfig creates a file source module from configuration.
func NewFileFromConfig(config *filterrun.ModuleConfig) (*FileSource, error) {
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

	return &FileSource{path: cfg.Path, format: format}, nil
}

// Fetch reads and parses the label file.
func (m *FileSource) Fetch(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(m.path)
	if err != nil {
		return nil, fmt.Errorf("reading label file: %w", err)
	}

	var labels []string
	switch m.format {
	case FileFormatJSON:
		if err := json.Unmarshal(content, &labels); err != nil {
			return nil, fmt.Errorf("parsing label file %s: %w", m.path, err)
		}
		labels = dropBlank(labels)
	default:
		labels = dropBlank(strings.Split(string(content), "\n"))
	}

	logger.WithModule("source", "file").Debug("labels loaded",
		"path", m.path, "count", len(labels))
	return labels, nil
}

// Close is a no-op; the file is not held open between fetches.
func (m *FileSource) Close() error { return nil }

func dropBlank(labels []string) []string {
	result := make([]string, 0, len(labels))
	for _, label := range labels {
		if trimmed := strings.TrimSpace(label); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

var _ Module = (*FileSource)(nil)
