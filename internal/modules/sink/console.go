package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/birdlab-tech/building-analytics/internal/modconfig"
	"github.com/birdlab-tech/building-analytics/pkg/filterrun"
)

// Console output formats.
const (
	ConsoleFormatText = "text"
	ConsoleFormatJSON = "json"
)

// ConsoleConfig represents the configuration for a console sink module.
type ConsoleConfig struct {
	// Format is "text" (one label per line, default) or "json".
	Format string `json:"format,omitempty"`
}

// Console writes the filtered labels to standard output. This is the
// default sink when a run document declares none.
type Console struct {
	format string
	out    io.Writer
}

// ParseConsoleConfig parses a raw configuration map.
func ParseConsoleConfig(config map[string]interface{}) (ConsoleConfig, error) {
	var cfg ConsoleConfig
	if format := modconfig.String(config, "format"); format != "" {
		if format != ConsoleFormatText && format != ConsoleFormatJSON {
			return cfg, fmt.Errorf("unsupported console format: %s", format)
		}
		cfg.Format = format
	}
	return cfg, nil
}

// NewConsoleFromConfig creates a console sink module from configuration.
// A nil config yields the text-format default.
func NewConsoleFromConfig(config *filterrun.ModuleConfig) (*Console, error) {
	format := ConsoleFormatText
	if config != nil {
		cfg, err := ParseConsoleConfig(config.Config)
		if err != nil {
			return nil, err
		}
		if cfg.Format != "" {
			format = cfg.Format
		}
	}
	return &Console{format: format, out: os.Stdout}, nil
}

// Write prints the labels.
func (m *Console) Write(ctx context.Context, labels []string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if m.format == ConsoleFormatJSON {
		encoded, err := json.MarshalIndent(labels, "", "  ")
		if err != nil {
			return 0, fmt.Errorf("encoding labels: %w", err)
		}
		if _, err := fmt.Fprintln(m.out, string(encoded)); err != nil {
			return 0, err
		}
		return len(labels), nil
	}

	for i, label := range labels {
		if _, err := fmt.Fprintln(m.out, label); err != nil {
			return i, err
		}
	}
	return len(labels), nil
}

// Close is a no-op; stdout is not ours to close.
func (m *Console) Close() error { return nil }

var _ Module = (*Console)(nil)
