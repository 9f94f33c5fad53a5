package rewrite

import (
	"context"
	"strings"

	"github.com/birdlab-tech/building-analytics/internal/logger"
	"github.com/birdlab-tech/building-analytics/internal/modconfig"
	"github.com/birdlab-tech/building-analytics/pkg/filterrun"
)

// TrimConfig represents the configuration for a trim rewrite module.
type TrimConfig struct {
	// StripPrefixes are removed from the front of a label, first match
	// wins.
	StripPrefixes []string `json:"stripPrefixes,omitempty"`
	// StripSuffixes are removed from the end of a label, first match
	// wins.
	StripSuffixes []string `json:"stripSuffixes,omitempty"`
	// Replacements maps substrings to their replacement text.
	Replacements map[string]string `json:"replacements,omitempty"`
	// CollapseWhitespace folds runs of whitespace into single spaces.
	CollapseWhitespace bool `json:"collapseWhitespace,omitempty"`
}

// Trim normalizes labels with static string operations. Labels that
// become empty after trimming are dropped. BMS exports commonly carry
// controller prefixes ("BACnet/IP ") and padded whitespace that should
// not participate in wildcard matching.
type Trim struct {
	cfg TrimConfig
}

// ParseTrimConfig parses a raw configuration map.
func ParseTrimConfig(config map[string]interface{}) (TrimConfig, error) {
	cfg := TrimConfig{
		StripPrefixes:      modconfig.StringSlice(config, "stripPrefixes"),
		StripSuffixes:      modconfig.StringSlice(config, "stripSuffixes"),
		Replacements:       modconfig.StringMap(config, "replacements"),
		CollapseWhitespace: modconfig.Bool(config, "collapseWhitespace", false),
	}
	return cfg, nil
}

// NewTrimFromConfig creates a trim rewrite module from configuration.
func NewTrimFromConfig(config *filterrun.ModuleConfig) (*Trim, error) {
	if config == nil {
		return nil, ErrNilConfig
	}
	cfg, err := ParseTrimConfig(config.Config)
	if err != nil {
		return nil, err
	}
	return &Trim{cfg: cfg}, nil
}

// Apply trims each label, dropping labels that end up empty.
func (m *Trim) Apply(ctx context.Context, labels []string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := make([]string, 0, len(labels))
	for _, label := range labels {
		trimmed := m.trimLabel(label)
		if trimmed == "" {
			continue
		}
		result = append(result, trimmed)
	}

	logger.WithModule("rewrite", "trim").Debug("rewrite applied",
		"input", len(labels), "output", len(result))
	return result, nil
}

func (m *Trim) trimLabel(label string) string {
	for _, prefix := range m.cfg.StripPrefixes {
		if strings.HasPrefix(label, prefix) {
			label = label[len(prefix):]
			break
		}
	}
	for _, suffix := range m.cfg.StripSuffixes {
		if strings.HasSuffix(label, suffix) {
			label = label[:len(label)-len(suffix)]
			break
		}
	}
	for old, new := range m.cfg.Replacements {
		label = strings.ReplaceAll(label, old, new)
	}
	if m.cfg.CollapseWhitespace {
		label = strings.Join(strings.Fields(label), " ")
	}
	return strings.TrimSpace(label)
}

// Close is a no-op.
func (m *Trim) Close() error { return nil }

var _ Module = (*Trim)(nil)
