package sink

import (
	"context"

	"github.com/birdlab-tech/building-analytics/internal/logger"
)

// Stub is a placeholder sink for unknown module types. It discards the
// labels after logging the count, so runs against not-yet-implemented
// sinks still complete.
type Stub struct {
	moduleType string
}

// NewStub creates a stub sink module.
func NewStub(moduleType string) *Stub {
	return &Stub{moduleType: moduleType}
}

// Write logs and discards.
func (m *Stub) Write(_ context.Context, labels []string) (int, error) {
	logger.WithModule("sink", m.moduleType).Warn("unknown sink type, discarding labels",
		"count", len(labels))
	return len(labels), nil
}

// Close is a no-op.
func (m *Stub) Close() error { return nil }

var _ Module = (*Stub)(nil)
