package rewrite

import (
	"context"

	"github.com/birdlab-tech/building-analytics/internal/logger"
)

// Stub is a placeholder for unknown rewrite module types. It passes
// labels through unchanged.
type Stub struct {
	moduleType string
}

// NewStub creates a stub rewrite module.
func NewStub(moduleType string) *Stub {
	return &Stub{moduleType: moduleType}
}

// Apply returns the labels unchanged.
func (m *Stub) Apply(_ context.Context, labels []string) ([]string, error) {
	logger.WithModule("rewrite", m.moduleType).Warn("unknown rewrite type, passing labels through")
	return labels, nil
}

// Close is a no-op.
func (m *Stub) Close() error { return nil }

var _ Module = (*Stub)(nil)
