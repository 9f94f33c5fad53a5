package source

import (
	"context"

	"github.com/birdlab-tech/building-analytics/internal/logger"
)

// Stub is a placeholder source for unknown module types. It logs its
// invocation and returns a small sample label list so run documents can
// be exercised before their real source exists.
type Stub struct {
	moduleType string
}

// NewStub creates a stub source module.
func NewStub(moduleType string) *Stub {
	return &Stub{moduleType: moduleType}
}

// Fetch returns sample labels.
func (m *Stub) Fetch(context.Context) ([]string, error) {
	logger.WithModule("source", m.moduleType).Warn("unknown source type, returning sample labels")
	return []string{
		"AHU01 North Supply Temperature AI_3000336",
		"Pump 1 Status BI_3000397",
	}, nil
}

// Close is a no-op.
func (m *Stub) Close() error { return nil }

var _ Module = (*Stub)(nil)
