// Package source provides implementations for label source modules.
// Source modules materialize the flat list of point labels the filter
// pipeline operates on: from files, CSV spreadsheet exports, or the
// vendor BMS REST API.
package source

import (
	"context"
	"errors"
)

// ErrNilConfig is returned when a constructor receives a nil configuration.
var ErrNilConfig = errors.New("module configuration is nil")

// Module represents a label source.
type Module interface {
	// Fetch materializes the label list from the source system.
	Fetch(ctx context.Context) ([]string, error)

	// Close releases any resources held by the module.
	Close() error
}
