// Package sink provides implementations for label sink modules. A sink
// receives the filtered label list at the end of a run and delivers it
// somewhere: stdout, a file, or nowhere at all for preview runs.
package sink

import (
	"context"
	"errors"
)

// ErrNilConfig is returned when a constructor receives a nil configuration.
var ErrNilConfig = errors.New("module configuration is nil")

// Module represents a label sink.
type Module interface {
	// Write delivers the labels and returns how many were written.
	Write(ctx context.Context, labels []string) (int, error)

	// Close flushes and releases any resources held by the module.
	Close() error
}
