// Package rewrite provides implementations for label rewrite modules.
// Rewrite modules normalize raw point labels before the filter pipeline
// sees them: trimming vendor prefixes, collapsing whitespace, or running
// a user-supplied JavaScript transform per label.
package rewrite

import (
	"context"
	"errors"
)

// Error handling modes for per-label rewrite failures.
const (
	// OnErrorFail aborts the run on the first failing label.
	OnErrorFail = "fail"
	// OnErrorSkip drops the failing label and continues.
	OnErrorSkip = "skip"
	// OnErrorLog keeps the original label and continues.
	OnErrorLog = "log"
)

// ErrNilConfig is returned when a constructor receives a nil configuration.
var ErrNilConfig = errors.New("module configuration is nil")

// Module represents a label rewrite stage.
type Module interface {
	// Apply rewrites the label list. Labels may be modified or dropped;
	// the relative order of surviving labels is preserved.
	Apply(ctx context.Context, labels []string) ([]string, error)

	// Close releases any resources held by the module.
	Close() error
}

// validOnError reports whether s is a recognized onError mode.
func validOnError(s string) bool {
	return s == OnErrorFail || s == OnErrorSkip || s == OnErrorLog
}
