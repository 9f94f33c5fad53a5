package runtime

import "github.com/birdlab-tech/building-analytics/pkg/filterrun"

// Error codes reported in RunError.Code.
const (
	ErrCodeNoPipeline      = "NO_PIPELINE"
	ErrCodeSourceFailed    = "SOURCE_FAILED"
	ErrCodeRewriteFailed   = "REWRITE_FAILED"
	ErrCodeSinkFailed      = "SINK_FAILED"
	ErrCodeAssertionFailed = "ASSERTION_FAILED"
	ErrCodeGuardInvalid    = "GUARD_INVALID"
)

func newRunError(code, module, message string) *filterrun.RunError {
	return &filterrun.RunError{Code: code, Module: module, Message: message}
}
