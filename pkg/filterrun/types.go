// Package filterrun provides public types for label filter runs. A run
// binds a label source, optional rewrites, a filter pipeline, and a sink
// into one executable unit described by a JSON/YAML document.
package filterrun

import (
	"time"

	"github.com/iancoleman/orderedmap"

	"github.com/birdlab-tech/building-analytics/pkg/labelfilter"
)

// Spec is a fully converted run document, ready for execution.
type Spec struct {
	// Name is the human-readable name of the run.
	Name string `json:"name"`

	// Description provides additional context about the run.
	Description string `json:"description,omitempty"`

	// Source defines where labels come from. When nil, the pipeline's
	// inline source_labels snapshot is used.
	Source *ModuleConfig `json:"source,omitempty"`

	// Rewrites is an ordered list of label normalization modules applied
	// between fetching and filtering.
	Rewrites []ModuleConfig `json:"rewrites,omitempty"`

	// Pipeline is the filter pipeline (blocker stages plus optional
	// target stage) the labels are fed through.
	Pipeline *labelfilter.Pipeline `json:"-"`

	// Sink defines where the surviving labels go. When nil, results are
	// only reported, not written.
	Sink *ModuleConfig `json:"sink,omitempty"`

	// Assert is an optional boolean expression over the run statistics;
	// a false result fails the run.
	Assert string `json:"assert,omitempty"`

	// Schedule configures repeated execution for the watch command.
	Schedule *Schedule `json:"schedule,omitempty"`
}

// ModuleConfig configures one source, rewrite, or sink module.
type ModuleConfig struct {
	// Type identifies the module (e.g. "file", "httpPolling", "script").
	Type string `json:"type"`

	// Config contains the module-specific configuration.
	Config map[string]interface{} `json:"config,omitempty"`

	// Authentication references an authentication configuration
	// (sources only).
	Authentication *AuthConfig `json:"authentication,omitempty"`
}

// AuthConfig defines authentication for a source module.
type AuthConfig struct {
	// Type is the authentication type ("bearer" or "apiKey").
	Type string `json:"type"`

	// Credentials contains the authentication credentials.
	Credentials map[string]string `json:"credentials"`
}

// Schedule configures repeated execution of a run.
type Schedule struct {
	// Interval is the delay between consecutive runs.
	Interval time.Duration `json:"interval"`
}

// Run statuses reported in Result.Status.
const (
	StatusSuccess         = "success"
	StatusError           = "error"
	StatusAssertionFailed = "assertion_failed"
)

// Result is the outcome of one run.
type Result struct {
	// RunName is the name of the executed run.
	RunName string `json:"run_name"`

	// Status is one of StatusSuccess, StatusError, StatusAssertionFailed.
	Status string `json:"status"`

	// SourceCount is the number of labels fetched (after rewrites).
	SourceCount int `json:"source_count"`

	// FinalCount is the number of labels that survived filtering.
	FinalCount int `json:"final_count"`

	// RemovedCount is SourceCount - FinalCount.
	RemovedCount int `json:"removed_count"`

	// RemovalPercentage is the share of labels removed (0 for an empty source).
	RemovalPercentage float64 `json:"removal_percentage"`

	// StageCounts maps "source", each stage name, and "final" to label
	// counts, in execution order.
	StageCounts *orderedmap.OrderedMap `json:"stage_counts,omitempty"`

	// Written is the number of labels the sink accepted.
	Written int `json:"written"`

	// StartedAt / CompletedAt bound the run.
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`

	// Error describes the failure when Status is not success.
	Error *RunError `json:"error,omitempty"`
}

// RunError carries structured failure information.
type RunError struct {
	// Code categorizes the failure (e.g. SOURCE_FAILED, ASSERTION_FAILED).
	Code string `json:"code"`

	// Module names the stage that failed (source, rewrite, filter, sink).
	Module string `json:"module"`

	// Message is the human-readable error message.
	Message string `json:"message"`
}

func (e *RunError) Error() string {
	return e.Message
}
