// Package logger provides structured logging for the runtime.
// It wraps log/slog for consistent logging across commands and modules,
// with helpers that attach filter-run context (run name, stage, module)
// using snake_case field names.
//
// Two output formats are supported:
//   - JSON (default): machine-readable structured logging
//   - Human: console output with level prefixes and colors
package logger

import (
	"log/slog"
	"os"
	"time"
)

// Logger is the default logger instance.
var Logger *slog.Logger

func init() {
	Logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// OutputFormat represents the log output format.
type OutputFormat int

const (
	// FormatJSON is the default machine-readable JSON format.
	FormatJSON OutputFormat = iota
	// FormatHuman is a console format with level prefixes and colors.
	FormatHuman
)

// SetLevel configures the logging level, keeping the JSON format.
func SetLevel(level slog.Level) {
	SetLevelAndFormat(level, FormatJSON)
}

// SetFormat sets the log output format at Info level.
func SetFormat(format OutputFormat) {
	SetLevelAndFormat(slog.LevelInfo, format)
}

// SetLevelAndFormat sets both the log level and the output format.
func SetLevelAndFormat(level slog.Level, format OutputFormat) {
	switch format {
	case FormatHuman:
		Logger = slog.New(NewHumanHandler(os.Stdout, &HumanHandlerOptions{
			Level:     level,
			UseColors: isTerminal(os.Stdout),
		}))
	default:
		Logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		}))
	}
}

// Info logs an informational message.
func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

// Error logs an error message.
func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}

// WithModule returns a logger with module context.
func WithModule(moduleKind, moduleType string) *slog.Logger {
	return Logger.With("module_kind", moduleKind, "module_type", moduleType)
}

// RunContext carries context for filter-run logging.
type RunContext struct {
	// RunName is the name of the run document (may be empty).
	RunName string
	// Stage is the current phase (source, rewrite, filter, sink).
	Stage string
	// ModuleType is the type of module being executed (file, httpPolling, ...).
	ModuleType string
	// DryRun indicates the sink is skipped.
	DryRun bool
}

func runAttrs(ctx RunContext) []any {
	attrs := make([]any, 0, 8)
	if ctx.RunName != "" {
		attrs = append(attrs, slog.String("run_name", ctx.RunName))
	}
	if ctx.Stage != "" {
		attrs = append(attrs, slog.String("stage", ctx.Stage))
	}
	if ctx.ModuleType != "" {
		attrs = append(attrs, slog.String("module_type", ctx.ModuleType))
	}
	if ctx.DryRun {
		attrs = append(attrs, slog.Bool("dry_run", true))
	}
	return attrs
}

// LogRunStart logs the start of a filter run.
func LogRunStart(ctx RunContext) {
	Logger.Info("run started", runAttrs(ctx)...)
}

// LogRunEnd logs the completion of a filter run with its final counts.
func LogRunEnd(ctx RunContext, status string, sourceCount, finalCount int, duration time.Duration) {
	attrs := append(runAttrs(ctx),
		slog.String("status", status),
		slog.Int("source_count", sourceCount),
		slog.Int("final_count", finalCount),
		slog.Duration("duration", duration),
	)
	Logger.Info("run completed", attrs...)
}

// LogStageResult logs the label count after one filter stage. This is
// the structured twin of the preview command's per-stage listing.
func LogStageResult(ctx RunContext, stageName string, count int) {
	attrs := append(runAttrs(ctx),
		slog.String("filter_stage", stageName),
		slog.Int("label_count", count),
	)
	Logger.Debug("stage applied", attrs...)
}

// isTerminal returns true if the writer is a character device.
func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
