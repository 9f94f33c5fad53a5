// Package main provides the CLI entry point for the BMS label filter.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/birdlab-tech/building-analytics/internal/cli"
	"github.com/birdlab-tech/building-analytics/internal/config"
	"github.com/birdlab-tech/building-analytics/internal/logger"
	"github.com/birdlab-tech/building-analytics/internal/runtime"
	"github.com/birdlab-tech/building-analytics/internal/scheduler"
	"github.com/birdlab-tech/building-analytics/pkg/filterrun"
)

// Exit codes
const (
	ExitSuccess         = 0
	ExitValidationError = 1
	ExitParseError      = 2
	ExitRuntimeError    = 3
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	jsonOutput bool
	logFormat  string

	// Run command flags
	dryRun     bool
	labelsFile string
	assertExpr string

	// Watch command flags
	watchInterval time.Duration

	// Build information (set via ldflags during build)
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitRuntimeError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bmsfilter",
	Short: "bmsfilter - BMS point label filtering",
	Long: `bmsfilter filters building management system point labels through
staged wildcard filters defined in a run document (JSON/YAML).

A run document names a label source (file, CSV export, or the BMS REST
API), optional label rewrites, blocker and target filter stages, and a
sink for the surviving labels.

Examples:
  # Validate a run document
  bmsfilter validate run.yaml

  # Execute a run
  bmsfilter run run.yaml

  # Show the working set after every stage
  bmsfilter preview --verbose run.yaml`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		} else if quiet {
			level = slog.LevelError
		}
		format := logger.FormatJSON
		if logFormat == "human" {
			format = logger.FormatHuman
		}
		logger.SetLevelAndFormat(level, format)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <run-file>",
	Short: "Validate a run document",
	Long: `Validate a run document against the schema.

Supports both JSON and YAML formats, auto-detected from the file
extension (.json, .yaml, .yml) or content.

Exit codes:
  0 - Document is valid
  1 - Validation errors (schema violations)
  2 - Parse errors (invalid JSON/YAML syntax)`,
	Args: cobra.ExactArgs(1),
	Run:  runValidate,
}

var runCmd = &cobra.Command{
	Use:   "run <run-file>",
	Short: "Execute a filter run",
	Long: `Execute the filter run defined in the document.

The document is validated first; an invalid document is never executed.
With --dry-run everything runs except the sink.

Exit codes:
  0 - Run completed successfully
  1 - Validation errors
  2 - Parse errors
  3 - Runtime errors or failed assertion`,
	Args: cobra.ExactArgs(1),
	Run:  runRun,
}

var previewCmd = &cobra.Command{
	Use:   "preview <run-file>",
	Short: "Show the working set after every filter stage",
	Long: `Execute the run without a sink and print the label set after the
source, each stage, and the final result. Use --verbose to list every
label instead of counts only.`,
	Args: cobra.ExactArgs(1),
	Run:  runPreview,
}

var statsCmd = &cobra.Command{
	Use:   "stats <run-file>",
	Short: "Show run statistics",
	Long: `Execute the run without a sink and print how many labels went in,
how many survived, and the count after every stage. Use --json for
machine-readable output.`,
	Args: cobra.ExactArgs(1),
	Run:  runStats,
}

var watchCmd = &cobra.Command{
	Use:   "watch <run-file>",
	Short: "Execute a filter run repeatedly",
	Long: `Execute the run now and then once per interval until interrupted,
keeping the sink snapshot current as the building's point list drifts.

The interval comes from --interval or the document's schedule section;
one of the two is required.`,
	Args: cobra.ExactArgs(1),
	Run:  runWatch,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print version, commit hash, and build date information.",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Build Date: %s\n", buildDate)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Machine-readable JSON output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "json", "Log format: json or human")

	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Execute everything except the sink")
	runCmd.Flags().StringVar(&labelsFile, "labels", "", "Read labels from this file instead of the document's source")
	runCmd.Flags().StringVar(&assertExpr, "assert", "", "Assertion expression (overrides the document's assert)")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "Cycle interval (overrides the document's schedule)")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
}

func outputOptions() cli.OutputOptions {
	return cli.OutputOptions{Verbose: verbose, Quiet: quiet, DryRun: dryRun, JSON: jsonOutput}
}

// loadSpec parses, validates, and converts the run document, exiting
// with the appropriate code on any failure.
func loadSpec(path string) *filterrun.Spec {
	spec, result, err := config.LoadSpec(path)
	if len(result.ParseErrors) > 0 {
		cli.PrintParseErrors(result.ParseErrors, verbose)
		os.Exit(ExitParseError)
	}
	if len(result.ValidationErrors) > 0 {
		cli.PrintValidationErrors(result.ValidationErrors, verbose, quiet)
		os.Exit(ExitValidationError)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ Failed to load run document: %v\n", err)
		os.Exit(ExitRuntimeError)
	}
	return spec
}

func runValidate(_ *cobra.Command, args []string) {
	path := args[0]

	if !quiet {
		fmt.Printf("Validating run document: %s\n", path)
	}

	result := config.ParseDocument(path)
	if len(result.ParseErrors) > 0 {
		cli.PrintParseErrors(result.ParseErrors, verbose)
		os.Exit(ExitParseError)
	}
	if len(result.ValidationErrors) > 0 {
		cli.PrintValidationErrors(result.ValidationErrors, verbose, quiet)
		os.Exit(ExitValidationError)
	}

	// Structural pipeline problems (missing filters key, bad action)
	// only surface during conversion.
	if _, err := config.ConvertToSpec(result.Data); err != nil {
		fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		os.Exit(ExitValidationError)
	}

	if !quiet {
		fmt.Printf("✓ Run document is valid (format: %s)\n", result.Format)
		if verbose {
			cli.PrintDocumentSummary(result.Data)
		}
	}
	os.Exit(ExitSuccess)
}

func runRun(_ *cobra.Command, args []string) {
	spec := loadSpec(args[0])

	if labelsFile != "" {
		spec.Source = &filterrun.ModuleConfig{
			Type:   "file",
			Config: map[string]interface{}{"path": labelsFile},
		}
	}
	if assertExpr != "" {
		spec.Assert = assertExpr
	}

	if !quiet && !jsonOutput {
		if dryRun {
			fmt.Println("Executing run (dry-run mode, sink skipped)...")
		} else {
			fmt.Println("Executing run...")
		}
	}

	result, err := runtime.Execute(signalContext(), spec, runtime.Options{DryRun: dryRun})
	cli.PrintRunResult(result, err, outputOptions())

	if err != nil || result.Status != filterrun.StatusSuccess {
		os.Exit(ExitRuntimeError)
	}
	os.Exit(ExitSuccess)
}

func runPreview(_ *cobra.Command, args []string) {
	spec := loadSpec(args[0])

	_, trace, err := runtime.ExecuteWithTrace(signalContext(), spec, runtime.Options{DryRun: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ Preview failed: %v\n", err)
		os.Exit(ExitRuntimeError)
	}

	cli.PrintTrace(trace, outputOptions())
	os.Exit(ExitSuccess)
}

func runStats(_ *cobra.Command, args []string) {
	spec := loadSpec(args[0])

	result, err := runtime.Execute(signalContext(), spec, runtime.Options{DryRun: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ Stats failed: %v\n", err)
		os.Exit(ExitRuntimeError)
	}

	stats := spec.Pipeline.Statistics()
	cli.PrintStatistics(stats, outputOptions())

	if result.Status == filterrun.StatusAssertionFailed {
		os.Exit(ExitRuntimeError)
	}
	os.Exit(ExitSuccess)
}

func runWatch(_ *cobra.Command, args []string) {
	spec := loadSpec(args[0])

	sched, err := scheduler.New(spec, watchInterval, runtime.Options{DryRun: dryRun})
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		os.Exit(ExitValidationError)
	}

	if !quiet && !jsonOutput {
		fmt.Printf("Watching %s every %v (Ctrl-C to stop)\n", spec.Name, sched.Interval())
	}
	opts := outputOptions()
	sched.OnResult = func(result *filterrun.Result) {
		cli.PrintRunResult(result, nil, opts)
	}

	if err := sched.Run(signalContext()); err != nil && err != context.Canceled {
		os.Exit(ExitRuntimeError)
	}
	os.Exit(ExitSuccess)
}

// signalContext returns a context canceled by SIGINT/SIGTERM.
func signalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()
	return ctx
}
