package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/birdlab-tech/building-analytics/pkg/filterrun"
	"github.com/birdlab-tech/building-analytics/pkg/labelfilter"
)

// OutputOptions configures CLI output behavior.
type OutputOptions struct {
	Verbose bool
	Quiet   bool
	DryRun  bool
	JSON    bool
}

// PrintRunResult displays the outcome of one filter run.
func PrintRunResult(result *filterrun.Result, err error, opts OutputOptions) {
	if result == nil {
		fmt.Fprintln(os.Stderr, "✗ No run result available")
		return
	}

	if opts.JSON {
		printJSON(result)
		return
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "✗ Run failed")
		if result.Error != nil {
			fmt.Fprintf(os.Stderr, "  Module: %s\n", result.Error.Module)
			fmt.Fprintf(os.Stderr, "  Error: %s\n", result.Error.Message)
		}
		return
	}

	if result.Status == filterrun.StatusAssertionFailed {
		fmt.Fprintln(os.Stderr, "✗ Assertion failed")
		if result.Error != nil {
			fmt.Fprintf(os.Stderr, "  %s\n", result.Error.Message)
		}
		printCounts(os.Stderr, result)
		return
	}

	if !opts.Quiet {
		if opts.DryRun {
			fmt.Println("✓ Run completed (dry-run, sink skipped)")
		} else {
			fmt.Println("✓ Run completed")
		}
		printCounts(os.Stdout, result)
		if !opts.DryRun && result.Written > 0 {
			fmt.Printf("  Labels written: %d\n", result.Written)
		}
		if opts.Verbose {
			fmt.Printf("  Duration: %v\n", result.CompletedAt.Sub(result.StartedAt))
		}
	}
}

func printCounts(w *os.File, result *filterrun.Result) {
	fmt.Fprintf(w, "  Source labels: %d\n", result.SourceCount)
	fmt.Fprintf(w, "  Final labels: %d\n", result.FinalCount)
	fmt.Fprintf(w, "  Removed: %d (%.1f%%)\n", result.RemovedCount, result.RemovalPercentage)
}

// PrintTrace displays the working set after every pipeline step, the
// preview command's main output. Verbose mode lists every label; the
// compact mode lists counts only.
func PrintTrace(trace *labelfilter.Trace, opts OutputOptions) {
	if trace == nil {
		return
	}

	if opts.JSON {
		printJSON(trace)
		return
	}

	for _, name := range trace.Keys() {
		labels, _ := trace.Get(name)
		fmt.Printf("%s (%d):\n", name, len(labels))
		if opts.Verbose {
			for _, label := range labels {
				fmt.Printf("  %s\n", label)
			}
		}
	}
}

// PrintStatistics displays run statistics, the stats command's output.
func PrintStatistics(stats labelfilter.Statistics, opts OutputOptions) {
	if opts.JSON {
		printJSON(stats)
		return
	}

	fmt.Printf("Source labels: %d\n", stats.SourceCount)
	fmt.Printf("Final labels: %d\n", stats.FinalCount)
	fmt.Printf("Removed: %d (%.1f%%)\n", stats.RemovedCount, stats.RemovalPercentage)

	if stats.StageCounts != nil {
		fmt.Println("Per stage:")
		for _, name := range stats.StageCounts.Keys() {
			count, _ := stats.StageCounts.Get(name)
			fmt.Printf("  %-30s %v\n", name, count)
		}
	}
}

// PrintDocumentSummary prints the run name and description if available.
func PrintDocumentSummary(data map[string]interface{}) {
	if data == nil {
		return
	}
	if name, ok := data["name"].(string); ok {
		fmt.Printf("  Run: %s\n", name)
	}
	if description, ok := data["description"].(string); ok {
		fmt.Printf("  Description: %s\n", description)
	}
}

func printJSON(v interface{}) {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ Failed to encode output: %v\n", err)
		return
	}
	fmt.Println(string(encoded))
}
