// Package runtime executes filter runs: fetch labels from the source,
// normalize them through the rewrite chain, feed them through the
// filter pipeline, check the statistics assertion, and deliver the
// survivors to the sink.
package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/iancoleman/orderedmap"

	"github.com/birdlab-tech/building-analytics/internal/factory"
	"github.com/birdlab-tech/building-analytics/internal/logger"
	"github.com/birdlab-tech/building-analytics/pkg/filterrun"
	"github.com/birdlab-tech/building-analytics/pkg/labelfilter"
)

// Options controls run execution.
type Options struct {
	// DryRun skips the sink; everything else runs normally.
	DryRun bool
}

// Execute runs the spec once and returns its result. The returned
// Result is always non-nil; its Status and Error fields describe any
// failure. The error return mirrors Result.Error for callers that
// prefer error handling over status inspection.
func Execute(ctx context.Context, spec *filterrun.Spec, opts Options) (*filterrun.Result, error) {
	result, _, err := ExecuteWithTrace(ctx, spec, opts)
	return result, err
}

// ExecuteWithTrace runs the spec once and additionally returns the
// pipeline trace with the working set after every stage. The trace is
// nil when the run fails before filtering.
func ExecuteWithTrace(ctx context.Context, spec *filterrun.Spec, opts Options) (*filterrun.Result, *labelfilter.Trace, error) {
	started := time.Now()
	result := &filterrun.Result{
		RunName:   spec.Name,
		Status:    filterrun.StatusError,
		StartedAt: started,
	}

	logCtx := logger.RunContext{RunName: spec.Name, DryRun: opts.DryRun}
	logger.LogRunStart(logCtx)

	if spec.Pipeline == nil {
		return fail(result, newRunError(ErrCodeNoPipeline, "filter", "run has no filter pipeline"))
	}

	labels, runErr := fetchLabels(ctx, spec)
	if runErr != nil {
		return fail(result, runErr)
	}

	labels, runErr = applyRewrites(ctx, spec, labels)
	if runErr != nil {
		return fail(result, runErr)
	}

	spec.Pipeline.SetSourceLabels(labels)
	trace := spec.Pipeline.RunWithTrace()
	stats := statsFromTrace(trace)
	final := trace.Final()

	for _, name := range trace.Keys() {
		stage, _ := trace.Get(name)
		logger.LogStageResult(logCtx, name, len(stage))
	}

	result.SourceCount = stats.SourceCount
	result.FinalCount = stats.FinalCount
	result.RemovedCount = stats.RemovedCount
	result.RemovalPercentage = stats.RemovalPercentage
	result.StageCounts = stats.StageCounts

	if spec.Assert != "" {
		passed, err := EvaluateGuard(spec.Assert, stats)
		if err != nil {
			result.CompletedAt = time.Now()
			result.Error = newRunError(ErrCodeGuardInvalid, "assert", err.Error())
			return result, trace, result.Error
		}
		if !passed {
			result.Status = filterrun.StatusAssertionFailed
			result.CompletedAt = time.Now()
			result.Error = newRunError(ErrCodeAssertionFailed, "assert",
				fmt.Sprintf("assertion %q failed (source=%d final=%d removed=%.1f%%)",
					spec.Assert, stats.SourceCount, stats.FinalCount, stats.RemovalPercentage))
			logger.LogRunEnd(logCtx, result.Status, result.SourceCount, result.FinalCount, time.Since(started))
			return result, trace, nil
		}
	}

	// A nil Sink falls back to the console sink via the factory.
	if !opts.DryRun {
		written, runErr := writeSink(ctx, spec, final)
		if runErr != nil {
			result.CompletedAt = time.Now()
			result.Error = runErr
			return result, trace, runErr
		}
		result.Written = written
	}

	result.Status = filterrun.StatusSuccess
	result.CompletedAt = time.Now()
	logger.LogRunEnd(logCtx, result.Status, result.SourceCount, result.FinalCount, time.Since(started))
	return result, trace, nil
}

// fetchLabels materializes the source set: from the source module when
// one is declared, otherwise from the pipeline's inline snapshot.
func fetchLabels(ctx context.Context, spec *filterrun.Spec) ([]string, *filterrun.RunError) {
	if spec.Source == nil {
		return spec.Pipeline.SourceLabels(), nil
	}

	module, err := factory.CreateSourceModule(spec.Source)
	if err != nil {
		return nil, newRunError(ErrCodeSourceFailed, "source", err.Error())
	}
	defer module.Close() //nolint:errcheck

	labels, err := module.Fetch(ctx)
	if err != nil {
		return nil, newRunError(ErrCodeSourceFailed, "source", err.Error())
	}
	return labels, nil
}

func applyRewrites(ctx context.Context, spec *filterrun.Spec, labels []string) ([]string, *filterrun.RunError) {
	if len(spec.Rewrites) == 0 {
		return labels, nil
	}

	modules, err := factory.CreateRewriteModules(spec.Rewrites)
	if err != nil {
		return nil, newRunError(ErrCodeRewriteFailed, "rewrite", err.Error())
	}
	defer func() {
		for _, m := range modules {
			m.Close() //nolint:errcheck
		}
	}()

	for i, m := range modules {
		labels, err = m.Apply(ctx, labels)
		if err != nil {
			return nil, newRunError(ErrCodeRewriteFailed, "rewrite",
				fmt.Sprintf("rewrite %d (%s): %v", i, spec.Rewrites[i].Type, err))
		}
	}
	return labels, nil
}

func writeSink(ctx context.Context, spec *filterrun.Spec, labels []string) (int, *filterrun.RunError) {
	module, err := factory.CreateSinkModule(spec.Sink)
	if err != nil {
		return 0, newRunError(ErrCodeSinkFailed, "sink", err.Error())
	}
	defer module.Close() //nolint:errcheck

	written, err := module.Write(ctx, labels)
	if err != nil {
		return written, newRunError(ErrCodeSinkFailed, "sink", err.Error())
	}
	return written, nil
}

// statsFromTrace derives run statistics from an existing trace, saving
// a second pipeline evaluation.
func statsFromTrace(trace *labelfilter.Trace) labelfilter.Statistics {
	source, _ := trace.Get(labelfilter.TraceKeySource)
	final := trace.Final()

	stats := labelfilter.Statistics{
		SourceCount:  len(source),
		FinalCount:   len(final),
		RemovedCount: len(source) - len(final),
	}
	if stats.SourceCount > 0 {
		stats.RemovalPercentage = float64(stats.RemovedCount) / float64(stats.SourceCount) * 100
	}

	counts := orderedmap.New()
	for _, name := range trace.Keys() {
		labels, _ := trace.Get(name)
		counts.Set(name, len(labels))
	}
	stats.StageCounts = counts
	return stats
}

func fail(result *filterrun.Result, runErr *filterrun.RunError) (*filterrun.Result, *labelfilter.Trace, error) {
	result.CompletedAt = time.Now()
	result.Error = runErr
	logger.Error("run failed",
		"run_name", result.RunName,
		"code", runErr.Code,
		"module", runErr.Module,
		"error", runErr.Message,
	)
	return result, nil, runErr
}
