package labelfilter

import (
	"github.com/iancoleman/orderedmap"
)

// Pipeline is an ordered list of blocker stages followed by at most one
// target stage, evaluated against a source label set.
//
// The pipeline is configuration data: build it from code or load it from
// a persisted document, then call Run, RunWithTrace or Statistics as
// often as needed. Evaluation never mutates the pipeline or the source
// set, so repeated runs with unchanged configuration return identical
// results.
type Pipeline struct {
	BlockerStages []*Stage
	TargetStage   *Stage

	sourceLabels []string
}

// New returns an empty pipeline.
func New() *Pipeline {
	return &Pipeline{}
}

// SetSourceLabels replaces the pipeline's source set wholesale. Any
// strings are accepted; duplicates are permitted here and de-duplicated
// in every stage output.
func (p *Pipeline) SetSourceLabels(labels []string) {
	p.sourceLabels = append([]string(nil), labels...)
}

// SourceLabels returns a copy of the current source set.
func (p *Pipeline) SourceLabels() []string {
	return append([]string(nil), p.sourceLabels...)
}

// AddBlockerStage appends a new empty blocker stage and returns it for
// populating with filters.
func (p *Pipeline) AddBlockerStage(name string) *Stage {
	stage := &Stage{Name: name, Kind: KindBlocker}
	p.BlockerStages = append(p.BlockerStages, stage)
	return stage
}

// SetTargetStage sets the single target stage, replacing any prior one,
// and returns it for populating with filters.
func (p *Pipeline) SetTargetStage(name string) *Stage {
	p.TargetStage = &Stage{Name: name, Kind: KindTarget}
	return p.TargetStage
}

// Run feeds the source set through every blocker stage in insertion
// order, then through the target stage if present, and returns the final
// filtered set (sorted, de-duplicated). A pipeline with zero stages
// returns the normalized source set.
func (p *Pipeline) Run() []string {
	result := normalizeSet(p.sourceLabels)
	for _, stage := range p.BlockerStages {
		result = stage.Apply(result)
	}
	if p.TargetStage != nil {
		result = p.TargetStage.Apply(result)
	}
	return result
}

// RunWithTrace runs the pipeline and records the working set at every
// step: the unmodified source under "source", each stage's output under
// its declared name, and the terminal result under "final". The trace
// feeds preview output and Statistics.
func (p *Pipeline) RunWithTrace() *Trace {
	trace := newTrace()
	trace.record(TraceKeySource, append([]string(nil), p.sourceLabels...))

	current := normalizeSet(p.sourceLabels)
	for _, stage := range p.BlockerStages {
		current = stage.Apply(current)
		trace.record(stage.Name, current)
	}
	if p.TargetStage != nil {
		current = p.TargetStage.Apply(current)
		trace.record(p.TargetStage.Name, current)
	}

	trace.record(TraceKeyFinal, current)
	return trace
}

// Statistics summarizes a pipeline run: how many labels went in, how
// many survived, and the count after each stage.
type Statistics struct {
	SourceCount       int     `json:"source_count"`
	FinalCount        int     `json:"final_count"`
	RemovedCount      int     `json:"removed_count"`
	RemovalPercentage float64 `json:"removal_percentage"`

	// StageCounts maps every trace key ("source", each stage name,
	// "final") to its label count, in execution order.
	StageCounts *orderedmap.OrderedMap `json:"stage_counts"`
}

// Statistics runs the pipeline and derives counts from the trace. An
// empty source set yields zero counts and a removal percentage of 0
// rather than an error.
func (p *Pipeline) Statistics() Statistics {
	trace := p.RunWithTrace()

	source, _ := trace.Get(TraceKeySource)
	final := trace.Final()

	stats := Statistics{
		SourceCount:  len(source),
		FinalCount:   len(final),
		RemovedCount: len(source) - len(final),
		StageCounts:  orderedmap.New(),
	}
	if stats.SourceCount > 0 {
		stats.RemovalPercentage = float64(stats.RemovedCount) / float64(stats.SourceCount) * 100
	}

	for _, name := range trace.Keys() {
		labels, _ := trace.Get(name)
		stats.StageCounts.Set(name, len(labels))
	}

	return stats
}
