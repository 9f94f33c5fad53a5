package runtime

import (
	"testing"

	"github.com/iancoleman/orderedmap"

	"github.com/birdlab-tech/building-analytics/pkg/labelfilter"
)

func sampleStats() labelfilter.Statistics {
	counts := orderedmap.New()
	counts.Set("source", 100)
	counts.Set("Drop lighting", 80)
	counts.Set("final", 25)
	return labelfilter.Statistics{
		SourceCount:       100,
		FinalCount:        25,
		RemovedCount:      75,
		RemovalPercentage: 75.0,
		StageCounts:       counts,
	}
}

func TestEvaluateGuard(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		want       bool
	}{
		{name: "percentage below threshold", expression: "removal_percentage < 95", want: true},
		{name: "percentage above threshold", expression: "removal_percentage > 80", want: false},
		{name: "final count", expression: "final_count > 0", want: true},
		{name: "combined", expression: "source_count == 100 && removed_count == 75", want: true},
		{name: "stage counts map", expression: `stage_counts["Drop lighting"] == 80`, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EvaluateGuard(tt.expression, sampleStats())
			if err != nil {
				t.Fatalf("EvaluateGuard(%q) error = %v", tt.expression, err)
			}
			if got != tt.want {
				t.Errorf("EvaluateGuard(%q) = %v, want %v", tt.expression, got, tt.want)
			}
		})
	}
}

func TestEvaluateGuardErrors(t *testing.T) {
	if _, err := EvaluateGuard("source_count +", sampleStats()); err == nil {
		t.Error("expected compile error for malformed expression")
	}
	if _, err := EvaluateGuard("source_count", sampleStats()); err == nil {
		t.Error("expected error for non-boolean expression")
	}
}
