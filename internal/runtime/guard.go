package runtime

import (
	"fmt"

	"github.com/expr-lang/expr"

	"github.com/birdlab-tech/building-analytics/pkg/labelfilter"
)

// guardEnv builds the expression environment from run statistics. Stage
// counts are exposed as a map so assertions can reference individual
// stages: stage_counts["Blocker stage 1"] > 0.
func guardEnv(stats labelfilter.Statistics) map[string]interface{} {
	stageCounts := make(map[string]interface{})
	if stats.StageCounts != nil {
		for _, name := range stats.StageCounts.Keys() {
			if v, ok := stats.StageCounts.Get(name); ok {
				stageCounts[name] = v
			}
		}
	}
	return map[string]interface{}{
		"source_count":       stats.SourceCount,
		"final_count":        stats.FinalCount,
		"removed_count":      stats.RemovedCount,
		"removal_percentage": stats.RemovalPercentage,
		"stage_counts":       stageCounts,
	}
}

// EvaluateGuard compiles and evaluates a boolean assertion over the run
// statistics. A typical guard protects against a misconfigured pattern
// wiping the whole point list: "removal_percentage < 95".
func EvaluateGuard(expression string, stats labelfilter.Statistics) (bool, error) {
	env := guardEnv(stats)

	program, err := expr.Compile(expression, expr.Env(env), expr.AsBool())
	if err != nil {
		return false, fmt.Errorf("compiling assertion %q: %w", expression, err)
	}

	result, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("evaluating assertion %q: %w", expression, err)
	}

	passed, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("assertion %q did not produce a boolean", expression)
	}
	return passed, nil
}
