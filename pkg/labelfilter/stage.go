package labelfilter

import "sort"

// StageKind distinguishes how a stage combines its filters.
type StageKind string

const (
	// KindBlocker applies every active filter in declared order; each
	// filter narrows the working set (AND semantics).
	KindBlocker StageKind = "blocker"

	// KindTarget keeps labels matching any active filter (OR semantics).
	KindTarget StageKind = "target"
)

// Stage is a named, ordered list of filters. Stage names are only used
// for reporting intermediate results; duplicates are permitted.
type Stage struct {
	Name    string
	Kind    StageKind
	Filters []Filter
}

// AddFilter appends a filter to the stage and returns the stage for
// chaining while building configurations in code.
func (s *Stage) AddFilter(pattern string, action Action, enabled bool) *Stage {
	s.Filters = append(s.Filters, Filter{Pattern: pattern, Action: action, Enabled: enabled})
	return s
}

// IsEmpty reports whether the stage has no active filters. An empty
// target stage passes its input through unchanged; this makes that
// default explicit instead of a side effect of looping over nothing.
func (s *Stage) IsEmpty() bool {
	for _, f := range s.Filters {
		if f.active() {
			return false
		}
	}
	return true
}

// Apply filters the input label set and returns a new, sorted,
// de-duplicated set. The input slice is never mutated.
//
// Blocker stages process active filters strictly in declared order, each
// pass retaining only labels the filter keeps. Target stages return the
// union of labels kept by any active filter; a target stage with no
// active filters returns its input unchanged (pass-through default).
// Either way the output is a subset of the input.
func (s *Stage) Apply(labels []string) []string {
	if s.Kind == KindTarget {
		return s.applyTarget(labels)
	}
	return s.applyBlocker(labels)
}

func (s *Stage) applyBlocker(labels []string) []string {
	result := normalizeSet(labels)

	for _, f := range s.Filters {
		if !f.active() {
			continue
		}
		kept := result[:0:0]
		for _, label := range result {
			if f.ShouldKeep(label) {
				kept = append(kept, label)
			}
		}
		result = kept
	}

	return result
}

func (s *Stage) applyTarget(labels []string) []string {
	input := normalizeSet(labels)
	if s.IsEmpty() {
		return input
	}

	kept := make([]string, 0, len(input))
	for _, label := range input {
		for _, f := range s.Filters {
			if !f.active() {
				continue
			}
			if f.ShouldKeep(label) {
				kept = append(kept, label)
				break
			}
		}
	}

	return kept
}

// normalizeSet returns a sorted copy of labels with duplicates removed.
func normalizeSet(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	result := make([]string, 0, len(labels))
	for _, label := range labels {
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		result = append(result, label)
	}
	sort.Strings(result)
	return result
}
