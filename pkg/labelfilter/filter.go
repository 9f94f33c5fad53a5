package labelfilter

import "fmt"

// Action determines what a matching filter does to a label.
type Action string

// Recognized filter actions. These are the literal strings used in the
// persisted configuration format.
const (
	// ActionBlock removes labels that match the pattern (exclusion rule).
	ActionBlock Action = "block"

	// ActionInclude keeps only labels that match the pattern (inclusion rule).
	ActionInclude Action = "include"
)

// ParseAction converts the persisted action literal into an Action.
// Only "block" and "include" are recognized.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionBlock, ActionInclude:
		return Action(s), nil
	default:
		return "", fmt.Errorf("unrecognized action %q (want %q or %q)", s, ActionBlock, ActionInclude)
	}
}

// Filter is a single wildcard rule inside a stage.
//
// A disabled filter never changes the working set. Invert flips the match
// result before the action is applied, so an inverted block rule removes
// labels that do NOT match the pattern.
type Filter struct {
	Pattern string
	Action  Action
	Enabled bool
	Invert  bool
}

// ShouldKeep reports whether the label survives this filter.
//
// Disabled filters keep everything. For enabled filters the match result
// (optionally inverted) is combined with the action: block keeps
// non-matches, include keeps matches. Any string is a valid pattern, so
// ShouldKeep is total and never fails.
func (f Filter) ShouldKeep(label string) bool {
	if !f.Enabled {
		return true
	}

	m := Matches(label, f.Pattern)
	if f.Invert {
		m = !m
	}

	if f.Action == ActionInclude {
		return m
	}
	// Block is the default for anything else: remove on match.
	return !m
}

// active reports whether the filter participates in stage evaluation.
// Disabled filters and filters with a blank pattern are inert: a blank
// pattern carries no constraint and must not block or select anything.
func (f Filter) active() bool {
	return f.Enabled && !isBlank(f.Pattern)
}
