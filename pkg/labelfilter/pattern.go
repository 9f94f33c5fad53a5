// Package labelfilter implements multi-stage wildcard filtering of BMS
// point labels. A pipeline feeds a source label set through an ordered
// list of blocker (exclusion) stages followed by at most one target
// (inclusion) stage, replicating the spreadsheet-era Bs1..BsN/Ts columns.
//
// The package is pure and synchronous: no I/O, no shared mutable state
// across runs. Hosts that evaluate pipelines concurrently should give each
// request its own Pipeline value.
package labelfilter

import (
	"regexp"
	"strings"
	"sync"
)

// patternCache memoizes compiled wildcard patterns. Pattern lists are tiny
// (a handful per stage) but every pattern is tested against hundreds of
// labels, so compiling once per pattern is worth the map lookup.
var (
	patternMu    sync.RWMutex
	patternCache = make(map[string]*regexp.Regexp)
)

// Matches reports whether label matches the wildcard pattern.
//
// The grammar supports two metacharacters: '*' matches any run of
// characters (including none) and '?' matches exactly one character. All
// other characters match literally, regex metacharacters included.
// Matching is case-insensitive and anchored to the whole label: the
// pattern "Pump" matches only the label "Pump"; use "*Pump*" for a
// contains-match.
//
// An empty or whitespace-only pattern always returns true. Stages treat
// such filters as inert rather than as match-everything rules.
func Matches(label, pattern string) bool {
	if strings.TrimSpace(pattern) == "" {
		return true
	}
	return compilePattern(pattern).MatchString(label)
}

// compilePattern translates a wildcard pattern into an anchored,
// case-insensitive regular expression, caching the result.
func compilePattern(pattern string) *regexp.Regexp {
	patternMu.RLock()
	re, ok := patternCache[pattern]
	patternMu.RUnlock()
	if ok {
		return re
	}

	re = regexp.MustCompile(translatePattern(pattern))

	patternMu.Lock()
	patternCache[pattern] = re
	patternMu.Unlock()
	return re
}

// translatePattern builds the regular expression source for a wildcard
// pattern. Literal runs are quoted so characters like '.', '+' or '('
// match themselves.
func translatePattern(pattern string) string {
	var sb strings.Builder
	sb.WriteString("(?i)^")

	literal := strings.Builder{}
	flush := func() {
		if literal.Len() > 0 {
			sb.WriteString(regexp.QuoteMeta(literal.String()))
			literal.Reset()
		}
	}

	for _, r := range pattern {
		switch r {
		case '*':
			flush()
			sb.WriteString(".*")
		case '?':
			flush()
			sb.WriteString(".")
		default:
			literal.WriteRune(r)
		}
	}
	flush()

	sb.WriteString("$")
	return sb.String()
}

// isBlank reports whether a pattern carries no constraint.
func isBlank(pattern string) bool {
	return strings.TrimSpace(pattern) == ""
}
