// Package registry provides module registries for source, rewrite, and
// sink modules.
//
// Instead of hard-coded switch statements, modules register their
// constructors by type string, so new module types can be added without
// touching the factory. Built-in modules register themselves via init()
// in this package; unknown types fall back to stub implementations at
// the factory level.
package registry

import (
	"sort"
	"sync"

	"github.com/birdlab-tech/building-analytics/internal/modules/rewrite"
	"github.com/birdlab-tech/building-analytics/internal/modules/sink"
	"github.com/birdlab-tech/building-analytics/internal/modules/source"
	"github.com/birdlab-tech/building-analytics/pkg/filterrun"
)

// SourceConstructor creates a source module from configuration.
type SourceConstructor func(cfg *filterrun.ModuleConfig) (source.Module, error)

// RewriteConstructor creates a rewrite module from configuration. The
// index is the module's position in the rewrite chain, used for error
// messages.
type RewriteConstructor func(cfg filterrun.ModuleConfig, index int) (rewrite.Module, error)

// SinkConstructor creates a sink module from configuration.
type SinkConstructor func(cfg *filterrun.ModuleConfig) (sink.Module, error)

var (
	sourceMu       sync.RWMutex
	sourceRegistry = make(map[string]SourceConstructor)

	rewriteMu       sync.RWMutex
	rewriteRegistry = make(map[string]RewriteConstructor)

	sinkMu       sync.RWMutex
	sinkRegistry = make(map[string]SinkConstructor)
)

// RegisterSource registers a source module constructor by type string.
// Registering an already registered type overwrites the previous
// constructor. Safe for concurrent use.
func RegisterSource(moduleType string, constructor SourceConstructor) {
	sourceMu.Lock()
	defer sourceMu.Unlock()
	sourceRegistry[moduleType] = constructor
}

// RegisterRewrite registers a rewrite module constructor by type string.
func RegisterRewrite(moduleType string, constructor RewriteConstructor) {
	rewriteMu.Lock()
	defer rewriteMu.Unlock()
	rewriteRegistry[moduleType] = constructor
}

// RegisterSink registers a sink module constructor by type string.
func RegisterSink(moduleType string, constructor SinkConstructor) {
	sinkMu.Lock()
	defer sinkMu.Unlock()
	sinkRegistry[moduleType] = constructor
}

// GetSourceConstructor returns the constructor for a source module type,
// or nil when none is registered.
func GetSourceConstructor(moduleType string) SourceConstructor {
	sourceMu.RLock()
	defer sourceMu.RUnlock()
	return sourceRegistry[moduleType]
}

// GetRewriteConstructor returns the constructor for a rewrite module
// type, or nil when none is registered.
func GetRewriteConstructor(moduleType string) RewriteConstructor {
	rewriteMu.RLock()
	defer rewriteMu.RUnlock()
	return rewriteRegistry[moduleType]
}

// GetSinkConstructor returns the constructor for a sink module type, or
// nil when none is registered.
func GetSinkConstructor(moduleType string) SinkConstructor {
	sinkMu.RLock()
	defer sinkMu.RUnlock()
	return sinkRegistry[moduleType]
}

// ListSourceTypes returns all registered source module type names,
// sorted for stable output.
func ListSourceTypes() []string {
	sourceMu.RLock()
	defer sourceMu.RUnlock()
	return sortedKeys(sourceRegistry)
}

// ListRewriteTypes returns all registered rewrite module type names.
func ListRewriteTypes() []string {
	rewriteMu.RLock()
	defer rewriteMu.RUnlock()
	return sortedKeys(rewriteRegistry)
}

// ListSinkTypes returns all registered sink module type names.
func ListSinkTypes() []string {
	sinkMu.RLock()
	defer sinkMu.RUnlock()
	return sortedKeys(sinkRegistry)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
