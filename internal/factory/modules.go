// Package factory provides module creation for the run executor. It
// centralizes instantiation of source, rewrite, and sink modules from
// their configuration using the module registry.
//
// Built-in modules (file, csvColumn, httpPolling, trim, script,
// console) register themselves at startup. Unknown types resolve to
// stub implementations so a run document can be exercised before every
// module exists. To add a new module type, register a constructor in
// internal/registry; the factory needs no changes.
package factory

import (
	"github.com/birdlab-tech/building-analytics/internal/modules/rewrite"
	"github.com/birdlab-tech/building-analytics/internal/modules/sink"
	"github.com/birdlab-tech/building-analytics/internal/modules/source"
	"github.com/birdlab-tech/building-analytics/internal/registry"
	"github.com/birdlab-tech/building-analytics/pkg/filterrun"
)

// CreateSourceModule creates a source module instance from
// configuration. Unknown types fall back to a stub; a nil config
// returns nil.
func CreateSourceModule(cfg *filterrun.ModuleConfig) (source.Module, error) {
	if cfg == nil {
		return nil, nil
	}
	if constructor := registry.GetSourceConstructor(cfg.Type); constructor != nil {
		return constructor(cfg)
	}
	return source.NewStub(cfg.Type), nil
}

// CreateRewriteModules creates the rewrite chain from configuration,
// preserving declaration order. Unknown types fall back to pass-through
// stubs.
func CreateRewriteModules(cfgs []filterrun.ModuleConfig) ([]rewrite.Module, error) {
	if len(cfgs) == 0 {
		return nil, nil
	}

	modules := make([]rewrite.Module, 0, len(cfgs))
	for i, cfg := range cfgs {
		var module rewrite.Module
		var err error
		if constructor := registry.GetRewriteConstructor(cfg.Type); constructor != nil {
			module, err = constructor(cfg, i)
		} else {
			module = rewrite.NewStub(cfg.Type)
		}
		if err != nil {
			closeAll(modules)
			return nil, err
		}
		modules = append(modules, module)
	}
	return modules, nil
}

// CreateSinkModule creates a sink module instance from configuration.
// A nil config yields the console default; unknown types fall back to a
// stub.
func CreateSinkModule(cfg *filterrun.ModuleConfig) (sink.Module, error) {
	if cfg == nil {
		return sink.NewConsoleFromConfig(nil)
	}
	if constructor := registry.GetSinkConstructor(cfg.Type); constructor != nil {
		return constructor(cfg)
	}
	return sink.NewStub(cfg.Type), nil
}

func closeAll(modules []rewrite.Module) {
	for _, m := range modules {
		m.Close() //nolint:errcheck
	}
}
