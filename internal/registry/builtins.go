// Registration of the built-in module types.
package registry

import (
	"fmt"

	"github.com/birdlab-tech/building-analytics/internal/modules/rewrite"
	"github.com/birdlab-tech/building-analytics/internal/modules/sink"
	"github.com/birdlab-tech/building-analytics/internal/modules/source"
	"github.com/birdlab-tech/building-analytics/pkg/filterrun"
)

func init() {
	registerBuiltinSourceModules()
	registerBuiltinRewriteModules()
	registerBuiltinSinkModules()
}

func registerBuiltinSourceModules() {
	// file - newline-delimited or JSON label file
	RegisterSource("file", func(cfg *filterrun.ModuleConfig) (source.Module, error) {
		return source.NewFileFromConfig(cfg)
	})

	// csvColumn - one column of a CSV point export
	RegisterSource("csvColumn", func(cfg *filterrun.ModuleConfig) (source.Module, error) {
		return source.NewCSVColumnFromConfig(cfg)
	})

	// httpPolling - vendor BMS REST API
	RegisterSource("httpPolling", func(cfg *filterrun.ModuleConfig) (source.Module, error) {
		return source.NewHTTPPollingFromConfig(cfg)
	})
}

func registerBuiltinRewriteModules() {
	// trim - static prefix/suffix/whitespace normalization
	RegisterRewrite("trim", func(cfg filterrun.ModuleConfig, index int) (rewrite.Module, error) {
		module, err := rewrite.NewTrimFromConfig(&cfg)
		if err != nil {
			return nil, fmt.Errorf("invalid trim config at index %d: %w", index, err)
		}
		return module, nil
	})

	// script - JavaScript transform(label) via Goja
	RegisterRewrite("script", func(cfg filterrun.ModuleConfig, index int) (rewrite.Module, error) {
		module, err := rewrite.NewScriptFromConfig(&cfg)
		if err != nil {
			return nil, fmt.Errorf("invalid script config at index %d: %w", index, err)
		}
		return module, nil
	})
}

func registerBuiltinSinkModules() {
	// console - stdout, the default sink
	RegisterSink("console", func(cfg *filterrun.ModuleConfig) (sink.Module, error) {
		return sink.NewConsoleFromConfig(cfg)
	})

	// file - snapshot file, text or JSON
	RegisterSink("file", func(cfg *filterrun.ModuleConfig) (sink.Module, error) {
		return sink.NewFileFromConfig(cfg)
	})
}
