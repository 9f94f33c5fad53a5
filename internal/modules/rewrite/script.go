package rewrite

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/dop251/goja"

	"github.com/birdlab-tech/building-analytics/internal/logger"
	"github.com/birdlab-tech/building-analytics/internal/pathutil"
	"github.com/birdlab-tech/building-analytics/pkg/filterrun"
)

// MaxScriptLength caps script size (100KB).
const MaxScriptLength = 100 * 1024

// Error types for the script module.
var (
	ErrScriptEmpty          = fmt.Errorf("script cannot be empty")
	ErrScriptTooLong        = fmt.Errorf("script exceeds maximum length of %d bytes", MaxScriptLength)
	ErrMissingTransformFunc = fmt.Errorf("transform function not found in script")
	ErrTransformNotFunction = fmt.Errorf("transform is not a function")
)

// ScriptConfig represents the configuration for a script rewrite module.
// Either Script or ScriptFile must be provided, not both.
type ScriptConfig struct {
	// Script is inline JavaScript defining transform(label).
	Script string `json:"script,omitempty"`
	// ScriptFile is a path to a JavaScript file defining transform(label).
	ScriptFile string `json:"scriptFile,omitempty"`
	// OnError is "fail" (default), "skip", or "log".
	OnError string `json:"onError,omitempty"`
}

// Script runs a user-defined JavaScript transform(label) over each
// label. Returning a string replaces the label; returning null or
// undefined drops it.
//
// Goja runtimes are not goroutine-safe: each Script instance owns one
// runtime and Apply must not be called concurrently on the same
// instance.
type Script struct {
	onError     string
	runtime     *goja.Runtime
	transformFn goja.Callable
	interruptMu sync.Mutex
}

// ParseScriptConfig parses a raw configuration map.
func ParseScriptConfig(config map[string]interface{}) (ScriptConfig, error) {
	var cfg ScriptConfig
	script, hasScript := config["script"].(string)
	scriptFile, hasScriptFile := config["scriptFile"].(string)

	if hasScript && hasScriptFile {
		return cfg, fmt.Errorf("cannot specify both 'script' and 'scriptFile'")
	}
	if !hasScript && !hasScriptFile {
		return cfg, fmt.Errorf("either 'script' or 'scriptFile' is required in script config")
	}
	cfg.Script = script
	cfg.ScriptFile = scriptFile

	if onError, ok := config["onError"].(string); ok {
		if !validOnError(onError) {
			return cfg, fmt.Errorf("unrecognized onError mode: %q", onError)
		}
		cfg.OnError = onError
	}
	return cfg, nil
}

// NewScriptFromConfig creates a script rewrite module: it resolves the
// source, compiles it once, and verifies the transform function exists.
// Goja sandboxes execution; scripts have no file system or network
// access.
func NewScriptFromConfig(config *filterrun.ModuleConfig) (*Script, error) {
	if config == nil {
		return nil, ErrNilConfig
	}
	cfg, err := ParseScriptConfig(config.Config)
	if err != nil {
		return nil, err
	}

	source, err := resolveScriptSource(cfg)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(source) == "" {
		return nil, ErrScriptEmpty
	}
	if len(source) > MaxScriptLength {
		return nil, ErrScriptTooLong
	}

	onError := cfg.OnError
	if onError == "" {
		onError = OnErrorFail
	}

	vm := goja.New()
	if err := installConsole(vm); err != nil {
		return nil, err
	}
	if _, err := vm.RunString(source); err != nil {
		return nil, fmt.Errorf("script compilation failed: %w", err)
	}

	transformVal := vm.Get("transform")
	if transformVal == nil || goja.IsUndefined(transformVal) {
		return nil, ErrMissingTransformFunc
	}
	transformFn, ok := goja.AssertFunction(transformVal)
	if !ok {
		return nil, ErrTransformNotFunction
	}

	logger.WithModule("rewrite", "script").Debug("script module initialized",
		"script_length", len(source),
		"on_error", onError,
		"from_file", cfg.ScriptFile != "",
	)

	return &Script{onError: onError, runtime: vm, transformFn: transformFn}, nil
}

func resolveScriptSource(cfg ScriptConfig) (string, error) {
	if cfg.Script != "" {
		return cfg.Script, nil
	}
	if err := pathutil.ValidateFilePath(cfg.ScriptFile); err != nil {
		return "", err
	}
	info, err := os.Stat(cfg.ScriptFile)
	if err != nil {
		return "", fmt.Errorf("reading script file %q: %w", cfg.ScriptFile, err)
	}
	if info.Size() > MaxScriptLength {
		return "", ErrScriptTooLong
	}
	content, err := os.ReadFile(cfg.ScriptFile)
	if err != nil {
		return "", fmt.Errorf("reading script file %q: %w", cfg.ScriptFile, err)
	}
	return string(content), nil
}

// Apply rewrites each label through the transform function. Errors are
// handled per the onError mode; a canceled context interrupts the
// JavaScript execution.
func (m *Script) Apply(ctx context.Context, labels []string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log := logger.WithModule("rewrite", "script")
	result := make([]string, 0, len(labels))
	dropped := 0

	for i, label := range labels {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rewritten, keep, err := m.transform(ctx, label)
		if err != nil {
			switch m.onError {
			case OnErrorSkip:
				log.Warn("skipping label on script error", "index", i, "error", err.Error())
				dropped++
				continue
			case OnErrorLog:
				log.Error("script error, keeping original label", "index", i, "error", err.Error())
				result = append(result, label)
				continue
			default:
				return nil, fmt.Errorf("rewriting label %d: %w", i, err)
			}
		}
		if !keep {
			dropped++
			continue
		}
		result = append(result, rewritten)
	}

	log.Debug("rewrite applied", "input", len(labels), "output", len(result), "dropped", dropped)
	return result, nil
}

// transform runs transform(label) once. keep is false when the script
// returned null or undefined.
func (m *Script) transform(ctx context.Context, label string) (rewritten string, keep bool, err error) {
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			m.interruptMu.Lock()
			m.runtime.Interrupt(ctx.Err().Error())
			m.interruptMu.Unlock()
		case <-done:
		}
	}()

	value, err := m.transformFn(goja.Undefined(), m.runtime.ToValue(label))

	m.interruptMu.Lock()
	m.runtime.ClearInterrupt()
	m.interruptMu.Unlock()

	if err != nil {
		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}
		if jsErr, ok := err.(*goja.Exception); ok {
			return "", false, fmt.Errorf("script execution failed: %v", jsErr.Value())
		}
		return "", false, fmt.Errorf("script execution failed: %w", err)
	}

	if value == nil || goja.IsUndefined(value) || goja.IsNull(value) {
		return "", false, nil
	}

	exported := value.Export()
	s, ok := exported.(string)
	if !ok {
		return "", false, fmt.Errorf("transform must return a string or null, got %T", exported)
	}
	return s, true, nil
}

// Close releases the runtime.
func (m *Script) Close() error {
	m.interruptMu.Lock()
	defer m.interruptMu.Unlock()
	m.runtime = nil
	m.transformFn = nil
	return nil
}

var _ Module = (*Script)(nil)
