package rewrite

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dop251/goja"

	"github.com/birdlab-tech/building-analytics/internal/logger"
)

// MaxLogMessageLength caps a single console message (8KB).
const MaxLogMessageLength = 8 * 1024

// jsConsole exposes console.log/info/warn/error/debug inside the goja
// runtime, routing script output into the slog logger so rewrite
// scripts share the process log stream.
type jsConsole struct {
	log *slog.Logger
}

// installConsole registers a console object in the runtime. Must run
// before the script source is evaluated.
func installConsole(vm *goja.Runtime) error {
	c := &jsConsole{log: logger.WithModule("rewrite", "script")}

	console := vm.NewObject()
	for name, fn := range map[string]func(goja.FunctionCall) goja.Value{
		"log":   c.info,
		"info":  c.info,
		"warn":  c.warn,
		"error": c.error,
		"debug": c.debug,
	} {
		if err := console.Set(name, fn); err != nil {
			return fmt.Errorf("console.Set(%q): %w", name, err)
		}
	}
	if err := vm.Set("console", console); err != nil {
		return fmt.Errorf("runtime.Set(console): %w", err)
	}
	return nil
}

func (c *jsConsole) info(call goja.FunctionCall) goja.Value {
	c.log.Info(formatConsoleArgs(call))
	return goja.Undefined()
}

func (c *jsConsole) warn(call goja.FunctionCall) goja.Value {
	c.log.Warn(formatConsoleArgs(call))
	return goja.Undefined()
}

func (c *jsConsole) error(call goja.FunctionCall) goja.Value {
	c.log.Error(formatConsoleArgs(call))
	return goja.Undefined()
}

func (c *jsConsole) debug(call goja.FunctionCall) goja.Value {
	c.log.Debug(formatConsoleArgs(call))
	return goja.Undefined()
}

// formatConsoleArgs renders console arguments space-separated. Objects
// are JSON-encoded; anything unencodable falls back to its string form.
func formatConsoleArgs(call goja.FunctionCall) string {
	parts := make([]string, 0, len(call.Arguments))
	for _, arg := range call.Arguments {
		parts = append(parts, formatConsoleValue(arg))
	}
	msg := strings.Join(parts, " ")
	if len(msg) > MaxLogMessageLength {
		msg = msg[:MaxLogMessageLength] + "... (truncated)"
	}
	return msg
}

func formatConsoleValue(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) {
		return "undefined"
	}
	if goja.IsNull(v) {
		return "null"
	}
	exported := v.Export()
	switch exported.(type) {
	case map[string]interface{}, []interface{}:
		if encoded, err := json.Marshal(exported); err == nil {
			return string(encoded)
		}
	}
	return v.String()
}
