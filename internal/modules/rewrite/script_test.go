package rewrite

import (
	"context"
	"reflect"
	"testing"

	"github.com/birdlab-tech/building-analytics/pkg/filterrun"
)

func newScript(t *testing.T, config map[string]interface{}) *Script {
	t.Helper()
	m, err := NewScriptFromConfig(&filterrun.ModuleConfig{Type: "script", Config: config})
	if err != nil {
		t.Fatalf("NewScriptFromConfig() error = %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func TestScriptRewritesLabels(t *testing.T) {
	m := newScript(t, map[string]interface{}{
		"script": `function transform(label) { return label.toUpperCase(); }`,
	})

	labels, err := m.Apply(context.Background(), []string{"Pump 1 Status", "Zone 3 Temp"})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	want := []string{"PUMP 1 STATUS", "ZONE 3 TEMP"}
	if !reflect.DeepEqual(labels, want) {
		t.Errorf("Apply() = %v, want %v", labels, want)
	}
}

func TestScriptNullDropsLabel(t *testing.T) {
	m := newScript(t, map[string]interface{}{
		"script": `function transform(label) {
			if (label.indexOf("Spare") !== -1) { return null; }
			return label;
		}`,
	})

	labels, err := m.Apply(context.Background(), []string{
		"AHU01 Temp", "Spare Point 12", "Pump 1 Status",
	})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	want := []string{"AHU01 Temp", "Pump 1 Status"}
	if !reflect.DeepEqual(labels, want) {
		t.Errorf("Apply() = %v, want %v", labels, want)
	}
}

func TestScriptOnErrorModes(t *testing.T) {
	throwing := `function transform(label) {
		if (label === "bad") { throw new Error("boom"); }
		return label;
	}`
	input := []string{"ok", "bad", "also ok"}

	t.Run("fail", func(t *testing.T) {
		m := newScript(t, map[string]interface{}{"script": throwing})
		if _, err := m.Apply(context.Background(), input); err == nil {
			t.Error("Apply() expected error in fail mode")
		}
	})

	t.Run("skip", func(t *testing.T) {
		m := newScript(t, map[string]interface{}{"script": throwing, "onError": "skip"})
		labels, err := m.Apply(context.Background(), input)
		if err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
		want := []string{"ok", "also ok"}
		if !reflect.DeepEqual(labels, want) {
			t.Errorf("Apply() = %v, want %v", labels, want)
		}
	})

	t.Run("log", func(t *testing.T) {
		m := newScript(t, map[string]interface{}{"script": throwing, "onError": "log"})
		labels, err := m.Apply(context.Background(), input)
		if err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
		if !reflect.DeepEqual(labels, input) {
			t.Errorf("Apply() = %v, want original %v", labels, input)
		}
	})
}

func TestScriptNonStringResultFails(t *testing.T) {
	m := newScript(t, map[string]interface{}{
		"script": `function transform(label) { return 42; }`,
	})
	if _, err := m.Apply(context.Background(), []string{"x"}); err == nil {
		t.Error("Apply() expected error for numeric result")
	}
}

func TestNewScriptFromConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		config map[string]interface{}
	}{
		{name: "no script", config: map[string]interface{}{}},
		{name: "both script and file", config: map[string]interface{}{
			"script": "function transform(l) { return l; }", "scriptFile": "t.js",
		}},
		{name: "empty script", config: map[string]interface{}{"script": "   "}},
		{name: "syntax error", config: map[string]interface{}{"script": "function transform(l) {"}},
		{name: "missing transform", config: map[string]interface{}{"script": "var x = 1;"}},
		{name: "transform not a function", config: map[string]interface{}{"script": "var transform = 3;"}},
		{name: "bad onError", config: map[string]interface{}{
			"script": "function transform(l) { return l; }", "onError": "explode",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewScriptFromConfig(&filterrun.ModuleConfig{Type: "script", Config: tt.config})
			if err == nil {
				t.Error("NewScriptFromConfig() expected error, got nil")
			}
		})
	}
}

func TestScriptConsoleBridge(t *testing.T) {
	m := newScript(t, map[string]interface{}{
		"script": `function transform(label) {
			console.log("processing", label, {len: label.length});
			console.debug("detail");
			return label;
		}`,
	})

	labels, err := m.Apply(context.Background(), []string{"AHU01 Temp"})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !reflect.DeepEqual(labels, []string{"AHU01 Temp"}) {
		t.Errorf("Apply() = %v", labels)
	}
}

func TestFormatConsoleValue(t *testing.T) {
	m := newScript(t, map[string]interface{}{
		"script": `function transform(label) { return label; }`,
	})

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{name: "string", source: `"hello"`, want: "hello"},
		{name: "number", source: `42`, want: "42"},
		{name: "array", source: `[1, "two"]`, want: `[1,"two"]`},
		{name: "null", source: `null`, want: "null"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := m.runtime.RunString(tt.source)
			if err != nil {
				t.Fatalf("RunString() error = %v", err)
			}
			if got := formatConsoleValue(v); got != tt.want {
				t.Errorf("formatConsoleValue() = %q, want %q", got, tt.want)
			}
		})
	}
}
