package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/birdlab-tech/building-analytics/pkg/filterrun"
)

func TestConsoleTextFormat(t *testing.T) {
	var buf bytes.Buffer
	m := &Console{format: ConsoleFormatText, out: &buf}

	n, err := m.Write(context.Background(), []string{"AHU01 Temp", "Pump 1 Status"})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Write() = %d, want 2", n)
	}
	want := "AHU01 Temp\nPump 1 Status\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestConsoleJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	m := &Console{format: ConsoleFormatJSON, out: &buf}

	if _, err := m.Write(context.Background(), []string{"AHU01 Temp"}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var decoded []string
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if !reflect.DeepEqual(decoded, []string{"AHU01 Temp"}) {
		t.Errorf("decoded = %v", decoded)
	}
}

func TestParseConsoleConfigRejectsUnknownFormat(t *testing.T) {
	if _, err := ParseConsoleConfig(map[string]interface{}{"format": "yaml"}); err == nil {
		t.Error("ParseConsoleConfig() expected error for unknown format")
	}
}

func TestFileSinkText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "filtered.txt")
	m, err := NewFileFromConfig(&filterrun.ModuleConfig{
		Type:   "file",
		Config: map[string]interface{}{"path": path},
	})
	if err != nil {
		t.Fatalf("NewFileFromConfig() error = %v", err)
	}

	n, err := m.Write(context.Background(), []string{"AHU01 Temp", "Pump 1 Status"})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Write() = %d, want 2", n)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(content) != "AHU01 Temp\nPump 1 Status\n" {
		t.Errorf("content = %q", content)
	}
}

func TestFileSinkJSONByExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filtered.json")
	m, err := NewFileFromConfig(&filterrun.ModuleConfig{
		Type:   "file",
		Config: map[string]interface{}{"path": path},
	})
	if err != nil {
		t.Fatalf("NewFileFromConfig() error = %v", err)
	}

	if _, err := m.Write(context.Background(), []string{"Zone 3 Temp"}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	var decoded []string
	if err := json.Unmarshal(content, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if !reflect.DeepEqual(decoded, []string{"Zone 3 Temp"}) {
		t.Errorf("decoded = %v", decoded)
	}
}

func TestFileSinkReplacesPreviousSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filtered.txt")
	m, err := NewFileFromConfig(&filterrun.ModuleConfig{
		Type:   "file",
		Config: map[string]interface{}{"path": path},
	})
	if err != nil {
		t.Fatalf("NewFileFromConfig() error = %v", err)
	}

	if _, err := m.Write(context.Background(), []string{"old 1", "old 2", "old 3"}); err != nil {
		t.Fatalf("first Write() error = %v", err)
	}
	if _, err := m.Write(context.Background(), []string{"new"}); err != nil {
		t.Fatalf("second Write() error = %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if strings.Contains(string(content), "old") {
		t.Errorf("snapshot not replaced: %q", content)
	}
}

func TestFileSinkConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		config map[string]interface{}
	}{
		{name: "missing path", config: map[string]interface{}{}},
		{name: "traversal path", config: map[string]interface{}{"path": "../out.txt"}},
		{name: "bad format", config: map[string]interface{}{"path": "out.txt", "format": "csv"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewFileFromConfig(&filterrun.ModuleConfig{Type: "file", Config: tt.config}); err == nil {
				t.Error("NewFileFromConfig() expected error, got nil")
			}
		})
	}
}

func TestStubDiscards(t *testing.T) {
	m := NewStub("mystery")
	n, err := m.Write(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Write() = %d, want 2", n)
	}
}
