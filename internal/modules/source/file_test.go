package source

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/birdlab-tech/building-analytics/pkg/filterrun"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}
	return path
}

func TestFileSourceText(t *testing.T) {
	path := writeTempFile(t, "labels.txt",
		"AHU01 North Supply Temperature AI_3000336\n\n  Pump 1 Status BI_3000397  \n")

	m, err := NewFileFromConfig(&filterrun.ModuleConfig{
		Type:   "file",
		Config: map[string]interface{}{"path": path},
	})
	if err != nil {
		t.Fatalf("NewFileFromConfig() error = %v", err)
	}

	labels, err := m.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	want := []string{
		"AHU01 North Supply Temperature AI_3000336",
		"Pump 1 Status BI_3000397",
	}
	if !reflect.DeepEqual(labels, want) {
		t.Errorf("Fetch() = %v, want %v", labels, want)
	}
}

func TestFileSourceJSON(t *testing.T) {
	path := writeTempFile(t, "labels.json",
		`["Zone 3 Temperature", "", "Chiller Alarm BA_55"]`)

	m, err := NewFileFromConfig(&filterrun.ModuleConfig{
		Type:   "file",
		Config: map[string]interface{}{"path": path},
	})
	if err != nil {
		t.Fatalf("NewFileFromConfig() error = %v", err)
	}

	labels, err := m.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	want := []string{"Zone 3 Temperature", "Chiller Alarm BA_55"}
	if !reflect.DeepEqual(labels, want) {
		t.Errorf("Fetch() = %v, want %v", labels, want)
	}
}

func TestFileSourceConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		config map[string]interface{}
	}{
		{name: "missing path", config: map[string]interface{}{}},
		{name: "traversal path", config: map[string]interface{}{"path": "../secrets.txt"}},
		{name: "bad format", config: map[string]interface{}{"path": "labels.txt", "format": "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewFileFromConfig(&filterrun.ModuleConfig{Type: "file", Config: tt.config}); err == nil {
				t.Error("NewFileFromConfig() expected error, got nil")
			}
		})
	}
}

func TestFileSourceNilConfig(t *testing.T) {
	if _, err := NewFileFromConfig(nil); err != ErrNilConfig {
		t.Errorf("NewFileFromConfig(nil) error = %v, want ErrNilConfig", err)
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	m, err := NewFileFromConfig(&filterrun.ModuleConfig{
		Type:   "file",
		Config: map[string]interface{}{"path": filepath.Join(t.TempDir(), "nope.txt")},
	})
	if err != nil {
		t.Fatalf("NewFileFromConfig() error = %v", err)
	}
	if _, err := m.Fetch(context.Background()); err == nil {
		t.Error("Fetch() expected error for missing file")
	}
}
