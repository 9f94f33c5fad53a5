package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `
name: heating-survey
description: strip lighting, keep temperatures
blocker_stages:
  - name: Drop lighting
    filters:
      - pattern: "*Lighting*"
        action: block
target_stage:
  name: Keep temperature
  filters:
    - pattern: "*Temperature*"
      action: include
source_labels:
  - AHU01 Supply Temperature
  - Lobby Lighting Control
`

const validJSON = `{
  "name": "heating-survey",
  "blocker_stages": [
    {"name": "Drop lighting", "filters": [{"pattern": "*Lighting*", "action": "block"}]}
  ],
  "source_labels": ["AHU01 Supply Temperature"]
}`

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing document: %v", err)
	}
	return path
}

func TestParseDocumentYAML(t *testing.T) {
	result := ParseDocument(writeDoc(t, "run.yaml", validYAML))
	if !result.IsValid() {
		t.Fatalf("errors = %v", result.AllErrors())
	}
	if result.Format != "yaml" {
		t.Errorf("Format = %q, want yaml", result.Format)
	}
	if result.Data["name"] != "heating-survey" {
		t.Errorf("name = %v", result.Data["name"])
	}
}

func TestParseDocumentJSON(t *testing.T) {
	result := ParseDocument(writeDoc(t, "run.json", validJSON))
	if !result.IsValid() {
		t.Fatalf("errors = %v", result.AllErrors())
	}
	if result.Format != "json" {
		t.Errorf("Format = %q, want json", result.Format)
	}
}

func TestParseDocumentDetectsFormatFromContent(t *testing.T) {
	result := ParseDocument(writeDoc(t, "run.conf", validYAML))
	if !result.IsValid() {
		t.Fatalf("errors = %v", result.AllErrors())
	}
	if result.Format != "yaml" {
		t.Errorf("Format = %q, want yaml", result.Format)
	}
}

func TestParseDocumentMissingFile(t *testing.T) {
	result := ParseDocument(filepath.Join(t.TempDir(), "missing.yaml"))
	if result.IsValid() {
		t.Fatal("expected parse errors for missing file")
	}
	if result.ParseErrors[0].Type != ErrorTypeIO {
		t.Errorf("error type = %q, want io", result.ParseErrors[0].Type)
	}
}

func TestParseJSONStringSyntaxErrorHasLocation(t *testing.T) {
	result := ParseJSONString("{\n  \"name\": \"x\",\n}")
	if result.IsValid() {
		t.Fatal("expected syntax error")
	}
	if result.Errors[0].Line == 0 {
		t.Errorf("error has no line info: %+v", result.Errors[0])
	}
}

func TestParseYAMLStringSyntaxErrorHasLine(t *testing.T) {
	result := ParseYAMLString("name: x\n  bad indent: [\n")
	if result.IsValid() {
		t.Fatal("expected syntax error")
	}
}

func TestParseStringRejectsNonObject(t *testing.T) {
	if result := ParseJSONString(`["a", "b"]`); result.IsValid() {
		t.Error("JSON array should not be a valid document")
	}
	if result := ParseYAMLString("- a\n- b\n"); result.IsValid() {
		t.Error("YAML sequence should not be a valid document")
	}
	if result := ParseJSONString(""); result.IsValid() {
		t.Error("empty content should not be valid")
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"run.json", "json"},
		{"run.yaml", "yaml"},
		{"run.YML", "yaml"},
		{"run.txt", ""},
		{"run", ""},
	}
	for _, tt := range tests {
		if got := DetectFormat(tt.path); got != tt.want {
			t.Errorf("DetectFormat(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestParseDocumentStringAutoDetect(t *testing.T) {
	result := ParseDocumentString(validJSON, "")
	if !result.IsValid() {
		t.Fatalf("errors = %v", result.AllErrors())
	}
	if result.Format != "json" {
		t.Errorf("Format = %q, want json", result.Format)
	}

	result = ParseDocumentString(validYAML, "")
	if !result.IsValid() {
		t.Fatalf("errors = %v", result.AllErrors())
	}
	if result.Format != "yaml" {
		t.Errorf("Format = %q, want yaml", result.Format)
	}
}
