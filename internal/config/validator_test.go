package config

import (
	"encoding/json"
	"testing"
)

func parseForValidation(t *testing.T, content string) map[string]interface{} {
	t.Helper()
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		t.Fatalf("parsing test document: %v", err)
	}
	return data
}

func TestValidateDocumentAcceptsValidRun(t *testing.T) {
	data := parseForValidation(t, `{
		"name": "heating-survey",
		"source": {"type": "httpPolling", "config": {"endpoint": "https://bms.local/points"}},
		"rewrites": [{"type": "trim", "config": {"collapseWhitespace": true}}],
		"blocker_stages": [
			{"name": "Drop lighting", "filters": [{"pattern": "*Lighting*", "action": "block"}]}
		],
		"target_stage": {"name": "Keep temps", "filters": [{"pattern": "*Temperature*", "action": "include"}]},
		"sink": {"type": "file", "config": {"path": "out.txt"}},
		"assert": "removal_percentage < 95",
		"schedule": {"interval": "90s"}
	}`)

	result := ValidateDocument(data)
	if !result.Valid {
		t.Fatalf("errors = %v", result.Errors)
	}
}

func TestValidateDocumentNullTargetStage(t *testing.T) {
	data := parseForValidation(t, `{"name": "x", "target_stage": null}`)
	if result := ValidateDocument(data); !result.Valid {
		t.Errorf("null target_stage should be valid: %v", result.Errors)
	}
}

func TestValidateDocumentRejections(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "missing name", content: `{"blocker_stages": []}`},
		{name: "empty name", content: `{"name": ""}`},
		{name: "unknown root key", content: `{"name": "x", "blocking_stages": []}`},
		{name: "bad action literal", content: `{
			"name": "x",
			"blocker_stages": [{"name": "s", "filters": [{"pattern": "*", "action": "drop"}]}]
		}`},
		{name: "filter missing pattern", content: `{
			"name": "x",
			"blocker_stages": [{"name": "s", "filters": [{"action": "block"}]}]
		}`},
		{name: "module missing type", content: `{"name": "x", "source": {"config": {}}}`},
		{name: "bad auth type", content: `{
			"name": "x",
			"source": {"type": "httpPolling", "authentication": {"type": "oauth2"}}
		}`},
		{name: "schedule without interval", content: `{"name": "x", "schedule": {}}`},
		{name: "bad interval string", content: `{"name": "x", "schedule": {"interval": "soon"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateDocument(parseForValidation(t, tt.content))
			if result.Valid {
				t.Error("expected validation errors, got none")
			}
		})
	}
}

func TestValidateDocumentEmptyData(t *testing.T) {
	result := ValidateDocument(nil)
	if result.Valid {
		t.Error("nil data should be invalid")
	}
	result = ValidateDocument(map[string]interface{}{})
	if result.Valid {
		t.Error("empty data should be invalid")
	}
}

func TestValidationErrorsCarryPaths(t *testing.T) {
	data := parseForValidation(t, `{
		"name": "x",
		"blocker_stages": [{"name": "s", "filters": [{"pattern": "*", "action": "drop"}]}]
	}`)
	result := ValidateDocument(data)
	if result.Valid {
		t.Fatal("expected validation errors")
	}
	found := false
	for _, e := range result.Errors {
		if e.Path != "/" && e.Path != "" {
			found = true
		}
	}
	if !found {
		t.Errorf("no error carries an instance path: %v", result.Errors)
	}
}

func TestGetEmbeddedSchemaIsValidJSON(t *testing.T) {
	var doc interface{}
	if err := json.Unmarshal(GetEmbeddedSchema(), &doc); err != nil {
		t.Fatalf("embedded schema is not valid JSON: %v", err)
	}
}
