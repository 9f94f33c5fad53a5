package config

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/birdlab-tech/building-analytics/pkg/filterrun"
	"github.com/birdlab-tech/building-analytics/pkg/labelfilter"
)

// ConvertToSpec converts a parsed run document to an executable Spec.
// The data should already have passed schema validation; structural
// problems in the pipeline part (missing "filters" key, unrecognized
// action literal) surface as *labelfilter.ConfigFormatError.
func ConvertToSpec(data map[string]interface{}) (*filterrun.Spec, error) {
	if data == nil {
		return nil, fmt.Errorf("document data is nil")
	}

	spec := &filterrun.Spec{}

	name, ok := data["name"].(string)
	if !ok || name == "" {
		return nil, fmt.Errorf("missing required field 'name'")
	}
	spec.Name = name

	if description, ok := data["description"].(string); ok {
		spec.Description = description
	}

	if sourceData, ok := data["source"].(map[string]interface{}); ok {
		sourceConfig, err := convertModuleConfig(sourceData)
		if err != nil {
			return nil, fmt.Errorf("invalid source config: %w", err)
		}
		spec.Source = sourceConfig
	}

	if rewritesData, ok := data["rewrites"].([]interface{}); ok {
		for i, rewriteData := range rewritesData {
			rewriteMap, isMap := rewriteData.(map[string]interface{})
			if !isMap {
				return nil, fmt.Errorf("invalid rewrite at index %d", i)
			}
			rewriteConfig, err := convertModuleConfig(rewriteMap)
			if err != nil {
				return nil, fmt.Errorf("invalid rewrite at index %d: %w", i, err)
			}
			spec.Rewrites = append(spec.Rewrites, *rewriteConfig)
		}
	}

	pipeline, err := convertPipeline(data)
	if err != nil {
		return nil, err
	}
	spec.Pipeline = pipeline

	if sinkData, ok := data["sink"].(map[string]interface{}); ok {
		sinkConfig, err := convertModuleConfig(sinkData)
		if err != nil {
			return nil, fmt.Errorf("invalid sink config: %w", err)
		}
		spec.Sink = sinkConfig
	}

	if assert, ok := data["assert"].(string); ok {
		spec.Assert = assert
	}

	if scheduleData, ok := data["schedule"].(map[string]interface{}); ok {
		schedule, err := convertSchedule(scheduleData)
		if err != nil {
			return nil, fmt.Errorf("invalid schedule: %w", err)
		}
		spec.Schedule = schedule
	}

	return spec, nil
}

// convertPipeline extracts the filter pipeline keys (blocker_stages,
// target_stage, source_labels), round-trips them through JSON, and
// loads them with the engine's document loader so both entry points
// share one set of structural rules.
func convertPipeline(data map[string]interface{}) (*labelfilter.Pipeline, error) {
	subset := map[string]interface{}{}
	for _, key := range []string{"blocker_stages", "target_stage", "source_labels"} {
		if v, ok := data[key]; ok {
			subset[key] = v
		}
	}

	encoded, err := json.Marshal(subset)
	if err != nil {
		return nil, fmt.Errorf("encoding pipeline section: %w", err)
	}
	return labelfilter.LoadDocument(encoded)
}

func convertModuleConfig(data map[string]interface{}) (*filterrun.ModuleConfig, error) {
	moduleConfig := &filterrun.ModuleConfig{
		Config: make(map[string]interface{}),
	}

	moduleType, ok := data["type"].(string)
	if !ok {
		return nil, fmt.Errorf("missing required field 'type'")
	}
	moduleConfig.Type = moduleType

	// Module settings can be nested under "config" or flattened beside
	// "type"; both styles produce the same Config map.
	if nested, ok := data["config"].(map[string]interface{}); ok {
		for key, value := range nested {
			moduleConfig.Config[key] = value
		}
	}
	for key, value := range data {
		if key == "type" || key == "config" || key == "authentication" {
			continue
		}
		moduleConfig.Config[key] = value
	}

	if authData, ok := data["authentication"].(map[string]interface{}); ok {
		authConfig, err := convertAuthConfig(authData)
		if err != nil {
			return nil, fmt.Errorf("invalid authentication config: %w", err)
		}
		moduleConfig.Authentication = authConfig
	}

	return moduleConfig, nil
}

func convertAuthConfig(data map[string]interface{}) (*filterrun.AuthConfig, error) {
	authConfig := &filterrun.AuthConfig{
		Credentials: make(map[string]string),
	}

	authType, ok := data["type"].(string)
	if !ok {
		return nil, fmt.Errorf("missing required field 'type'")
	}
	authConfig.Type = authType

	if credentials, ok := data["credentials"].(map[string]interface{}); ok {
		for key, value := range credentials {
			strValue, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("invalid credential value for key %q: expected string, got %T", key, value)
			}
			authConfig.Credentials[key] = strValue
		}
	}
	return authConfig, nil
}

// convertSchedule parses the schedule interval: a Go duration string
// ("90s", "5m") or a bare number of seconds.
func convertSchedule(data map[string]interface{}) (*filterrun.Schedule, error) {
	switch v := data["interval"].(type) {
	case string:
		interval, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid interval %q: %w", v, err)
		}
		if interval <= 0 {
			return nil, fmt.Errorf("interval must be positive, got %q", v)
		}
		return &filterrun.Schedule{Interval: interval}, nil
	case float64:
		if v <= 0 {
			return nil, fmt.Errorf("interval must be positive, got %v", v)
		}
		return &filterrun.Schedule{Interval: time.Duration(v * float64(time.Second))}, nil
	case int:
		if v <= 0 {
			return nil, fmt.Errorf("interval must be positive, got %v", v)
		}
		return &filterrun.Schedule{Interval: time.Duration(v) * time.Second}, nil
	default:
		return nil, fmt.Errorf("missing required field 'interval'")
	}
}
