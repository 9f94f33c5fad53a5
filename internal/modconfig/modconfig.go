// Package modconfig provides shared extraction helpers for the untyped
// configuration maps carried by module sections of a run document.
// Parsed JSON and YAML both surface as map[string]interface{}; these
// helpers centralize the type assertions so every module parser treats
// missing and mistyped values the same way.
package modconfig

import "time"

// String returns the string at key, or "" when absent or not a string.
func String(config map[string]interface{}, key string) string {
	if config == nil {
		return ""
	}
	s, _ := config[key].(string)
	return s
}

// Bool returns the bool at key, or def when absent or not a bool.
func Bool(config map[string]interface{}, key string, def bool) bool {
	if config == nil {
		return def
	}
	if b, ok := config[key].(bool); ok {
		return b
	}
	return def
}

// Float64 returns the number at key. JSON numbers decode as float64;
// YAML integers decode as int, so both are accepted. Returns 0 when
// absent or not numeric.
func Float64(config map[string]interface{}, key string) float64 {
	if config == nil {
		return 0
	}
	switch v := config[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

// StringMap returns the string-valued entries of the map at key.
// Non-string values are dropped. The result is never nil.
func StringMap(config map[string]interface{}, key string) map[string]string {
	result := make(map[string]string)
	if config == nil {
		return result
	}
	mapVal, ok := config[key].(map[string]interface{})
	if !ok {
		return result
	}
	for k, v := range mapVal {
		if s, ok := v.(string); ok {
			result[k] = s
		}
	}
	return result
}

// StringSlice returns the string items of the array at key. Non-string
// items are dropped. Returns nil when absent or not an array.
func StringSlice(config map[string]interface{}, key string) []string {
	if config == nil {
		return nil
	}
	items, ok := config[key].([]interface{})
	if !ok {
		return nil
	}
	result := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			result = append(result, s)
		}
	}
	return result
}

// SubMap returns the nested map at key, or nil when absent.
func SubMap(config map[string]interface{}, key string) map[string]interface{} {
	if config == nil {
		return nil
	}
	m, _ := config[key].(map[string]interface{})
	return m
}

// DurationSeconds interprets the number at key as seconds and returns
// it as a duration. Returns def when absent, not numeric, or not
// positive.
func DurationSeconds(config map[string]interface{}, key string, def time.Duration) time.Duration {
	if secs := Float64(config, key); secs > 0 {
		return time.Duration(secs * float64(time.Second))
	}
	return def
}
