// Package pathutil provides shared path helpers: file path validation
// for sink/source file access and dot-notation traversal of decoded
// JSON documents for response field extraction.
package pathutil

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidateFilePath validates a file path for path traversal and invalid
// characters. Segment-based detection so "scripts/../etc/passwd" is
// rejected before cleaning.
func ValidateFilePath(filePath string) error {
	if filePath == "" {
		return fmt.Errorf("file path cannot be empty")
	}
	if strings.Contains(filePath, "\x00") {
		return fmt.Errorf("file path contains invalid characters")
	}

	normalized := filepath.ToSlash(filePath)
	for _, segment := range strings.Split(normalized, "/") {
		if segment == ".." {
			return fmt.Errorf("file path contains path traversal: %q", filePath)
		}
	}
	return nil
}

// IsNestedPath reports whether path uses dot notation.
func IsNestedPath(path string) bool {
	return strings.Contains(path, ".")
}

// GetNestedValue navigates a decoded JSON object by dot-notation path
// (e.g. "data.points") and returns the value and whether it was found.
// Only map steps are supported; an empty path returns the object itself.
func GetNestedValue(obj map[string]interface{}, path string) (interface{}, bool) {
	if path == "" {
		return obj, true
	}

	var current interface{} = obj
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
