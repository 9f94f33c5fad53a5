package config

import "github.com/birdlab-tech/building-analytics/pkg/filterrun"

// LoadSpec parses, validates, and converts a run document file in one
// step. The Result carries parse and validation errors for detailed
// reporting; the Spec is nil unless the Result is valid and conversion
// succeeded.
func LoadSpec(filepath string) (*filterrun.Spec, *Result, error) {
	result := ParseDocument(filepath)
	if !result.IsValid() {
		return nil, result, nil
	}

	spec, err := ConvertToSpec(result.Data)
	if err != nil {
		return nil, result, err
	}
	return spec, result, nil
}
