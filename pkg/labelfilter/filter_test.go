package labelfilter

import "testing"

func TestFilterShouldKeep(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		label  string
		want   bool
	}{
		{
			name:   "block removes matching label",
			filter: Filter{Pattern: "Lighting*", Action: ActionBlock, Enabled: true},
			label:  "Lighting Circuit 1-4-7 Status BI_3000065",
			want:   false,
		},
		{
			name:   "block keeps non-matching label",
			filter: Filter{Pattern: "Lighting*", Action: ActionBlock, Enabled: true},
			label:  "Pump 1 Status BI_3000397",
			want:   true,
		},
		{
			name:   "include keeps matching label",
			filter: Filter{Pattern: "*Temperature*", Action: ActionInclude, Enabled: true},
			label:  "AHU01 North Supply Temperature AI_3000336",
			want:   true,
		},
		{
			name:   "include removes non-matching label",
			filter: Filter{Pattern: "*Temperature*", Action: ActionInclude, Enabled: true},
			label:  "Fire Alarm BI_3000334",
			want:   false,
		},
		{
			name:   "disabled filter keeps everything",
			filter: Filter{Pattern: "*", Action: ActionBlock, Enabled: false},
			label:  "Fire Alarm BI_3000334",
			want:   true,
		},
		{
			name:   "inverted block removes non-matching label",
			filter: Filter{Pattern: "*Temperature*", Action: ActionBlock, Enabled: true, Invert: true},
			label:  "Fire Alarm BI_3000334",
			want:   false,
		},
		{
			name:   "inverted block keeps matching label",
			filter: Filter{Pattern: "*Temperature*", Action: ActionBlock, Enabled: true, Invert: true},
			label:  "AHU01 North Supply Temperature AI_3000336",
			want:   true,
		},
		{
			name:   "inverted include keeps non-matching label",
			filter: Filter{Pattern: "*Alarm*", Action: ActionInclude, Enabled: true, Invert: true},
			label:  "Pump 1 Status BI_3000397",
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.ShouldKeep(tt.label); got != tt.want {
				t.Errorf("ShouldKeep(%q) = %v, want %v", tt.label, got, tt.want)
			}
		})
	}
}

func TestFilterInvertSymmetry(t *testing.T) {
	// Inversion must exactly flip the keep decision of the same enabled
	// filter, for both actions.
	labels := []string{
		"AHU01 North Supply Temperature AI_3000336",
		"Fire Alarm BI_3000334",
		"Pump 1 Status BI_3000397",
	}
	patterns := []string{"*Alarm*", "Pump*", "*", "?ump*"}
	actions := []Action{ActionBlock, ActionInclude}

	for _, pattern := range patterns {
		for _, action := range actions {
			plain := Filter{Pattern: pattern, Action: action, Enabled: true}
			flipped := Filter{Pattern: pattern, Action: action, Enabled: true, Invert: true}
			for _, label := range labels {
				if plain.ShouldKeep(label) == flipped.ShouldKeep(label) {
					t.Errorf("pattern %q action %q label %q: invert did not flip the decision",
						pattern, action, label)
				}
			}
		}
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		input   string
		want    Action
		wantErr bool
	}{
		{input: "block", want: ActionBlock},
		{input: "include", want: ActionInclude},
		{input: "", wantErr: true},
		{input: "exclude", wantErr: true},
		{input: "Block", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("action "+tt.input, func(t *testing.T) {
			got, err := ParseAction(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseAction(%q): expected error, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAction(%q): unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseAction(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
