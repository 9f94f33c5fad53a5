package labelfilter

import "testing"

func TestMatchesWildcardGrammar(t *testing.T) {
	tests := []struct {
		name    string
		label   string
		pattern string
		want    bool
	}{
		{
			name:    "star matches any string",
			label:   "AnyString123",
			pattern: "*",
			want:    true,
		},
		{
			name:    "question mark matches exactly one character",
			label:   "AB",
			pattern: "A?",
			want:    true,
		},
		{
			name:    "question mark does not match two characters",
			label:   "ABC",
			pattern: "A?",
			want:    false,
		},
		{
			name:    "contains match is case-insensitive",
			label:   "PumpSpeed",
			pattern: "*pump*",
			want:    true,
		},
		{
			name:    "bare pattern is anchored to the whole label",
			label:   "Pump",
			pattern: "Pump1",
			want:    false,
		},
		{
			name:    "bare pattern matches exact label only",
			label:   "Pump1",
			pattern: "Pump",
			want:    false,
		},
		{
			name:    "exact label matches",
			label:   "Pump",
			pattern: "Pump",
			want:    true,
		},
		{
			name:    "case differs within matched characters",
			label:   "pump",
			pattern: "PUMP",
			want:    true,
		},
		{
			name:    "leading star allows arbitrary prefix",
			label:   "AHU01 Supply Temp",
			pattern: "*Temp",
			want:    true,
		},
		{
			name:    "trailing star allows arbitrary suffix",
			label:   "Lighting Circuit 1-4-7",
			pattern: "Lighting*",
			want:    true,
		},
		{
			name:    "star matches zero characters",
			label:   "Pump",
			pattern: "Pump*",
			want:    true,
		},
		{
			name:    "mixed wildcards",
			label:   "Boiler 2 Flow Temp",
			pattern: "Boiler ? Flow*",
			want:    true,
		},
		{
			name:    "regex metacharacters are literal",
			label:   "Pump (1) Status",
			pattern: "Pump (?) Status",
			want:    true,
		},
		{
			name:    "dot is literal not any-char",
			label:   "PumpX1",
			pattern: "Pump.1",
			want:    false,
		},
		{
			name:    "empty pattern always matches",
			label:   "anything",
			pattern: "",
			want:    true,
		},
		{
			name:    "whitespace-only pattern always matches",
			label:   "anything",
			pattern: "   \t",
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(tt.label, tt.pattern); got != tt.want {
				t.Errorf("Matches(%q, %q) = %v, want %v", tt.label, tt.pattern, got, tt.want)
			}
		})
	}
}

func TestMatchesQuestionMarkLength(t *testing.T) {
	// A pattern of N question marks matches only labels of length N.
	pattern := "?????"
	if !Matches("AHU01", pattern) {
		t.Errorf("expected %q to match a 5-character label", pattern)
	}
	if Matches("AHU1", pattern) {
		t.Errorf("did not expect %q to match a 4-character label", pattern)
	}
	if Matches("AHU001", pattern) {
		t.Errorf("did not expect %q to match a 6-character label", pattern)
	}
}

func TestMatchesIsReferentiallyTransparent(t *testing.T) {
	// Repeated calls with the same inputs must agree (the compiled
	// pattern cache must not change observable behavior).
	for i := 0; i < 3; i++ {
		if !Matches("Pump 1 Status", "*pump*") {
			t.Fatalf("call %d: expected match", i)
		}
		if Matches("Pump 1 Status", "pump") {
			t.Fatalf("call %d: unexpected match", i)
		}
	}
}
