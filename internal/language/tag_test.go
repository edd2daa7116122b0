package language

import "testing"

func TestTag(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"German", "de"},
		{"german", "de"},
		{"Deutsch", "de"},
		{"English", "en"},
		{"French", "fr"},
		{"Spanish", "es"},
		{"Bulgarian", "bg"},
		{"Japanese", "ja"},
		{"  German  ", "de"},
		{"Klingon", "en"},
		{"", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Tag(tt.name); got != tt.expected {
				t.Errorf("Tag(%q) = %q, want %q", tt.name, got, tt.expected)
			}
		})
	}
}
