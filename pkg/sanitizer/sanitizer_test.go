package sanitizer

import (
	"reflect"
	"testing"
)

func TestSanitizeCity(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "Mumbai", "Mumbai"},
		{"surrounding whitespace", "  New Delhi  ", "New Delhi"},
		{"internal whitespace run", "New    York", "New York"},
		{"digits and punctuation stripped", "Tel-Aviv 2", "TelAviv"},
		{"empty", "", ""},
		{"only punctuation", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeCity(tt.input); got != tt.expected {
				t.Errorf("SanitizeCity(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSanitizeIdentifierLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"spaces to underscores", "Free WiFi", "free_wifi"},
		{"mixed punctuation", "pool & spa!!", "pool_spa"},
		{"already clean", "parking", "parking"},
		{"leading trailing noise", "__gym__", "gym"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeIdentifierLabel(tt.input); got != tt.expected {
				t.Errorf("SanitizeIdentifierLabel(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSanitizeSlice_DropsEmptyAndDuplicates(t *testing.T) {
	got := SanitizeSlice([]string{"Free WiFi", "free   wifi", "", "Pool"}, SanitizeIdentifierLabel)
	want := []string{"free_wifi", "pool"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("SanitizeSlice() = %v, want %v", got, want)
	}
}

func TestTrimAndNormalize(t *testing.T) {
	if got := TrimAndNormalize("  quiet \t room\n near  elevator "); got != "quiet room near elevator" {
		t.Errorf("TrimAndNormalize() = %q", got)
	}
}
