package util

import "testing"

func TestTrimQuotes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"no quotes", "hello", "hello"},
		{"double quoted", `"hello"`, "hello"},
		{"single quotes only", "'hello'", "'hello'"},
		{"quotes in middle", `he"llo`, `he"llo`},
		{"only quotes", `""`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := TrimQuotes(tt.input)
			if result != tt.expected {
				t.Errorf("TrimQuotes(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"NCOLS", "ncols"},
		{"  cellsize ", "cellsize"},
		{"NODATA_value", "nodata_value"},
	}
	for _, tt := range tests {
		if got := NormalizeKey(tt.input); got != tt.expected {
			t.Errorf("NormalizeKey(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFields(t *testing.T) {
	got := Fields("ncols \t 120  ")
	if len(got) != 2 || got[0] != "ncols" || got[1] != "120" {
		t.Errorf("Fields returned %v", got)
	}
}
