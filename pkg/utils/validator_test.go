package utils

import "testing"

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"", true},
		{"   ", true},
		{"\t\n", true},
		{"hello", false},
		{" hello ", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := IsEmpty(tt.input)
			if result != tt.expected {
				t.Errorf("expected %t, got %t", tt.expected, result)
			}
		})
	}
}

func TestDefaultIfEmpty(t *testing.T) {
	tests := []struct {
		input    string
		fallback string
		expected string
	}{
		{"", "unnamed-event", "unnamed-event"},
		{"  ", "unnamed-event", "unnamed-event"},
		{"dog_bark", "unnamed-event", "dog_bark"},
		{" door ", "x", "door"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if result := DefaultIfEmpty(tt.input, tt.fallback); result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}
