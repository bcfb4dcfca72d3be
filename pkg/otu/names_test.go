package otu

import "testing"

func TestUnOrfmName(t *testing.T) {

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"FullDecoration", "read1_1_2_3", "read1"},
		{"NoDecoration", "read1", "read1"},
		{"PartialDecoration", "read1_2", "read1_2"},
		{"TwoNumbers", "read1_2_3", "read1_2_3"},
		{"NonNumericSuffix", "read1_a_b_c", "read1_a_b_c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UnOrfmName(tt.input); got != tt.expected {
				t.Errorf("UnOrfmName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestStripFrameSuffix(t *testing.T) {

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"FrameSuffix", "read1_2", "read1"},
		{"NoSuffix", "read1", "read1"},
		{"NonNumeric", "read1_x", "read1_x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripFrameSuffix(tt.input); got != tt.expected {
				t.Errorf("StripFrameSuffix(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCanonicalReadName(t *testing.T) {

	// The jplace names carry the OrfM decoration and sometimes an extra
	// frame suffix; both must come off.
	if got := CanonicalReadName("read1_1_2_3"); got != "read1" {
		t.Errorf("CanonicalReadName = %q, want read1", got)
	}
	if got := CanonicalReadName("read1_2"); got != "read1" {
		t.Errorf("CanonicalReadName = %q, want read1", got)
	}
}
