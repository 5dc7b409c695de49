package security

import (
	"strings"
	"testing"
)

func TestMapFileStem(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "warehouse-east", "warehouse-east"},
		{"empty", "", "map"},
		{"traversal", "../../etc/passwd", "etc_passwd"},
		{"absolute", "/tmp/x", "tmp_x"},
		{"spaces collapse", "bay  3 / north", "bay_3_north"},
		{"dots", "v1.2", "v1_2"},
		{"only punctuation", "..//..", "map"},
		{"unicode", "küche", "k_che"},
		{"trims separators", "__lab--", "lab"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := MapFileStem(tc.in); got != tc.want {
				t.Errorf("MapFileStem(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestMapFileStem_Length(t *testing.T) {
	got := MapFileStem(strings.Repeat("a", 500))
	if len(got) != maxNameLen {
		t.Errorf("len = %d, want %d", len(got), maxNameLen)
	}
}
