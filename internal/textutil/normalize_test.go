// file: internal/textutil/normalize_test.go
// version: 1.0.0
// guid: 5b7c9d1e-3f5a-4b6c-8d0e-2f4a6b8c0d2e

package textutil

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", "  \t \n ", ""},
		{"lowercases", "Crime And Punishment", "crime and punishment"},
		{"trims", "  war and peace  ", "war and peace"},
		{"collapses runs", "the \t brothers   karamazov", "the brothers karamazov"},
		{"already clean", "middlemarch", "middlemarch"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFold(t *testing.T) {
	if got := Fold("Brontë"); got != "bronte" {
		t.Errorf("Fold(Brontë) = %q, want %q", got, "bronte")
	}
	if got := Fold("  García Márquez "); got != "garcia marquez" {
		t.Errorf("Fold = %q, want %q", got, "garcia marquez")
	}
}
