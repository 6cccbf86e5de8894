// internal/util/util_test.go
package util

import (
	"testing"
)

func TestTruncateRunes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{name: "no truncation", in: "hello", max: 10, want: "hello"},
		{name: "ascii truncation", in: "helloworld", max: 5, want: "hello…"},
		{name: "multibyte truncation", in: "こんにちは世界", max: 4, want: "こんにち…"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateRunes(tt.in, tt.max); got != tt.want {
				t.Fatalf("TruncateRunes(%q,%d)=%q want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestTruncateToWidth(t *testing.T) {
	t.Parallel()

	in := "short\na much longer line that should be cut"
	got := TruncateToWidth(in, 10)
	want := "short\na much lon…"
	if got != want {
		t.Fatalf("TruncateToWidth=%q want %q", got, want)
	}
}
