// internal/util/util_test.go
package util

import "testing"

func TestCollapse(t *testing.T) {
	t.Parallel()

	if got := Collapse("SELECT *\n  FROM orders\n\tWHERE id = 1"); got != "SELECT * FROM orders WHERE id = 1" {
		t.Fatalf("Collapse = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{name: "no truncation", in: "hello", max: 10, want: "hello"},
		{name: "exact fit", in: "hello", max: 5, want: "hello"},
		{name: "ascii truncation", in: "helloworld", max: 5, want: "hell…"},
		{name: "multibyte truncation", in: "こんにちは世界", max: 4, want: "こんに…"},
		{name: "zero width", in: "hello", max: 0, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Truncate(tt.in, tt.max); got != tt.want {
				t.Fatalf("Truncate(%q,%d)=%q want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{name: "wrap words", text: "one two three four", width: 10, want: "one two\nthree four"},
		{name: "split long word", text: "abcdefghij xy", width: 4, want: "abcd\nefgh\nij\nxy"},
		{name: "collapses newlines", text: "SELECT a\nFROM t", width: 40, want: "SELECT a FROM t"},
		{name: "no width", text: "as is", width: 0, want: "as is"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Wrap(tt.text, tt.width); got != tt.want {
				t.Fatalf("Wrap(%q,%d)=\n%s\nwant\n%s", tt.text, tt.width, got, tt.want)
			}
		})
	}
}
