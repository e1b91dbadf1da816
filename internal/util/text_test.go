package util

import "testing"

func TestTruncate(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello world", 5, "hello..."},
		{"héllo wörld", 4, "héll..."},
		{"x", 0, ""},
	}
	for _, c := range cases {
		if got := Truncate(c.in, c.n); got != c.want {
			t.Fatalf("Truncate(%q,%d)=%q want %q", c.in, c.n, got, c.want)
		}
	}
}

func TestPreviewCollapsesWhitespace(t *testing.T) {
	if got := Preview("  line one\n\tline   two "); got != "line one line two" {
		t.Fatalf("unexpected preview %q", got)
	}
}
