package extractor

import "testing"

func TestNormalizePage_ControlCharacters(t *testing.T) {
	got := NormalizePage("foo\x00bar\x1fbaz")
	if got != "foo bar baz" {
		t.Errorf("expected %q, got %q", "foo bar baz", got)
	}
}

func TestNormalizePage_WhitespaceCollapse(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"a  b\t\tc", "a b c"},
		{"line one\nline two", "line one line two"},
		{"  padded  ", "padded"},
		{"\r\n\t", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizePage(tc.in); got != tc.want {
			t.Errorf("NormalizePage(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestNormalizePage_PreservesPunctuation(t *testing.T) {
	got := NormalizePage("One sentence.  Another!  A third?")
	if got != "One sentence. Another! A third?" {
		t.Errorf("got %q", got)
	}
}
