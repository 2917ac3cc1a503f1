package textutil

import "testing"

func TestClean(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"  hello   world\n\ttabs  ", "hello world tabs"},
		{"", ""},
		{"single", "single"},
	}

	for _, tc := range cases {
		if got := Clean(tc.in); got != tc.want {
			t.Fatalf("Clean(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	if got := Truncate("abcdef", 3); got != "abc..." {
		t.Fatalf("Truncate = %q", got)
	}
	if got := Truncate("abc", 10); got != "abc" {
		t.Fatalf("short text must pass unchanged, got %q", got)
	}
}

func TestIsValidURL(t *testing.T) {
	t.Parallel()

	if !IsValidURL("https://example.org/a/b?c=1") {
		t.Fatal("expected valid URL")
	}
	if IsValidURL("ftp://example.org") {
		t.Fatal("non-http scheme must be invalid")
	}
	if IsValidURL("not a url") {
		t.Fatal("plain text must be invalid")
	}
}

func TestExtractDate(t *testing.T) {
	t.Parallel()

	if got := ExtractDate("published 2026-08-20 at noon"); got != "2026-08-20" {
		t.Fatalf("ExtractDate = %q", got)
	}
	if got := ExtractDate("posted 08/20/2026"); got != "2026-08-20" {
		t.Fatalf("ExtractDate slash form = %q", got)
	}
	if got := ExtractDate("no date here"); got != "" {
		t.Fatalf("ExtractDate = %q, want empty", got)
	}
}
