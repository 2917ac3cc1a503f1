package money

import "testing"

func TestExtractAmount(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		text string
		want int64
		ok   bool
	}{
		{name: "spelled out million", text: "Startup raises $40 million in Series B", want: 40_000_000, ok: true},
		{name: "spelled out billion", text: "A $1.5 billion valuation", want: 1_500_000_000, ok: true},
		{name: "shorthand M", text: "closes $75M round", want: 75_000_000, ok: true},
		{name: "shorthand B", text: "a $2B fund", want: 2_000_000_000, ok: true},
		{name: "case insensitive", text: "raised $10 MILLION", want: 10_000_000, ok: true},
		{name: "no amount", text: "no funding news here", ok: false},
		{name: "plain dollars ignored", text: "tickets cost $500", ok: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ExtractAmount(tc.text)
			if ok != tc.ok {
				t.Fatalf("ExtractAmount(%q) ok = %v, want %v", tc.text, ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Fatalf("ExtractAmount(%q) = %d, want %d", tc.text, got, tc.want)
			}
		})
	}
}

func TestExtractAmountPatternOrder(t *testing.T) {
	t.Parallel()

	// The spelled-out billion pattern wins even when a $XM shorthand
	// appears earlier in the text.
	got, ok := ExtractAmount("after a $5M seed, the company raised $3 billion")
	if !ok {
		t.Fatal("expected a match")
	}
	if got != 3_000_000_000 {
		t.Fatalf("expected billion pattern to win, got %d", got)
	}
}

func TestFormatCompact(t *testing.T) {
	t.Parallel()

	cases := []struct {
		amount int64
		want   string
	}{
		{1_500_000_000, "$1.5B"},
		{50_000_000, "$50M"},
		{1_234, "$1,234"},
		{999, "$999"},
	}

	for _, tc := range cases {
		if got := FormatCompact(tc.amount); got != tc.want {
			t.Fatalf("FormatCompact(%d) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}

func TestFormatGrouped(t *testing.T) {
	t.Parallel()

	cases := []struct {
		amount int64
		want   string
	}{
		{40_000_000, "$40,000,000"},
		{1_000, "$1,000"},
		{999, "$999"},
		{0, "$0"},
	}

	for _, tc := range cases {
		if got := FormatGrouped(tc.amount); got != tc.want {
			t.Fatalf("FormatGrouped(%d) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}
