// Package money extracts and formats the dollar amounts that drive
// rule-based classification overrides.
package money

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Patterns are tried in a fixed order: spelled-out billion/million first,
// then the $XB/$XM shorthand. The first match wins.
var patterns = []struct {
	expr       *regexp.Regexp
	multiplier float64
}{
	{regexp.MustCompile(`(?i)\$(\d+(?:\.\d+)?)\s*billion`), 1_000_000_000},
	{regexp.MustCompile(`(?i)\$(\d+(?:\.\d+)?)\s*million`), 1_000_000},
	{regexp.MustCompile(`(?i)\$(\d+(?:\.\d+)?)B`), 1_000_000_000},
	{regexp.MustCompile(`(?i)\$(\d+(?:\.\d+)?)M`), 1_000_000},
}

// ExtractAmount finds the first dollar amount mentioned in text and returns
// it in whole dollars.
func ExtractAmount(text string) (int64, bool) {
	for _, p := range patterns {
		match := p.expr.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		value, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			continue
		}
		return int64(value * p.multiplier), true
	}
	return 0, false
}

// FormatCompact renders an amount the way headlines do: $1.5B, $50M, $1,234.
func FormatCompact(amount int64) string {
	switch {
	case amount >= 1_000_000_000:
		return fmt.Sprintf("$%.1fB", float64(amount)/1_000_000_000)
	case amount >= 1_000_000:
		return fmt.Sprintf("$%.0fM", float64(amount)/1_000_000)
	default:
		return FormatGrouped(amount)
	}
}

// FormatGrouped renders the full amount with thousands separators,
// e.g. $40,000,000.
func FormatGrouped(amount int64) string {
	digits := strconv.FormatInt(amount, 10)

	negative := strings.HasPrefix(digits, "-")
	if negative {
		digits = digits[1:]
	}

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	if negative {
		return "-$" + b.String()
	}
	return "$" + b.String()
}
