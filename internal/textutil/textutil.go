// Package textutil holds small text-normalization helpers shared by the
// fetch and research adapters.
package textutil

import (
	"regexp"
	"strings"
	"time"
)

var (
	whitespaceExpr = regexp.MustCompile(`\s+`)
	urlExpr        = regexp.MustCompile(`^https?://[^\s<>"{}|\\^` + "`" + `\[\]]+$`)
	isoDateExpr    = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	slashDateExpr  = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)
)

// Clean collapses runs of whitespace and trims the result.
func Clean(text string) string {
	if text == "" {
		return ""
	}
	return strings.TrimSpace(whitespaceExpr.ReplaceAllString(text, " "))
}

// Truncate cuts text to max runes, appending an ellipsis when it had to.
func Truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}

// IsValidURL reports whether s looks like an absolute http(s) URL.
func IsValidURL(s string) bool {
	return urlExpr.MatchString(s)
}

// ExtractDate finds the first date in text and returns it as YYYY-MM-DD.
// ISO dates are preferred; MM/DD/YYYY is accepted as a fallback.
func ExtractDate(text string) string {
	if match := isoDateExpr.FindString(text); match != "" {
		return match
	}

	if match := slashDateExpr.FindString(text); match != "" {
		if parsed, err := time.Parse("01/02/2006", match); err == nil {
			return parsed.Format("2006-01-02")
		}
	}

	return ""
}
