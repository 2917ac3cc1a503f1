// Package langdetect tags feed items with a coarse language code so the
// pipeline can reject items it cannot judge.
package langdetect

import (
	"strings"
	"sync"
	"unicode"

	lingua "github.com/pemistahl/lingua-go"

	"newstriage/internal/ports"
)

// minLetters guards against detecting on ticker symbols and bare numbers.
const minLetters = 6

// Detector wraps lingua behind the LanguageDetector port. The underlying
// model set is expensive to build, so construction is deferred until the
// first detection.
type Detector struct {
	once  sync.Once
	inner lingua.LanguageDetector
}

var _ ports.LanguageDetector = (*Detector)(nil)

// New returns an empty detector; models load lazily.
func New() *Detector {
	return &Detector{}
}

// DetectISO6391 returns the two-letter code of the detected language, or ""
// when the sample is too short or detection is inconclusive.
func (d *Detector) DetectISO6391(text string) string {
	sample := strings.TrimSpace(text)
	if sample == "" {
		return ""
	}

	letters := 0
	for _, r := range sample {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if letters < minLetters {
		return ""
	}

	language, exists := d.detector().DetectLanguageOf(sample)
	if !exists {
		return ""
	}

	code := strings.ToLower(language.IsoCode639_1().String())
	if len(code) != 2 {
		return ""
	}
	return code
}

func (d *Detector) detector() lingua.LanguageDetector {
	d.once.Do(func() {
		d.inner = lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			Build()
	})
	return d.inner
}
