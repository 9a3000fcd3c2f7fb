package textproc

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mikey/phishing-detector/internal/core"
)

// Extractor derives the fixed lexical feature set from a text. Pure; the
// suspicious keyword catalogue is fixed at construction.
type Extractor struct {
	suspiciousKeywords []string
}

// NewExtractor creates an extractor over the given keyword catalogue.
func NewExtractor(suspiciousKeywords []string) *Extractor {
	return &Extractor{suspiciousKeywords: suspiciousKeywords}
}

// Extract computes the lexical features. Suspicious keyword matching is
// case-insensitive substring presence: one hit per catalogue keyword no
// matter how often it repeats. CapitalRatio is uppercase runes over total
// runes, 0 for empty text.
func (e *Extractor) Extract(text string) core.LexicalFeatures {
	lower := strings.ToLower(text)

	suspicious := 0
	for _, kw := range e.suspiciousKeywords {
		if strings.Contains(lower, kw) {
			suspicious++
		}
	}

	total := utf8.RuneCountInString(text)
	upper := 0
	for _, r := range text {
		if unicode.IsUpper(r) {
			upper++
		}
	}
	ratio := 0.0
	if total > 0 {
		ratio = float64(upper) / float64(total)
	}

	return core.LexicalFeatures{
		Length:              total,
		WordCount:           len(strings.Fields(text)),
		CharCount:           total,
		SuspiciousWordCount: suspicious,
		URLCount:            len(urlPattern.FindAllString(text, -1)),
		EmailCount:          len(emailPattern.FindAllString(text, -1)),
		ExclamationCount:    strings.Count(text, "!"),
		CapitalRatio:        ratio,
	}
}
