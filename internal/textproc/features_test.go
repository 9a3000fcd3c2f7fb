package textproc

import (
	"math"
	"testing"
)

func TestExtractCounts(t *testing.T) {
	e := NewExtractor([]string{"urgent", "free", "verify"})

	text := "URGENT! Verify now at http://evil.example or mail help@evil.example"
	got := e.Extract(text)

	if got.SuspiciousWordCount != 2 {
		t.Errorf("SuspiciousWordCount = %d, want 2 (urgent, verify)", got.SuspiciousWordCount)
	}
	if got.URLCount != 1 {
		t.Errorf("URLCount = %d, want 1", got.URLCount)
	}
	if got.EmailCount != 1 {
		t.Errorf("EmailCount = %d, want 1", got.EmailCount)
	}
	if got.ExclamationCount != 1 {
		t.Errorf("ExclamationCount = %d, want 1", got.ExclamationCount)
	}
	if got.WordCount != 8 {
		t.Errorf("WordCount = %d, want 8", got.WordCount)
	}
	if got.Length != got.CharCount {
		t.Errorf("Length = %d, CharCount = %d, want equal", got.Length, got.CharCount)
	}
}

func TestExtractCountsKeywordOncePerCatalogueEntry(t *testing.T) {
	e := NewExtractor([]string{"free"})

	got := e.Extract("free free FREE free")
	if got.SuspiciousWordCount != 1 {
		t.Errorf("SuspiciousWordCount = %d, want 1 for repeated keyword", got.SuspiciousWordCount)
	}
}

func TestExtractCapitalRatio(t *testing.T) {
	e := NewExtractor(nil)

	tests := []struct {
		text string
		want float64
	}{
		{"ABCD", 1.0},
		{"abcd", 0.0},
		{"AbCd", 0.5},
		{"", 0.0},
	}
	for _, tt := range tests {
		got := e.Extract(tt.text).CapitalRatio
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("CapitalRatio(%q) = %f, want %f", tt.text, got, tt.want)
		}
	}
}

func TestExtractEmptyText(t *testing.T) {
	e := NewExtractor([]string{"urgent"})

	got := e.Extract("")
	if got.Length != 0 || got.WordCount != 0 || got.SuspiciousWordCount != 0 ||
		got.URLCount != 0 || got.EmailCount != 0 || got.ExclamationCount != 0 ||
		got.CapitalRatio != 0 {
		t.Errorf("Extract(\"\") = %+v, want all zero", got)
	}
}
