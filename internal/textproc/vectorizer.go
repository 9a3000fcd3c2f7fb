package textproc

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// DefaultVocabularySize is the default vocabulary cap (vector width).
const DefaultVocabularySize = 100

// ErrNotFitted is returned when Transform is called before Fit.
var ErrNotFitted = errors.New("vectorizer used before fit")

// TfidfVectorizer converts normalized text into fixed-width term-weight
// vectors: raw term frequency scaled by smoothed inverse document frequency,
// L2-normalized per document. The vocabulary is capped at the configured
// width, keeping the highest-frequency corpus terms, ties broken
// alphabetically so fits are deterministic.
type TfidfVectorizer struct {
	width  int
	vocab  map[string]int
	idf    []float64
	fitted bool
	logger *zap.Logger
}

// NewTfidfVectorizer creates a vectorizer with the given vocabulary cap.
func NewTfidfVectorizer(width int, logger *zap.Logger) *TfidfVectorizer {
	if width <= 0 {
		width = DefaultVocabularySize
	}
	return &TfidfVectorizer{width: width, logger: logger}
}

// Fit builds the bounded vocabulary and IDF weights from the corpus,
// ignoring stop-words. A degenerate corpus (empty, or all stop-words) is not
// an error: the vocabulary stays empty and Transform degrades to zero
// vectors so callers can proceed on heuristic signal alone.
func (v *TfidfVectorizer) Fit(corpus []string) error {
	totalFreq := make(map[string]int)
	docFreq := make(map[string]int)
	for _, doc := range corpus {
		seen := make(map[string]bool)
		for _, term := range terms(doc) {
			totalFreq[term]++
			if !seen[term] {
				seen[term] = true
				docFreq[term]++
			}
		}
	}

	ranked := make([]string, 0, len(totalFreq))
	for term := range totalFreq {
		ranked = append(ranked, term)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if totalFreq[ranked[i]] != totalFreq[ranked[j]] {
			return totalFreq[ranked[i]] > totalFreq[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})
	if len(ranked) > v.width {
		ranked = ranked[:v.width]
	}
	// Stable index assignment: alphabetical within the selected terms.
	sort.Strings(ranked)

	v.vocab = make(map[string]int, len(ranked))
	v.idf = make([]float64, len(ranked))
	n := float64(len(corpus))
	for i, term := range ranked {
		v.vocab[term] = i
		v.idf[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}
	v.fitted = true

	if len(v.vocab) == 0 {
		v.logger.Warn("Fitted on degenerate corpus, transforms degrade to zero vectors",
			zap.Int("corpus_size", len(corpus)))
	}
	return nil
}

// Transform maps one normalized text onto the fitted vocabulary. Terms
// outside the vocabulary are ignored; an empty vocabulary yields the zero
// vector. Transform before Fit is an error.
func (v *TfidfVectorizer) Transform(text string) ([]float64, error) {
	if !v.fitted {
		return nil, ErrNotFitted
	}
	vec := make([]float64, v.width)
	if len(v.vocab) == 0 {
		return vec, nil
	}

	counts := make(map[string]int)
	for _, term := range terms(text) {
		counts[term]++
	}
	for term, count := range counts {
		if i, ok := v.vocab[term]; ok {
			vec[i] = float64(count) * v.idf[i]
		}
	}

	var sumSq float64
	for _, x := range vec {
		sumSq += x * x
	}
	if sumSq > 0 {
		norm := math.Sqrt(sumSq)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec, nil
}

// Width returns the constant vector width.
func (v *TfidfVectorizer) Width() int {
	return v.width
}

type vectorizerState struct {
	Width      int            `json:"width"`
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
}

// MarshalState serializes the fitted vocabulary and IDF weights.
func (v *TfidfVectorizer) MarshalState() ([]byte, error) {
	if !v.fitted {
		return nil, ErrNotFitted
	}
	return json.Marshal(vectorizerState{
		Width:      v.width,
		Vocabulary: v.vocab,
		IDF:        v.idf,
	})
}

// RestoreVectorizer rebuilds a fitted vectorizer from marshaled state.
func RestoreVectorizer(data []byte, logger *zap.Logger) (*TfidfVectorizer, error) {
	var state vectorizerState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to decode vectorizer state: %w", err)
	}
	if state.Width <= 0 {
		return nil, fmt.Errorf("invalid vectorizer width: %d", state.Width)
	}
	for term, i := range state.Vocabulary {
		if i < 0 || i >= len(state.IDF) {
			return nil, fmt.Errorf("vocabulary index out of range for term %q: %d", term, i)
		}
	}
	return &TfidfVectorizer{
		width:  state.Width,
		vocab:  state.Vocabulary,
		idf:    state.IDF,
		fitted: true,
		logger: logger,
	}, nil
}

// terms tokenizes normalized text for vocabulary purposes: whitespace
// split, stop-words removed, single characters skipped.
func terms(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 || IsStopWord(f) {
			continue
		}
		out = append(out, f)
	}
	return out
}
