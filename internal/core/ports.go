package core

import (
	"context"
	"time"
)

// Classifier is a binary statistical classifier over combined feature vectors.
type Classifier interface {
	// Name identifies the classifier family (stable across restarts).
	Name() string

	// Fit trains on a feature matrix and 0/1 labels.
	Fit(features [][]float64, labels []int) error

	// Predict returns the 0/1 label for a single feature vector.
	Predict(features []float64) int

	// MarshalState serializes the fitted parameters for the artifact bundle.
	MarshalState() ([]byte, error)
}

// ProbabilityEstimator is implemented by classifiers that can produce a
// class probability distribution in class order [P(0), P(1)].
type ProbabilityEstimator interface {
	PredictProba(features []float64) []float64
}

// Vectorizer converts normalized text into fixed-width term-weight vectors.
type Vectorizer interface {
	// Fit builds the bounded vocabulary from a corpus of normalized text.
	Fit(corpus []string) error

	// Transform maps one normalized text to a dense vector of Width()
	// elements. Calling Transform before Fit is an error; a fit over a
	// degenerate corpus degrades to zero vectors instead of failing.
	Transform(text string) ([]float64, error)

	// Width is the constant vector width (the vocabulary cap).
	Width() int

	// MarshalState serializes the fitted vocabulary for the artifact bundle.
	MarshalState() ([]byte, error)
}

// Normalizer performs deterministic text cleanup and tokenization.
type Normalizer interface {
	// Clean lower-cases and strips URLs, addresses, markup, punctuation and
	// digits, collapsing whitespace. Never fails; empty input yields "".
	Clean(text string) string

	// TokenizeAndStem splits cleaned text into tokens, removes stop-words
	// and stems each remaining token. Falls back to plain tokenization when
	// the stemmer is unavailable.
	TokenizeAndStem(text string) string
}

// FeatureExtractor derives the fixed lexical feature set from a text.
type FeatureExtractor interface {
	Extract(text string) LexicalFeatures
}

// HeuristicAnalyzer produces the rule-based report fields for one email.
type HeuristicAnalyzer interface {
	Analyze(subject, body, sender string) HeuristicSignals
}

// AdviceGenerator maps a report to an ordered list of recommendations.
type AdviceGenerator interface {
	Advise(report *AnalysisReport) []string
}

// EnsembleTrainer cross-validates the candidate classifiers on a feature
// matrix, fits them on the full corpus and returns the selected one.
type EnsembleTrainer interface {
	Train(features [][]float64, labels []int) (Classifier, *TrainingSummary, error)
}

// TextFactory builds the per-artifact text pipeline components.
type TextFactory interface {
	NewVectorizer() Vectorizer
	NewExtractor(cfg PreprocessorConfig) FeatureExtractor
}

// AnalyzerFactory builds a heuristic analyzer from preprocessor catalogues.
type AnalyzerFactory interface {
	NewAnalyzer(cfg PreprocessorConfig) HeuristicAnalyzer
}

// ArtifactStore persists and restores a trained artifact as one atomic bundle.
type ArtifactStore interface {
	Save(artifact *TrainedArtifact) error
	Load() (*TrainedArtifact, error)
}

// CacheEntry is a cached analysis report keyed by email content hash.
type CacheEntry struct {
	Key        string
	Report     []byte
	AnalyzedAt time.Time
	ExpiresAt  time.Time
}

// CacheRepository caches serialized analysis reports.
type CacheRepository interface {
	// Get retrieves a cached entry by content key.
	Get(ctx context.Context, key string) (*CacheEntry, error)

	// Set stores a cache entry.
	Set(ctx context.Context, entry *CacheEntry) error

	// Delete removes a cache entry.
	Delete(ctx context.Context, key string) error

	// Cleanup removes expired entries.
	Cleanup(ctx context.Context) error
}
