package textproc

import (
	"go.uber.org/zap"

	"github.com/mikey/phishing-detector/internal/core"
)

// Factory builds the per-artifact text pipeline components with a fixed
// vocabulary cap. Implements core.TextFactory.
type Factory struct {
	vocabularySize int
	logger         *zap.Logger
}

// NewFactory creates a text component factory.
func NewFactory(vocabularySize int, logger *zap.Logger) *Factory {
	if vocabularySize <= 0 {
		vocabularySize = DefaultVocabularySize
	}
	return &Factory{vocabularySize: vocabularySize, logger: logger}
}

// NewVectorizer creates an unfitted vectorizer at the configured width.
func (f *Factory) NewVectorizer() core.Vectorizer {
	return NewTfidfVectorizer(f.vocabularySize, f.logger)
}

// NewExtractor creates a lexical feature extractor over the catalogue
// carried by the preprocessor configuration.
func (f *Factory) NewExtractor(cfg core.PreprocessorConfig) core.FeatureExtractor {
	return NewExtractor(cfg.SuspiciousKeywords)
}
