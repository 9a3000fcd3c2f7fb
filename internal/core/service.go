package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrNoTrainedModel is returned when prediction is attempted before an
	// artifact has been trained or loaded.
	ErrNoTrainedModel = errors.New("no trained model available")

	// ErrNoClassifierTrained is returned when every candidate classifier
	// failed during training.
	ErrNoClassifierTrained = errors.New("no classifier trained")

	// ErrEmptyCorpus is returned when training is attempted on no samples.
	ErrEmptyCorpus = errors.New("training corpus is empty")
)

// inferenceState groups the immutable pieces a prediction needs. The whole
// struct is swapped by reference when a new artifact is installed, so a
// running prediction never observes a partially updated artifact.
type inferenceState struct {
	artifact  *TrainedArtifact
	extractor FeatureExtractor
	analyzer  HeuristicAnalyzer
}

// PhishingDetectorService is the decision core: it owns the trained artifact
// slot, builds feature vectors identically at training and inference time,
// and merges classifier output with the heuristic analysis.
type PhishingDetectorService struct {
	normalizer   Normalizer
	textFactory  TextFactory
	analyzers    AnalyzerFactory
	trainer      EnsembleTrainer
	store        ArtifactStore
	cache        CacheRepository
	logger       *zap.Logger
	preprocCfg   PreprocessorConfig
	cacheEnabled bool
	cacheTTL     time.Duration

	mu    sync.RWMutex
	state *inferenceState

	// trainMu serializes training runs (single-writer discipline).
	trainMu sync.Mutex
}

// NewPhishingDetectorService creates the detector service. The cache and
// store may be nil; prediction then runs uncached and training does not
// persist its artifact.
func NewPhishingDetectorService(
	normalizer Normalizer,
	textFactory TextFactory,
	analyzers AnalyzerFactory,
	trainer EnsembleTrainer,
	store ArtifactStore,
	cache CacheRepository,
	logger *zap.Logger,
	preprocCfg PreprocessorConfig,
	cacheEnabled bool,
	cacheTTL time.Duration,
) *PhishingDetectorService {
	return &PhishingDetectorService{
		normalizer:   normalizer,
		textFactory:  textFactory,
		analyzers:    analyzers,
		trainer:      trainer,
		store:        store,
		cache:        cache,
		logger:       logger,
		preprocCfg:   preprocCfg,
		cacheEnabled: cacheEnabled && cache != nil,
		cacheTTL:     cacheTTL,
	}
}

// HasModel reports whether an artifact is installed for inference.
func (s *PhishingDetectorService) HasModel() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state != nil
}

// Artifact returns the currently installed artifact, or nil.
func (s *PhishingDetectorService) Artifact() *TrainedArtifact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return nil
	}
	return s.state.artifact
}

// install atomically replaces the inference state with one built from the
// given artifact.
func (s *PhishingDetectorService) install(artifact *TrainedArtifact) {
	state := &inferenceState{
		artifact:  artifact,
		extractor: s.textFactory.NewExtractor(artifact.Preprocessor),
		analyzer:  s.analyzers.NewAnalyzer(artifact.Preprocessor),
	}
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// combinedText builds the normalized subject+body text that both training
// and inference vectorize and extract lexical features from.
func (s *PhishingDetectorService) combinedText(subject, body string) string {
	return s.normalizer.Clean(subject) + " " + s.normalizer.Clean(body)
}

// Train fits a fresh vectorizer on the corpus, builds the combined feature
// matrix, runs the candidate ensemble and installs the winning classifier.
// The new artifact is persisted when a store is configured.
func (s *PhishingDetectorService) Train(ctx context.Context, corpus []LabeledEmail) (*TrainingSummary, error) {
	s.trainMu.Lock()
	defer s.trainMu.Unlock()

	if len(corpus) == 0 {
		return nil, ErrEmptyCorpus
	}

	texts := make([]string, len(corpus))
	for i, sample := range corpus {
		texts[i] = s.combinedText(sample.Subject, sample.Body)
	}

	vectorizer := s.textFactory.NewVectorizer()
	if err := vectorizer.Fit(texts); err != nil {
		return nil, fmt.Errorf("failed to fit vectorizer: %w", err)
	}
	extractor := s.textFactory.NewExtractor(s.preprocCfg)

	features := make([][]float64, len(corpus))
	labels := make([]int, len(corpus))
	for i, text := range texts {
		row, err := s.featureVector(vectorizer, extractor, text)
		if err != nil {
			return nil, fmt.Errorf("failed to vectorize training sample %d: %w", i, err)
		}
		features[i] = row
		labels[i] = corpus[i].Label
	}

	classifier, summary, err := s.trainer.Train(features, labels)
	if err != nil {
		return nil, err
	}
	summary.SampleCount = len(corpus)
	summary.FeatureWidth = vectorizer.Width() + NumLexicalFeatures

	artifact := &TrainedArtifact{
		ModelName:    classifier.Name(),
		Classifier:   classifier,
		Vectorizer:   vectorizer,
		Preprocessor: s.preprocCfg,
	}
	s.install(artifact)

	s.logger.Info("Trained new model",
		zap.String("run_id", summary.RunID),
		zap.String("best_model", summary.BestModel),
		zap.Float64("accuracy", summary.BestAccuracy),
		zap.Int("samples", summary.SampleCount),
		zap.Int("feature_width", summary.FeatureWidth))

	if s.store != nil {
		if err := s.store.Save(artifact); err != nil {
			return nil, fmt.Errorf("failed to persist trained artifact: %w", err)
		}
	}

	return summary, nil
}

// LoadArtifact restores a persisted artifact and installs it for inference.
// Missing or malformed bundles are surfaced to the caller unchanged.
func (s *PhishingDetectorService) LoadArtifact() error {
	if s.store == nil {
		return errors.New("no artifact store configured")
	}
	artifact, err := s.store.Load()
	if err != nil {
		return err
	}
	s.install(artifact)
	s.logger.Info("Loaded trained artifact", zap.String("model", artifact.ModelName))
	return nil
}

// SaveArtifact persists the currently installed artifact.
func (s *PhishingDetectorService) SaveArtifact() error {
	if s.store == nil {
		return errors.New("no artifact store configured")
	}
	artifact := s.Artifact()
	if artifact == nil {
		return ErrNoTrainedModel
	}
	return s.store.Save(artifact)
}

// Predict classifies one email and merges the classifier output with the
// heuristic analysis into a single report.
func (s *PhishingDetectorService) Predict(ctx context.Context, subject, body, sender string) (*AnalysisReport, error) {
	s.mu.RLock()
	state := s.state
	s.mu.RUnlock()
	if state == nil {
		return nil, ErrNoTrainedModel
	}

	key := cacheKey(subject, body, sender)
	if s.cacheEnabled {
		if entry, err := s.cache.Get(ctx, key); err == nil {
			var report AnalysisReport
			if err := json.Unmarshal(entry.Report, &report); err == nil {
				s.logger.Debug("Cache hit for analysis", zap.String("key", key))
				return &report, nil
			}
			s.logger.Warn("Discarding undecodable cache entry", zap.String("key", key))
		}
	}

	text := s.combinedText(subject, body)
	row, err := s.featureVector(state.artifact.Vectorizer, state.extractor, text)
	if err != nil {
		return nil, fmt.Errorf("failed to build feature vector: %w", err)
	}

	classifier := state.artifact.Classifier
	label := classifier.Predict(row)

	report := &AnalysisReport{
		IsPhishing:       label == 1,
		ModelUsed:        state.artifact.ModelName,
		HeuristicSignals: state.analyzer.Analyze(subject, body, sender),
	}
	if estimator, ok := classifier.(ProbabilityEstimator); ok {
		proba := estimator.PredictProba(row)
		report.Confidence = maxFloat(proba)
		if len(proba) > 1 {
			report.PhishingProbability = proba[1]
		}
	} else {
		// Deterministic fallback for classifiers without probability
		// support: fixed confidence, probability keyed off the label.
		report.Confidence = 0.8
		if label == 1 {
			report.PhishingProbability = 0.8
		} else {
			report.PhishingProbability = 0.2
		}
	}

	if s.cacheEnabled {
		if payload, err := json.Marshal(report); err == nil {
			now := time.Now()
			entry := &CacheEntry{
				Key:        key,
				Report:     payload,
				AnalyzedAt: now,
				ExpiresAt:  now.Add(s.cacheTTL),
			}
			if err := s.cache.Set(ctx, entry); err != nil {
				s.logger.Error("Failed to update cache", zap.Error(err))
			}
		}
	}

	return report, nil
}

// featureVector builds the combined feature row: the term-weight vector
// followed by the lexical features, always in that order.
func (s *PhishingDetectorService) featureVector(vectorizer Vectorizer, extractor FeatureExtractor, text string) ([]float64, error) {
	vec, err := vectorizer.Transform(text)
	if err != nil {
		return nil, err
	}
	lexical := extractor.Extract(text).Slice()
	row := make([]float64, 0, len(vec)+NumLexicalFeatures)
	row = append(row, vec...)
	row = append(row, lexical[:]...)
	return row, nil
}

func cacheKey(subject, body, sender string) string {
	h := sha256.New()
	h.Write([]byte(subject))
	h.Write([]byte{0})
	h.Write([]byte(body))
	h.Write([]byte{0})
	h.Write([]byte(sender))
	return hex.EncodeToString(h.Sum(nil))
}

func maxFloat(values []float64) float64 {
	best := 0.0
	for _, v := range values {
		if v > best {
			best = v
		}
	}
	return best
}
