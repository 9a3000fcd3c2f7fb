package di

import (
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/phishing-detector/internal/artifact"
	"github.com/mikey/phishing-detector/internal/config"
	"github.com/mikey/phishing-detector/internal/core"
	"github.com/mikey/phishing-detector/internal/factory"
	"github.com/mikey/phishing-detector/internal/heuristics"
	"github.com/mikey/phishing-detector/internal/logging"
	"github.com/mikey/phishing-detector/internal/ml"
	"github.com/mikey/phishing-detector/internal/textproc"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register cache factory
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}

	// Register cache repository
	if err := container.Provide(func(f *factory.CacheFactory) (core.CacheRepository, error) {
		return f.CreateCacheRepository()
	}); err != nil {
		return nil, err
	}

	// Register cache TTL and enabled flag
	if err := container.Provide(func(f *factory.CacheFactory) (time.Duration, error) {
		return f.GetCacheTTL()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.CacheFactory) bool {
		return f.IsCacheEnabled()
	}); err != nil {
		return nil, err
	}

	// Register text processing pipeline
	if err := container.Provide(func(logger *zap.Logger) core.Normalizer {
		return textproc.NewNormalizer(logger)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) core.TextFactory {
		return textproc.NewFactory(cfg.GetInt("model.vocabulary_size"), logger)
	}); err != nil {
		return nil, err
	}

	// Register heuristic analysis
	if err := container.Provide(func(normalizer core.Normalizer) core.AnalyzerFactory {
		return heuristics.NewFactory(normalizer)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(heuristics.DefaultConfig); err != nil {
		return nil, err
	}
	if err := container.Provide(func() core.AdviceGenerator {
		return heuristics.NewAdviser()
	}); err != nil {
		return nil, err
	}

	// Register ensemble trainer
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) core.EnsembleTrainer {
		return ml.NewTrainer(cfg.GetInt("model.cv_folds"), logger)
	}); err != nil {
		return nil, err
	}

	// Register artifact store
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) core.ArtifactStore {
		return artifact.NewFileStore(cfg.GetString("model.artifact_path"), logger)
	}); err != nil {
		return nil, err
	}

	// Register detector service
	if err := container.Provide(core.NewPhishingDetectorService); err != nil {
		return nil, err
	}

	return container, nil
}
