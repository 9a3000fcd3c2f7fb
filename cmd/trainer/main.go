package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/phishing-detector/internal/artifact"
	"github.com/mikey/phishing-detector/internal/core"
	"github.com/mikey/phishing-detector/internal/dataset"
	"github.com/mikey/phishing-detector/internal/heuristics"
	"github.com/mikey/phishing-detector/internal/logging"
	"github.com/mikey/phishing-detector/internal/ml"
	"github.com/mikey/phishing-detector/internal/textproc"
)

var (
	dataFile     = flag.String("file", "", "Training dataset CSV (uses the built-in sample corpus if not specified)")
	artifactPath = flag.String("artifact", "phishing_model.json", "Output path for the trained model artifact")
	vocabSize    = flag.Int("vocab-size", textproc.DefaultVocabularySize, "Vocabulary cap for the term-weight vectorizer")
	cvFolds      = flag.Int("folds", ml.DefaultCVFolds, "Cross-validation fold count")
	verbose      = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog      = flag.Bool("json-log", false, "Output logs in JSON format")
)

func main() {
	flag.Parse()

	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Load the training corpus
	var corpus []core.LabeledEmail
	if *dataFile != "" {
		corpus, err = dataset.LoadCSV(*dataFile)
		if err != nil {
			logger.Fatal("Failed to load training dataset", zap.Error(err), zap.String("file", *dataFile))
		}
		logger.Info("Loaded training dataset", zap.String("file", *dataFile), zap.Int("samples", len(corpus)))
	} else {
		corpus = dataset.SampleCorpus()
		logger.Info("Using built-in sample corpus", zap.Int("samples", len(corpus)))
	}

	// Wire the training pipeline explicitly; the trainer has no use for the
	// caching layer the analyzer CLI carries
	normalizer := textproc.NewNormalizer(logger)
	textFactory := textproc.NewFactory(*vocabSize, logger)
	analyzers := heuristics.NewFactory(normalizer)
	trainer := ml.NewTrainer(*cvFolds, logger)
	store := artifact.NewFileStore(*artifactPath, logger)

	service := core.NewPhishingDetectorService(
		normalizer,
		textFactory,
		analyzers,
		trainer,
		store,
		nil,
		logger,
		heuristics.DefaultConfig(),
		false,
		0,
	)

	startTime := time.Now()
	summary, err := service.Train(context.Background(), corpus)
	if err != nil {
		logger.Fatal("Training failed", zap.Error(err))
	}
	duration := time.Since(startTime)

	// Print results
	fmt.Printf("\n=== Training Results ===\n")
	fmt.Printf("Run ID: %s\n", summary.RunID)
	fmt.Printf("Samples: %d\n", summary.SampleCount)
	fmt.Printf("Feature width: %d\n", summary.FeatureWidth)
	fmt.Printf("Folds: %d\n", *cvFolds)
	fmt.Printf("\n=== Cross-Validation Accuracy ===\n")
	names := make([]string, 0, len(summary.Accuracies))
	for name := range summary.Accuracies {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%s: %.4f\n", name, summary.Accuracies[name])
	}
	fmt.Printf("\n=== Selected Model ===\n")
	fmt.Printf("Model: %s\n", summary.BestModel)
	fmt.Printf("Accuracy: %.4f\n", summary.BestAccuracy)
	fmt.Printf("Artifact: %s\n", *artifactPath)
	fmt.Printf("Training time: %v\n", duration)
}
