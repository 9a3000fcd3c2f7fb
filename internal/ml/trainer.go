package ml

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mikey/phishing-detector/internal/core"
)

// DefaultCVFolds is the default cross-validation fold count.
const DefaultCVFolds = 3

// candidate builds a fresh classifier instance for one family. A new
// instance is built per fold and for the final full-corpus fit so no state
// leaks between evaluations.
type candidate struct {
	name  string
	build func() core.Classifier
}

// Trainer cross-validates the candidate families and selects the most
// accurate one. Candidates are evaluated in a fixed order; a strict
// improvement is required to displace the incumbent, so accuracy ties
// resolve to the earlier family. Implements core.EnsembleTrainer.
type Trainer struct {
	folds      int
	candidates []candidate
	logger     *zap.Logger
}

// NewTrainer creates a trainer over the three default classifier families.
func NewTrainer(folds int, logger *zap.Logger) *Trainer {
	if folds < 2 {
		folds = DefaultCVFolds
	}
	return &Trainer{
		folds:  folds,
		logger: logger,
		candidates: []candidate{
			{"random_forest", func() core.Classifier { return NewRandomForest() }},
			{"logistic_regression", func() core.Classifier { return NewLogisticRegression() }},
			{"naive_bayes", func() core.Classifier { return NewNaiveBayes() }},
		},
	}
}

// Train evaluates every candidate with cross-validation, refits the winner
// on the full corpus and returns it with a run summary. A candidate that
// fails any fit is logged and excluded; if all candidates fail the run
// fails with core.ErrNoClassifierTrained.
func (t *Trainer) Train(features [][]float64, labels []int) (core.Classifier, *core.TrainingSummary, error) {
	if len(features) == 0 || len(features) != len(labels) {
		return nil, nil, fmt.Errorf("invalid training set: %d rows, %d labels", len(features), len(labels))
	}

	summary := &core.TrainingSummary{
		RunID:        uuid.New().String(),
		Accuracies:   make(map[string]float64),
		SampleCount:  len(features),
		FeatureWidth: len(features[0]),
	}

	var best *candidate
	bestAcc := -1.0
	for i := range t.candidates {
		c := &t.candidates[i]
		acc, err := t.crossValidate(c, features, labels)
		if err != nil {
			t.logger.Warn("excluding classifier from selection",
				zap.String("model", c.name),
				zap.Error(err))
			continue
		}
		summary.Accuracies[c.name] = acc
		t.logger.Info("cross-validated classifier",
			zap.String("model", c.name),
			zap.Float64("accuracy", acc),
			zap.Int("folds", t.folds))
		if acc > bestAcc {
			best = c
			bestAcc = acc
		}
	}
	if best == nil {
		return nil, nil, core.ErrNoClassifierTrained
	}

	selected := best.build()
	if err := selected.Fit(features, labels); err != nil {
		return nil, nil, fmt.Errorf("failed to fit selected model %s on full corpus: %w", best.name, err)
	}

	summary.BestModel = best.name
	summary.BestAccuracy = bestAcc
	t.logger.Info("selected classifier",
		zap.String("run_id", summary.RunID),
		zap.String("model", summary.BestModel),
		zap.Float64("accuracy", summary.BestAccuracy))
	return selected, summary, nil
}

// crossValidate returns the mean held-out accuracy over round-robin folds.
// Row i always lands in fold i modulo the fold count, keeping fold
// membership independent of candidate order and run history.
func (t *Trainer) crossValidate(c *candidate, features [][]float64, labels []int) (float64, error) {
	folds := t.folds
	if folds > len(features) {
		folds = len(features)
	}

	correct, evaluated := 0, 0
	for fold := 0; fold < folds; fold++ {
		var trainX, testX [][]float64
		var trainY, testY []int
		for i := range features {
			if i%folds == fold {
				testX = append(testX, features[i])
				testY = append(testY, labels[i])
			} else {
				trainX = append(trainX, features[i])
				trainY = append(trainY, labels[i])
			}
		}

		model := c.build()
		if err := model.Fit(trainX, trainY); err != nil {
			return 0, fmt.Errorf("fold %d: %w", fold, err)
		}
		for i, row := range testX {
			if model.Predict(row) == testY[i] {
				correct++
			}
			evaluated++
		}
	}
	if evaluated == 0 {
		return 0, fmt.Errorf("no held-out samples to evaluate")
	}
	return float64(correct) / float64(evaluated), nil
}
