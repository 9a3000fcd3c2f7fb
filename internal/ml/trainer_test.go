package ml

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/mikey/phishing-detector/internal/core"
)

// separableSet builds a trivially separable training set: class 1 rows have
// a large first feature, class 0 rows a small one.
func separableSet(n int) ([][]float64, []int) {
	features := make([][]float64, n)
	labels := make([]int, n)
	for i := range features {
		if i%2 == 0 {
			features[i] = []float64{0.9 + 0.01*float64(i%5), 0.1, 0.2}
			labels[i] = 1
		} else {
			features[i] = []float64{0.05 + 0.01*float64(i%5), 0.8, 0.1}
			labels[i] = 0
		}
	}
	return features, labels
}

func TestTrainSelectsWorkingModel(t *testing.T) {
	trainer := NewTrainer(3, zap.NewNop())
	features, labels := separableSet(30)

	classifier, summary, err := trainer.Train(features, labels)
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	if classifier == nil {
		t.Fatal("Train returned nil classifier")
	}
	if summary.BestModel != classifier.Name() {
		t.Errorf("summary.BestModel = %s, classifier name = %s", summary.BestModel, classifier.Name())
	}
	if summary.BestAccuracy < 0.8 {
		t.Errorf("BestAccuracy = %f, want >= 0.8 on separable data", summary.BestAccuracy)
	}
	if summary.RunID == "" {
		t.Error("summary.RunID is empty")
	}
	if len(summary.Accuracies) != 3 {
		t.Errorf("Accuracies has %d entries, want 3", len(summary.Accuracies))
	}

	if got := classifier.Predict([]float64{0.95, 0.1, 0.2}); got != 1 {
		t.Errorf("Predict(high signal) = %d, want 1", got)
	}
	if got := classifier.Predict([]float64{0.02, 0.8, 0.1}); got != 0 {
		t.Errorf("Predict(low signal) = %d, want 0", got)
	}
}

// stubClassifier predicts a constant label, giving every stub with the same
// label identical cross-validation accuracy.
type stubClassifier struct {
	name   string
	fitErr error
	label  int
}

func (s *stubClassifier) Name() string                  { return s.name }
func (s *stubClassifier) Fit([][]float64, []int) error  { return s.fitErr }
func (s *stubClassifier) Predict([]float64) int         { return s.label }
func (s *stubClassifier) MarshalState() ([]byte, error) { return []byte("{}"), nil }

func stubCandidate(name string, fitErr error, label int) candidate {
	return candidate{
		name:  name,
		build: func() core.Classifier { return &stubClassifier{name: name, fitErr: fitErr, label: label} },
	}
}

func TestTrainTieBreaksToFirstCandidate(t *testing.T) {
	trainer := &Trainer{
		folds:  3,
		logger: zap.NewNop(),
		candidates: []candidate{
			stubCandidate("first", nil, 1),
			stubCandidate("second", nil, 1),
		},
	}
	features, labels := separableSet(12)

	_, summary, err := trainer.Train(features, labels)
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	if summary.BestModel != "first" {
		t.Errorf("BestModel = %s, want first on accuracy tie", summary.BestModel)
	}
}

func TestTrainExcludesFailingCandidate(t *testing.T) {
	trainer := &Trainer{
		folds:  3,
		logger: zap.NewNop(),
		candidates: []candidate{
			stubCandidate("broken", fmt.Errorf("fit exploded"), 1),
			stubCandidate("working", nil, 1),
		},
	}
	features, labels := separableSet(12)

	_, summary, err := trainer.Train(features, labels)
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	if summary.BestModel != "working" {
		t.Errorf("BestModel = %s, want working", summary.BestModel)
	}
	if _, ok := summary.Accuracies["broken"]; ok {
		t.Error("failing candidate should not appear in Accuracies")
	}
}

func TestTrainFailsWhenAllCandidatesFail(t *testing.T) {
	trainer := &Trainer{
		folds:  3,
		logger: zap.NewNop(),
		candidates: []candidate{
			stubCandidate("a", fmt.Errorf("boom"), 1),
			stubCandidate("b", fmt.Errorf("boom"), 1),
		},
	}
	features, labels := separableSet(12)

	_, _, err := trainer.Train(features, labels)
	if !errors.Is(err, core.ErrNoClassifierTrained) {
		t.Errorf("Train returned %v, want ErrNoClassifierTrained", err)
	}
}

func TestNaiveBayesRejectsNegativeFeatures(t *testing.T) {
	nb := NewNaiveBayes()
	err := nb.Fit([][]float64{{1, -0.5}, {0.2, 0.3}}, []int{1, 0})
	if !errors.Is(err, ErrNegativeFeature) {
		t.Errorf("Fit returned %v, want ErrNegativeFeature", err)
	}
}

func TestRandomForestIsDeterministic(t *testing.T) {
	features, labels := separableSet(20)

	a := NewRandomForest()
	b := NewRandomForest()
	if err := a.Fit(features, labels); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if err := b.Fit(features, labels); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	sa, _ := a.MarshalState()
	sb, _ := b.MarshalState()
	if !bytes.Equal(sa, sb) {
		t.Error("two fits on identical data produced different forests")
	}
}

func TestPredictProbaDistributions(t *testing.T) {
	features, labels := separableSet(20)

	models := []interface {
		core.Classifier
		core.ProbabilityEstimator
	}{
		NewRandomForest(),
		NewLogisticRegression(),
		NewNaiveBayes(),
	}
	for _, model := range models {
		if err := model.Fit(features, labels); err != nil {
			t.Fatalf("%s: Fit failed: %v", model.Name(), err)
		}
		proba := model.PredictProba([]float64{0.9, 0.1, 0.2})
		if len(proba) != 2 {
			t.Fatalf("%s: PredictProba returned %d values, want 2", model.Name(), len(proba))
		}
		sum := proba[0] + proba[1]
		if sum < 0.999 || sum > 1.001 {
			t.Errorf("%s: probabilities sum to %f, want 1", model.Name(), sum)
		}
		if proba[1] < proba[0] {
			t.Errorf("%s: P(1) = %f for a clear class-1 vector, want majority", model.Name(), proba[1])
		}
	}
}

func TestClassifierStateRoundTrip(t *testing.T) {
	features, labels := separableSet(20)
	probes := [][]float64{
		{0.9, 0.1, 0.2},
		{0.05, 0.8, 0.1},
		{0.5, 0.5, 0.5},
	}

	models := []core.Classifier{
		NewRandomForest(),
		NewLogisticRegression(),
		NewNaiveBayes(),
	}
	for _, model := range models {
		if err := model.Fit(features, labels); err != nil {
			t.Fatalf("%s: Fit failed: %v", model.Name(), err)
		}
		state, err := model.MarshalState()
		if err != nil {
			t.Fatalf("%s: MarshalState failed: %v", model.Name(), err)
		}
		restored, err := Restore(model.Name(), state)
		if err != nil {
			t.Fatalf("%s: Restore failed: %v", model.Name(), err)
		}
		for _, probe := range probes {
			if got, want := restored.Predict(probe), model.Predict(probe); got != want {
				t.Errorf("%s: restored Predict(%v) = %d, want %d", model.Name(), probe, got, want)
			}
		}
	}
}

func TestRestoreUnknownModel(t *testing.T) {
	if _, err := Restore("gradient_boosting", []byte("{}")); err == nil {
		t.Error("expected error for unknown model name")
	}
}

func TestRestoreRejectsMalformedState(t *testing.T) {
	for _, name := range []string{"random_forest", "logistic_regression", "naive_bayes"} {
		if _, err := Restore(name, []byte("not json")); err == nil {
			t.Errorf("%s: expected error for malformed state", name)
		}
		if _, err := Restore(name, []byte("{}")); err == nil {
			t.Errorf("%s: expected error for unfitted state", name)
		}
	}
}
