package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrNegativeFeature is returned when a multinomial model is fit on a
// feature matrix containing negative values.
var ErrNegativeFeature = errors.New("multinomial naive bayes requires non-negative features")

const nbSmoothing = 1.0

// NaiveBayes is a multinomial naive Bayes classifier with Laplace smoothing.
// It treats each feature value as a (fractional) event count, which works for
// term-weight vectors and the non-negative lexical counts appended to them.
type NaiveBayes struct {
	state nbState
}

type nbState struct {
	ClassLogPrior [2]float64   `json:"class_log_prior"`
	FeatureLogPr  [2][]float64 `json:"feature_log_prob"`
	Width         int          `json:"width"`
	Fitted        bool         `json:"fitted"`
}

// NewNaiveBayes creates an unfitted multinomial naive Bayes classifier.
func NewNaiveBayes() *NaiveBayes {
	return &NaiveBayes{}
}

func (nb *NaiveBayes) Name() string { return "naive_bayes" }

// Fit estimates class priors and per-class feature likelihoods.
func (nb *NaiveBayes) Fit(features [][]float64, labels []int) error {
	if len(features) == 0 || len(features) != len(labels) {
		return fmt.Errorf("invalid training set: %d rows, %d labels", len(features), len(labels))
	}
	width := len(features[0])

	var classCounts [2]float64
	featureSums := [2][]float64{make([]float64, width), make([]float64, width)}
	for i, row := range features {
		c := labels[i]
		if c != 0 && c != 1 {
			return fmt.Errorf("label out of range: %d", c)
		}
		classCounts[c]++
		for j, v := range row {
			if v < 0 {
				return ErrNegativeFeature
			}
			featureSums[c][j] += v
		}
	}
	if classCounts[0] == 0 || classCounts[1] == 0 {
		return fmt.Errorf("training set must contain both classes")
	}

	total := classCounts[0] + classCounts[1]
	st := nbState{Width: width, Fitted: true}
	for c := 0; c < 2; c++ {
		st.ClassLogPrior[c] = math.Log(classCounts[c] / total)
		classTotal := 0.0
		for _, v := range featureSums[c] {
			classTotal += v
		}
		denom := classTotal + nbSmoothing*float64(width)
		st.FeatureLogPr[c] = make([]float64, width)
		for j, v := range featureSums[c] {
			st.FeatureLogPr[c][j] = math.Log((v + nbSmoothing) / denom)
		}
	}
	nb.state = st
	return nil
}

// Predict returns the class with the larger joint log-likelihood. Ties
// resolve to class 0.
func (nb *NaiveBayes) Predict(features []float64) int {
	s0, s1 := nb.scores(features)
	if s1 > s0 {
		return 1
	}
	return 0
}

// PredictProba converts the two joint log-likelihoods into a normalized
// distribution [P(0), P(1)].
func (nb *NaiveBayes) PredictProba(features []float64) []float64 {
	s0, s1 := nb.scores(features)
	m := math.Max(s0, s1)
	e0 := math.Exp(s0 - m)
	e1 := math.Exp(s1 - m)
	sum := e0 + e1
	return []float64{e0 / sum, e1 / sum}
}

func (nb *NaiveBayes) scores(features []float64) (float64, float64) {
	s0 := nb.state.ClassLogPrior[0]
	s1 := nb.state.ClassLogPrior[1]
	for j, v := range features {
		if j >= nb.state.Width {
			break
		}
		s0 += v * nb.state.FeatureLogPr[0][j]
		s1 += v * nb.state.FeatureLogPr[1][j]
	}
	return s0, s1
}

func (nb *NaiveBayes) MarshalState() ([]byte, error) {
	return json.Marshal(nb.state)
}

func (nb *NaiveBayes) unmarshalState(data []byte) error {
	var st nbState
	if err := json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("failed to decode naive bayes state: %w", err)
	}
	if !st.Fitted || st.Width <= 0 ||
		len(st.FeatureLogPr[0]) != st.Width || len(st.FeatureLogPr[1]) != st.Width {
		return fmt.Errorf("naive bayes state is inconsistent")
	}
	nb.state = st
	return nil
}
