package ml

import (
	"encoding/json"
	"fmt"
	"math"
)

const (
	lrLearningRate = 0.1
	lrEpochs       = 200
)

// LogisticRegression is a binary logistic classifier trained with full-batch
// gradient descent over z-score standardized features. Standardization
// parameters are learned at fit time and serialized with the weights so
// inference applies the identical transform.
type LogisticRegression struct {
	state lrState
}

type lrState struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
	Means   []float64 `json:"means"`
	Stddevs []float64 `json:"stddevs"`
	Fitted  bool      `json:"fitted"`
}

// NewLogisticRegression creates an unfitted logistic regression classifier.
func NewLogisticRegression() *LogisticRegression {
	return &LogisticRegression{}
}

func (lr *LogisticRegression) Name() string { return "logistic_regression" }

// Fit standardizes the feature matrix and runs gradient descent. The
// fixed epoch count and learning rate keep training deterministic.
func (lr *LogisticRegression) Fit(features [][]float64, labels []int) error {
	if len(features) == 0 || len(features) != len(labels) {
		return fmt.Errorf("invalid training set: %d rows, %d labels", len(features), len(labels))
	}
	n := len(features)
	width := len(features[0])

	means := make([]float64, width)
	stddevs := make([]float64, width)
	for j := 0; j < width; j++ {
		sum := 0.0
		for _, row := range features {
			sum += row[j]
		}
		means[j] = sum / float64(n)
		varSum := 0.0
		for _, row := range features {
			d := row[j] - means[j]
			varSum += d * d
		}
		stddevs[j] = math.Sqrt(varSum / float64(n))
		if stddevs[j] == 0 {
			stddevs[j] = 1
		}
	}

	scaled := make([][]float64, n)
	for i, row := range features {
		scaled[i] = make([]float64, width)
		for j, v := range row {
			scaled[i][j] = (v - means[j]) / stddevs[j]
		}
	}

	weights := make([]float64, width)
	bias := 0.0
	for epoch := 0; epoch < lrEpochs; epoch++ {
		gradW := make([]float64, width)
		gradB := 0.0
		for i, row := range scaled {
			p := sigmoid(dot(weights, row) + bias)
			err := p - float64(labels[i])
			for j, v := range row {
				gradW[j] += err * v
			}
			gradB += err
		}
		for j := range weights {
			weights[j] -= lrLearningRate * gradW[j] / float64(n)
		}
		bias -= lrLearningRate * gradB / float64(n)
	}

	lr.state = lrState{Weights: weights, Bias: bias, Means: means, Stddevs: stddevs, Fitted: true}
	return nil
}

// Predict thresholds P(1) at 0.5.
func (lr *LogisticRegression) Predict(features []float64) int {
	if lr.probability(features) >= 0.5 {
		return 1
	}
	return 0
}

// PredictProba returns [P(0), P(1)].
func (lr *LogisticRegression) PredictProba(features []float64) []float64 {
	p := lr.probability(features)
	return []float64{1 - p, p}
}

func (lr *LogisticRegression) probability(features []float64) float64 {
	z := lr.state.Bias
	for j, w := range lr.state.Weights {
		if j >= len(features) {
			break
		}
		z += w * (features[j] - lr.state.Means[j]) / lr.state.Stddevs[j]
	}
	return sigmoid(z)
}

func (lr *LogisticRegression) MarshalState() ([]byte, error) {
	return json.Marshal(lr.state)
}

func (lr *LogisticRegression) unmarshalState(data []byte) error {
	var st lrState
	if err := json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("failed to decode logistic regression state: %w", err)
	}
	if !st.Fitted || len(st.Weights) == 0 ||
		len(st.Means) != len(st.Weights) || len(st.Stddevs) != len(st.Weights) {
		return fmt.Errorf("logistic regression state is inconsistent")
	}
	lr.state = st
	return nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
