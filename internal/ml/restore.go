package ml

import (
	"fmt"

	"github.com/mikey/phishing-detector/internal/core"
)

// Restore rebuilds a fitted classifier from its serialized state, keyed by
// the family name recorded in the artifact bundle.
func Restore(name string, state []byte) (core.Classifier, error) {
	switch name {
	case "random_forest":
		rf := NewRandomForest()
		if err := rf.unmarshalState(state); err != nil {
			return nil, err
		}
		return rf, nil
	case "logistic_regression":
		lr := NewLogisticRegression()
		if err := lr.unmarshalState(state); err != nil {
			return nil, err
		}
		return lr, nil
	case "naive_bayes":
		nb := NewNaiveBayes()
		if err := nb.unmarshalState(state); err != nil {
			return nil, err
		}
		return nb, nil
	default:
		return nil, fmt.Errorf("unknown model name %q in artifact", name)
	}
}
