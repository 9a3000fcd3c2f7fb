package ml

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"sort"
)

const (
	forestNumTrees = 50
	forestMaxDepth = 10
	forestSeed     = 42
)

// RandomForest is an ensemble of depth-limited CART trees trained on
// bootstrap samples with per-split random feature subsets. All randomness
// comes from a generator seeded at construction, so two fits on the same
// matrix produce identical forests.
type RandomForest struct {
	state forestState
}

type forestState struct {
	Trees  []*treeNode `json:"trees"`
	Seed   int64       `json:"seed"`
	Fitted bool        `json:"fitted"`
}

// treeNode is one node of a decision tree. Leaves carry the 0/1 vote in
// Class and have nil children.
type treeNode struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Class     int       `json:"class"`
	Left      *treeNode `json:"left,omitempty"`
	Right     *treeNode `json:"right,omitempty"`
}

func (n *treeNode) leaf() bool { return n.Left == nil && n.Right == nil }

// NewRandomForest creates an unfitted forest with the default seed.
func NewRandomForest() *RandomForest {
	return &RandomForest{state: forestState{Seed: forestSeed}}
}

func (rf *RandomForest) Name() string { return "random_forest" }

// Fit grows the ensemble on bootstrap resamples of the training set.
func (rf *RandomForest) Fit(features [][]float64, labels []int) error {
	if len(features) == 0 || len(features) != len(labels) {
		return fmt.Errorf("invalid training set: %d rows, %d labels", len(features), len(labels))
	}
	n := len(features)
	width := len(features[0])
	subset := int(math.Ceil(math.Sqrt(float64(width))))

	rng := rand.New(rand.NewSource(rf.state.Seed))
	trees := make([]*treeNode, forestNumTrees)
	for t := range trees {
		sampleX := make([][]float64, n)
		sampleY := make([]int, n)
		for i := 0; i < n; i++ {
			k := rng.Intn(n)
			sampleX[i] = features[k]
			sampleY[i] = labels[k]
		}
		trees[t] = growTree(sampleX, sampleY, width, subset, 0, rng)
	}
	rf.state.Trees = trees
	rf.state.Fitted = true
	return nil
}

// Predict returns the majority vote across the trees. Exact ties go to
// class 0.
func (rf *RandomForest) Predict(features []float64) int {
	if rf.votes(features) > float64(len(rf.state.Trees))/2 {
		return 1
	}
	return 0
}

// PredictProba reports the vote fractions as [P(0), P(1)].
func (rf *RandomForest) PredictProba(features []float64) []float64 {
	p1 := rf.votes(features) / float64(len(rf.state.Trees))
	return []float64{1 - p1, p1}
}

func (rf *RandomForest) votes(features []float64) float64 {
	votes := 0.0
	for _, tree := range rf.state.Trees {
		node := tree
		for !node.leaf() {
			if features[node.Feature] <= node.Threshold {
				node = node.Left
			} else {
				node = node.Right
			}
		}
		votes += float64(node.Class)
	}
	return votes
}

func (rf *RandomForest) MarshalState() ([]byte, error) {
	return json.Marshal(rf.state)
}

func (rf *RandomForest) unmarshalState(data []byte) error {
	var st forestState
	if err := json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("failed to decode random forest state: %w", err)
	}
	if !st.Fitted || len(st.Trees) == 0 {
		return fmt.Errorf("random forest state is inconsistent")
	}
	rf.state = st
	return nil
}

func growTree(features [][]float64, labels []int, width, subset, depth int, rng *rand.Rand) *treeNode {
	majority, pure := majorityClass(labels)
	if pure || depth >= forestMaxDepth || len(labels) < 2 {
		return &treeNode{Feature: -1, Class: majority}
	}

	bestFeature, bestThreshold, bestGini := -1, 0.0, math.Inf(1)
	for _, f := range sampleFeatures(width, subset, rng) {
		for _, threshold := range candidateThresholds(features, f) {
			g := splitGini(features, labels, f, threshold)
			if g < bestGini {
				bestFeature, bestThreshold, bestGini = f, threshold, g
			}
		}
	}
	if bestFeature < 0 {
		return &treeNode{Feature: -1, Class: majority}
	}

	var leftX, rightX [][]float64
	var leftY, rightY []int
	for i, row := range features {
		if row[bestFeature] <= bestThreshold {
			leftX = append(leftX, row)
			leftY = append(leftY, labels[i])
		} else {
			rightX = append(rightX, row)
			rightY = append(rightY, labels[i])
		}
	}
	if len(leftY) == 0 || len(rightY) == 0 {
		return &treeNode{Feature: -1, Class: majority}
	}

	return &treeNode{
		Feature:   bestFeature,
		Threshold: bestThreshold,
		Class:     majority,
		Left:      growTree(leftX, leftY, width, subset, depth+1, rng),
		Right:     growTree(rightX, rightY, width, subset, depth+1, rng),
	}
}

// sampleFeatures draws a sorted subset of feature indices without
// replacement.
func sampleFeatures(width, subset int, rng *rand.Rand) []int {
	if subset >= width {
		all := make([]int, width)
		for i := range all {
			all[i] = i
		}
		return all
	}
	perm := rng.Perm(width)[:subset]
	sort.Ints(perm)
	return perm
}

// candidateThresholds returns midpoints between consecutive distinct values
// of one feature column.
func candidateThresholds(features [][]float64, f int) []float64 {
	values := make([]float64, 0, len(features))
	for _, row := range features {
		values = append(values, row[f])
	}
	sort.Float64s(values)
	thresholds := make([]float64, 0, len(values))
	for i := 1; i < len(values); i++ {
		if values[i] != values[i-1] {
			thresholds = append(thresholds, (values[i]+values[i-1])/2)
		}
	}
	return thresholds
}

func splitGini(features [][]float64, labels []int, f int, threshold float64) float64 {
	var leftCounts, rightCounts [2]int
	for i, row := range features {
		if row[f] <= threshold {
			leftCounts[labels[i]]++
		} else {
			rightCounts[labels[i]]++
		}
	}
	nLeft := leftCounts[0] + leftCounts[1]
	nRight := rightCounts[0] + rightCounts[1]
	if nLeft == 0 || nRight == 0 {
		return math.Inf(1)
	}
	total := float64(nLeft + nRight)
	return float64(nLeft)/total*gini(leftCounts) + float64(nRight)/total*gini(rightCounts)
}

func gini(counts [2]int) float64 {
	n := float64(counts[0] + counts[1])
	p0 := float64(counts[0]) / n
	p1 := float64(counts[1]) / n
	return 1 - p0*p0 - p1*p1
}

func majorityClass(labels []int) (int, bool) {
	var counts [2]int
	for _, y := range labels {
		counts[y]++
	}
	pure := counts[0] == 0 || counts[1] == 0
	if counts[1] > counts[0] {
		return 1, pure
	}
	return 0, pure
}
