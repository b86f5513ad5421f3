package predictor

import (
	"math"
	"sort"

	"churn-retention-engine/internal/models"
)

// maxTopFactors caps how many contributors an explanation reports.
const maxTopFactors = 10

// Explanation is the additive per-feature attribution of a single
// prediction for one target class: Baseline plus the sum of Contributions
// reconstructs the predicted class probability.
type Explanation struct {
	Class         string
	Baseline      float64
	Contributions []float64 // indexed like the feature vector
}

// Explain computes additive feature attributions for a target class using
// path decomposition: at every split on the way to a leaf, the change in
// the node's expected class probability is credited to the split feature,
// averaged across trees.
func (f *Forest) Explain(values []float64, class string) (*Explanation, error) {
	classIdx := f.ClassIndex(class)
	if classIdx < 0 {
		return nil, &models.SchemaMismatchError{Model: f.Name, Expected: len(f.Classes), Got: -1}
	}
	if len(values) != f.FeatureCount {
		return nil, &models.SchemaMismatchError{
			Model:    f.Name,
			Expected: f.FeatureCount,
			Got:      len(values),
		}
	}

	contributions := make([]float64, f.FeatureCount)
	baseline := 0.0

	for i := range f.Trees {
		tree := &f.Trees[i]
		node := &tree.Nodes[0]
		baseline += node.Value[classIdx]

		for !node.IsLeaf() {
			var child *TreeNode
			if values[node.Feature] <= node.Threshold {
				child = &tree.Nodes[node.Left]
			} else {
				child = &tree.Nodes[node.Right]
			}
			contributions[node.Feature] += child.Value[classIdx] - node.Value[classIdx]
			node = child
		}
	}

	n := float64(len(f.Trees))
	baseline /= n
	for i := range contributions {
		contributions[i] /= n
	}

	return &Explanation{Class: class, Baseline: baseline, Contributions: contributions}, nil
}

// TopFactors selects the features pushing the prediction toward the target
// class: positive contributions only, sorted by magnitude, truncated, and
// expressed as a percentage of the total positive attribution with
// human-readable labels.
func (e *Explanation) TopFactors(featureNames []string) []models.FeatureContribution {
	type indexed struct {
		idx   int
		value float64
	}

	positive := make([]indexed, 0, len(e.Contributions))
	total := 0.0
	for i, c := range e.Contributions {
		if c > 0 {
			positive = append(positive, indexed{idx: i, value: c})
			total += c
		}
	}
	if total == 0 {
		return nil
	}

	sort.Slice(positive, func(a, b int) bool {
		return positive[a].value > positive[b].value
	})
	if len(positive) > maxTopFactors {
		positive = positive[:maxTopFactors]
	}

	factors := make([]models.FeatureContribution, len(positive))
	for i, p := range positive {
		name := ""
		if p.idx < len(featureNames) {
			name = featureNames[p.idx]
		}
		factors[i] = models.FeatureContribution{
			Feature: name,
			Label:   DisplayLabel(name),
			Percent: math.Round(p.value/total*1000) / 10,
		}
	}
	return factors
}
