// Package predictor runs the trained tree-ensemble classifiers over encoded
// feature vectors. Models are opaque fitted artifacts serialized as JSON at
// training time; this package only evaluates them.
package predictor

import (
	"fmt"

	"churn-retention-engine/internal/models"
)

// TreeNode is one node of a fitted decision tree. Leaf nodes carry
// Feature = -1. Value holds the class probability distribution observed at
// the node during training.
type TreeNode struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Value     []float64 `json:"value"`
}

// IsLeaf reports whether the node terminates a path.
func (n *TreeNode) IsLeaf() bool {
	return n.Feature < 0
}

// Tree is a single fitted decision tree, nodes indexed from the root at 0.
type Tree struct {
	Nodes []TreeNode `json:"nodes"`
}

// Forest is a fitted ensemble classifier. Class probabilities are the mean
// of the per-tree leaf distributions.
type Forest struct {
	Name         string   `json:"name"`
	Classes      []string `json:"classes"`
	FeatureCount int      `json:"feature_count"`
	Trees        []Tree   `json:"trees"`
}

// Validate checks structural consistency of the forest artifact.
func (f *Forest) Validate() error {
	if len(f.Classes) == 0 {
		return fmt.Errorf("forest %q has no classes", f.Name)
	}
	if f.FeatureCount <= 0 {
		return fmt.Errorf("forest %q has feature_count %d", f.Name, f.FeatureCount)
	}
	if len(f.Trees) == 0 {
		return fmt.Errorf("forest %q has no trees", f.Name)
	}
	for ti, tree := range f.Trees {
		if len(tree.Nodes) == 0 {
			return fmt.Errorf("forest %q tree %d is empty", f.Name, ti)
		}
		for ni, node := range tree.Nodes {
			if len(node.Value) != len(f.Classes) {
				return fmt.Errorf("forest %q tree %d node %d: %d class values for %d classes",
					f.Name, ti, ni, len(node.Value), len(f.Classes))
			}
			if node.IsLeaf() {
				continue
			}
			if node.Feature >= f.FeatureCount {
				return fmt.Errorf("forest %q tree %d node %d splits on feature %d, have %d",
					f.Name, ti, ni, node.Feature, f.FeatureCount)
			}
			if node.Left < 0 || node.Left >= len(tree.Nodes) ||
				node.Right < 0 || node.Right >= len(tree.Nodes) {
				return fmt.Errorf("forest %q tree %d node %d has out-of-range children",
					f.Name, ti, ni)
			}
		}
	}
	return nil
}

// ClassIndex returns the position of a class label, or -1.
func (f *Forest) ClassIndex(label string) int {
	for i, c := range f.Classes {
		if c == label {
			return i
		}
	}
	return -1
}

// leaf walks one tree for a feature vector and returns the leaf node.
func (t *Tree) leaf(values []float64) *TreeNode {
	node := &t.Nodes[0]
	for !node.IsLeaf() {
		if values[node.Feature] <= node.Threshold {
			node = &t.Nodes[node.Left]
		} else {
			node = &t.Nodes[node.Right]
		}
	}
	return node
}

// PredictProba returns calibrated class probabilities for an encoded
// vector. The probabilities sum to 1 across the class set. A vector whose
// length disagrees with the training-time feature count fails with a
// SchemaMismatchError.
func (f *Forest) PredictProba(values []float64) ([]float64, error) {
	if len(values) != f.FeatureCount {
		return nil, &models.SchemaMismatchError{
			Model:    f.Name,
			Expected: f.FeatureCount,
			Got:      len(values),
		}
	}

	probs := make([]float64, len(f.Classes))
	for i := range f.Trees {
		leaf := f.Trees[i].leaf(values)
		for c, v := range leaf.Value {
			probs[c] += v
		}
	}

	n := float64(len(f.Trees))
	total := 0.0
	for c := range probs {
		probs[c] /= n
		total += probs[c]
	}
	// Leaf distributions are normalized per tree; renormalize to absorb
	// rounding drift from the artifact serialization.
	if total > 0 {
		for c := range probs {
			probs[c] /= total
		}
	}

	return probs, nil
}

// Predict returns the argmax class label and the full distribution.
func (f *Forest) Predict(values []float64) (string, []float64, error) {
	probs, err := f.PredictProba(values)
	if err != nil {
		return "", nil, err
	}

	best := 0
	for c := 1; c < len(probs); c++ {
		if probs[c] > probs[best] {
			best = c
		}
	}
	return f.Classes[best], probs, nil
}
