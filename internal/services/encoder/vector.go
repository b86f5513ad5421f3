package encoder

import (
	"fmt"
)

// FeatureVector is a fixed-order encoded feature vector. Names points at
// the frozen training-time column list of the spec that produced it; the
// vector never owns or mutates that list.
type FeatureVector struct {
	Names  []string
	Values []float64
}

// Len returns the number of columns.
func (v *FeatureVector) Len() int {
	return len(v.Values)
}

// Value returns the value of a named column.
func (v *FeatureVector) Value(name string) (float64, error) {
	for i, n := range v.Names {
		if n == name {
			return v.Values[i], nil
		}
	}
	return 0, fmt.Errorf("no column %q in feature vector", name)
}
