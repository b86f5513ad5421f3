// Package encoder maps raw customer records onto the encoded feature
// vectors the trained models were fit on.
package encoder

import (
	"encoding/json"
	"fmt"
	"os"
)

// ScalerParams holds the frozen center/scale parameters of the standard
// scaler fit at training time (mean 0, std 1 on the training set).
type ScalerParams struct {
	Columns []string  `json:"columns"`
	Mean    []float64 `json:"mean"`
	Scale   []float64 `json:"scale"`
}

// EncodingSpec is the frozen encoding contract between raw customer fields
// and a trained model: the ordered training-time column list, ordinal rank
// tables, one-hot vocabularies and (for the churn model only) the scaler.
// It is loaded once at startup and never mutated.
type EncodingSpec struct {
	// FeatureNames is the exact ordered column list the model was trained
	// on. Encoded vectors are reindexed against it: missing columns fill
	// with 0, extra columns drop.
	FeatureNames []string `json:"feature_names"`

	// Ordinal maps each ordinal field to its value->rank table.
	Ordinal map[string]map[string]float64 `json:"ordinal"`

	// OneHot maps each nominal field to its training-time vocabulary, in
	// the column order the one-hot encoder produced.
	OneHot map[string][]string `json:"one_hot"`

	// Scaler is nil for encodings that skip the scaling step (the category
	// model is trained on unscaled features).
	Scaler *ScalerParams `json:"scaler,omitempty"`
}

// LoadEncodingSpec reads an encoding spec artifact from a JSON file.
func LoadEncodingSpec(path string) (*EncodingSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read encoding spec %s: %w", path, err)
	}

	var spec EncodingSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse encoding spec %s: %w", path, err)
	}

	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid encoding spec %s: %w", path, err)
	}

	return &spec, nil
}

// Validate checks internal consistency of the spec.
func (s *EncodingSpec) Validate() error {
	if len(s.FeatureNames) == 0 {
		return fmt.Errorf("feature_names is empty")
	}

	seen := make(map[string]struct{}, len(s.FeatureNames))
	for _, name := range s.FeatureNames {
		if _, dup := seen[name]; dup {
			return fmt.Errorf("duplicate feature name %q", name)
		}
		seen[name] = struct{}{}
	}

	if s.Scaler != nil {
		if len(s.Scaler.Columns) != len(s.Scaler.Mean) || len(s.Scaler.Columns) != len(s.Scaler.Scale) {
			return fmt.Errorf("scaler columns/mean/scale lengths disagree: %d/%d/%d",
				len(s.Scaler.Columns), len(s.Scaler.Mean), len(s.Scaler.Scale))
		}
		for i, col := range s.Scaler.Columns {
			if _, ok := seen[col]; !ok {
				return fmt.Errorf("scaler column %q not in feature_names", col)
			}
			if s.Scaler.Scale[i] == 0 {
				return fmt.Errorf("scaler scale for %q is zero", col)
			}
		}
	}

	for field, table := range s.Ordinal {
		if len(table) == 0 {
			return fmt.Errorf("ordinal field %q has an empty rank table", field)
		}
	}

	for field, vocab := range s.OneHot {
		if len(vocab) == 0 {
			return fmt.Errorf("one-hot field %q has an empty vocabulary", field)
		}
	}

	return nil
}

// OneHotColumn returns the encoded column name for a nominal field level,
// matching the training-time naming convention.
func OneHotColumn(field, value string) string {
	return field + "_" + value
}
