package encoder

import (
	"fmt"
	"math"

	"churn-retention-engine/internal/models"
)

// Encoder turns a raw customer record into the encoded vector one model
// expects. It is a pure function of the record and the frozen spec; two
// encoders (churn and category) run over independently fit specs.
type Encoder struct {
	spec *EncodingSpec

	// LenientOrdinals maps unknown ordinal values to rank 0 instead of
	// failing validation.
	LenientOrdinals bool

	index map[string]int // column name -> position in spec.FeatureNames
}

// NewEncoder creates an encoder over a validated spec.
func NewEncoder(spec *EncodingSpec) (*Encoder, error) {
	if spec == nil {
		return nil, fmt.Errorf("encoding spec is nil: %w", models.ErrMissingArtifact)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	index := make(map[string]int, len(spec.FeatureNames))
	for i, name := range spec.FeatureNames {
		index[name] = i
	}

	return &Encoder{spec: spec, index: index}, nil
}

// Spec returns the frozen spec this encoder runs over.
func (e *Encoder) Spec() *EncodingSpec {
	return e.spec
}

// Encode maps a record onto the frozen column list: text normalization,
// numeric checks, ordinal ranks, one-hot expansion, reindexing and (when
// the spec carries a scaler) standard scaling.
//
// Unknown nominal levels do not fail; they contribute all-zero columns and
// are reported as warnings. Unknown ordinal values fail with a field-level
// ValidationError unless LenientOrdinals is set.
func (e *Encoder) Encode(rec *models.CustomerRecord) (*FeatureVector, []models.UnknownCategoryWarning, error) {
	if rec == nil {
		return nil, nil, &models.ValidationError{Fields: []models.FieldError{
			{Field: "record", Message: "is required"},
		}}
	}

	normalized := rec.Normalize()
	verr := &models.ValidationError{}
	var warnings []models.UnknownCategoryWarning

	// Intermediate column -> value map, before reindexing.
	cols := make(map[string]float64, len(e.spec.FeatureNames))

	// Numeric fields pass through; a non-finite value means the upstream
	// coercion produced garbage and must surface, not default.
	for _, field := range models.NumericFieldNames {
		value, ok := normalized.NumericValue(field)
		if !ok {
			continue
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			verr.Add(field, "must be a finite number")
			continue
		}
		cols[field] = value
	}

	// Ordinal fields map through the fixed rank tables.
	for field, table := range e.spec.Ordinal {
		value, ok := normalized.CategoricalValue(field)
		if !ok {
			verr.Add(field, "unknown ordinal field")
			continue
		}
		rank, found := table[value]
		if !found {
			if e.LenientOrdinals {
				rank = 0
			} else {
				verr.Add(field, fmt.Sprintf("value %q has no ordinal rank", value))
				continue
			}
		}
		cols[field] = rank
	}

	// Nominal fields expand to one-hot columns over the frozen vocabulary.
	// A level unseen at training time leaves every column of that field at
	// zero and degrades gracefully.
	for field, vocab := range e.spec.OneHot {
		value, ok := normalized.CategoricalValue(field)
		if !ok {
			verr.Add(field, "unknown nominal field")
			continue
		}
		matched := false
		for _, level := range vocab {
			col := OneHotColumn(field, level)
			if level == value {
				cols[col] = 1
				matched = true
			} else {
				cols[col] = 0
			}
		}
		if !matched {
			warnings = append(warnings, models.UnknownCategoryWarning{Field: field, Value: value})
		}
	}

	if verr.HasErrors() {
		return nil, warnings, verr
	}

	// Reindex to the frozen column list: absent columns fill with zero,
	// anything not in the list is dropped.
	values := make([]float64, len(e.spec.FeatureNames))
	for i, name := range e.spec.FeatureNames {
		values[i] = cols[name]
	}

	if e.spec.Scaler != nil {
		for i, col := range e.spec.Scaler.Columns {
			pos, ok := e.index[col]
			if !ok {
				continue
			}
			values[pos] = (values[pos] - e.spec.Scaler.Mean[i]) / e.spec.Scaler.Scale[i]
		}
	}

	return &FeatureVector{Names: e.spec.FeatureNames, Values: values}, warnings, nil
}
