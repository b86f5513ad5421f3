// Package models defines the data structures for the churn retention engine.
package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Common errors
var (
	ErrInvalidContract   = errors.New("invalid contract value")
	ErrInvalidOffer      = errors.New("invalid offer value")
	ErrSchemaMismatch    = errors.New("feature vector does not match model schema")
	ErrInvariantViolated = errors.New("computation invariant violated")
	ErrMissingArtifact   = errors.New("model artifact missing")
)

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports why a raw customer record was rejected. The
// caller receives every failing field, not just the first.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Add appends a field failure to the error.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any field failed.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// SchemaMismatchError signals that an encoded vector disagrees with the
// shape a model was trained on. It indicates artifact drift and is fatal
// for the request; it is never retried.
type SchemaMismatchError struct {
	Model    string
	Expected int
	Got      int
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema mismatch for %s model: expected %d features, got %d",
		e.Model, e.Expected, e.Got)
}

func (e *SchemaMismatchError) Unwrap() error { return ErrSchemaMismatch }

// ComputationInvariantError signals that a computed quantity left its legal
// range (negative currency, NaN, probability outside [0,1]). No partial
// result is returned when this is raised.
type ComputationInvariantError struct {
	Stage    string
	Quantity string
	Value    float64
}

func (e *ComputationInvariantError) Error() string {
	return fmt.Sprintf("invariant violated in %s: %s = %v", e.Stage, e.Quantity, e.Value)
}

func (e *ComputationInvariantError) Unwrap() error { return ErrInvariantViolated }

// UnknownCategoryWarning records a categorical value absent from the
// training vocabulary. It is non-fatal: the value encodes to all-zero
// one-hot columns and the evaluation proceeds.
type UnknownCategoryWarning struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (w UnknownCategoryWarning) String() string {
	return fmt.Sprintf("unknown %s value %q ignored (encoded as all zeros)", w.Field, w.Value)
}

var validate = validator.New()

// ValidateCustomerRecord checks a record against type, range and
// required-field constraints. It returns a *ValidationError carrying one
// entry per failing field, or nil when the record is acceptable.
func ValidateCustomerRecord(c *CustomerRecord) error {
	verr := &ValidationError{}

	if err := validate.Struct(c); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return fmt.Errorf("failed to validate record: %w", err)
		}
		for _, fe := range err.(validator.ValidationErrors) {
			verr.Add(jsonFieldName(fe.Field()), validationMessage(fe))
		}
	}

	if v := NormalizeCategory(c.Contract); !Contract(v).IsValid() {
		verr.Add("contract", fmt.Sprintf("unknown contract %q", c.Contract))
	}
	if v := NormalizeCategory(c.Offer); !Offer(v).IsValid() {
		verr.Add("offer", fmt.Sprintf("unknown offer %q", c.Offer))
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

// jsonFieldName maps a Go struct field name to its canonical column name.
func jsonFieldName(structField string) string {
	switch structField {
	case "AvgMonthlyLongDistanceCharges":
		return "avg_monthly_long_distance_charges"
	case "AvgMonthlyGBDownload":
		return "avg_monthly_gb_download"
	case "StreamingTV":
		return "streaming_tv"
	default:
		// CamelCase to snake_case covers the remaining fields.
		var b strings.Builder
		for i, r := range structField {
			if r >= 'A' && r <= 'Z' {
				if i > 0 {
					b.WriteByte('_')
				}
				b.WriteRune(r + ('a' - 'A'))
			} else {
				b.WriteRune(r)
			}
		}
		return b.String()
	}
}

// validationMessage renders a validator tag failure as a human message.
func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
