// Package features turns a validated submission into the numeric vector the
// classifiers were trained on.
package features

import (
	"fmt"

	"github.com/saqibullah/heart-disease-predictor/internal/validation"
)

// Count is the number of features every classifier consumes.
const Count = 13

// Order lists the submission fields in the column order of the training
// data. Reordering it silently corrupts predictions.
var Order = [Count]string{
	"age",
	"sex",
	"cp",
	"trestbps",
	"chol",
	"fbs",
	"restecg",
	"thalach",
	"exang",
	"oldpeak",
	"slope",
	"ca",
	"thal",
}

// Vector is one patient's encoded clinical inputs.
type Vector [Count]float64

// Row returns the vector as a slice, the shape classifiers take.
func (v Vector) Row() []float64 {
	row := make([]float64, Count)
	copy(row, v[:])
	return row
}

// Extractor builds feature vectors using the same coercions the validator
// applies.
type Extractor struct {
	table validation.Table
}

// NewExtractor returns an Extractor that coerces fields according to table.
func NewExtractor(table validation.Table) *Extractor {
	return &Extractor{table: table}
}

// Extract assumes sub has already passed validation. Any error returned
// means the validator and extractor disagree and is not a user input error.
func (e *Extractor) Extract(sub validation.Submission) (Vector, error) {
	var v Vector
	for i, field := range Order {
		c, ok := e.table.Lookup(field)
		if !ok {
			return Vector{}, fmt.Errorf("no constraint for feature %q", field)
		}
		raw, ok := sub[field]
		if !ok {
			return Vector{}, fmt.Errorf("feature %q missing from validated submission", field)
		}
		value, err := c.Coerce(raw)
		if err != nil {
			return Vector{}, fmt.Errorf("coerce feature %q: %w", field, err)
		}
		v[i] = value
	}
	return v, nil
}
