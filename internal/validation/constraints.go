package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Type is the type a raw field value is coerced to.
type Type int

const (
	Float Type = iota
	Int
	String
)

// Constraint describes the permitted values for one submission field.
// A constraint is either a numeric range (Options is nil) or an
// enumeration of permitted string-encoded values.
type Constraint struct {
	Field   string
	Type    Type
	Min     float64
	Max     float64
	Options []string
}

// IsRange reports whether c bounds a numeric value rather than enumerating options.
func (c Constraint) IsRange() bool {
	return c.Options == nil
}

// Allows reports whether raw is one of the enumerated options.
func (c Constraint) Allows(raw string) bool {
	for _, o := range c.Options {
		if o == raw {
			return true
		}
	}
	return false
}

// Coerce converts raw to the constraint's target type. String values are
// returned as NaN since they carry no numeric meaning.
func (c Constraint) Coerce(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	switch c.Type {
	case Float:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, err
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("non-finite value %q", raw)
		}
		return v, nil
	case Int:
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, err
		}
		return float64(v), nil
	default:
		return math.NaN(), nil
	}
}

// Table is an ordered set of constraints. Validation errors are reported in
// table order.
type Table []Constraint

// Lookup returns the constraint for field.
func (t Table) Lookup(field string) (Constraint, bool) {
	for _, c := range t {
		if c.Field == field {
			return c, true
		}
	}
	return Constraint{}, false
}

// Fields returns the field names in table order.
func (t Table) Fields() []string {
	out := make([]string, len(t))
	for i, c := range t {
		out[i] = c.Field
	}
	return out
}

// ModelField is the submission key selecting the classifier.
const ModelField = "model"

var (
	binary = []string{"0", "1"}
	triple = []string{"0", "1", "2"}
	quint  = []string{"0", "1", "2", "3", "4"}
)

// DefaultTable returns the clinical field constraints plus the model selector.
// The ca, thal and cp option sets are kept as wide as the training data
// encodes them.
func DefaultTable() Table {
	return Table{
		{Field: "age", Type: Float, Min: 20, Max: 100},
		{Field: "trestbps", Type: Float, Min: 80, Max: 200},
		{Field: "chol", Type: Float, Min: 100, Max: 400},
		{Field: "thalach", Type: Float, Min: 70, Max: 220},
		{Field: "oldpeak", Type: Float, Min: 0, Max: 6},
		{Field: "sex", Type: Int, Options: binary},
		{Field: "fbs", Type: Int, Options: binary},
		{Field: "exang", Type: Int, Options: binary},
		{Field: "cp", Type: Int, Options: quint},
		{Field: "restecg", Type: Int, Options: triple},
		{Field: "slope", Type: Int, Options: triple},
		{Field: "ca", Type: Int, Options: quint},
		{Field: "thal", Type: Int, Options: triple},
		{Field: ModelField, Type: String, Options: []string{"svm", "rf", "lr"}},
	}
}
