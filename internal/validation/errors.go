package validation

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind tags a field error.
type Kind int

const (
	MissingField Kind = iota
	InvalidType
	OutOfRange
	InvalidOption
)

func (k Kind) String() string {
	switch k {
	case MissingField:
		return "missing_field"
	case InvalidType:
		return "invalid_type"
	case OutOfRange:
		return "out_of_range"
	case InvalidOption:
		return "invalid_option"
	}
	return "unknown"
}

// FieldError is a user-correctable problem with one submitted field.
type FieldError struct {
	Kind  Kind
	Field string
	Value string
	Min   float64
	Max   float64
}

func (e FieldError) Error() string {
	switch e.Kind {
	case MissingField:
		return "Missing required field: " + e.Field
	case InvalidType:
		return "Invalid data type for " + e.Field
	case OutOfRange:
		return fmt.Sprintf("%s must be between %s and %s", e.Field, formatBound(e.Min), formatBound(e.Max))
	case InvalidOption:
		return fmt.Sprintf("Invalid option for %s: %s", e.Field, e.Value)
	}
	return "invalid field " + e.Field
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Errors is the ordered result of validating a submission. An empty
// Errors means the submission is valid.
type Errors []FieldError

// Messages returns the human-readable text of every error, in order.
func (es Errors) Messages() []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.Error()
	}
	return out
}

func (es Errors) Error() string {
	return strings.Join(es.Messages(), "; ")
}
