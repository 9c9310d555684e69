// Package validation checks raw form submissions against the static field
// constraints before any feature extraction happens.
package validation

// Submission maps a field name to its raw submitted value.
type Submission map[string]string

// Validator checks submissions against a constraint table.
// It holds no mutable state and is safe for concurrent use.
type Validator struct {
	table Table
}

// New returns a Validator over table.
func New(table Table) *Validator {
	return &Validator{table: table}
}

// Table returns the constraints the validator checks.
func (v *Validator) Table() Table {
	return v.table
}

// Validate returns every problem found in sub. When any field is missing,
// only the missing-field errors are returned.
func (v *Validator) Validate(sub Submission) Errors {
	var errs Errors
	for _, c := range v.table {
		if _, ok := sub[c.Field]; !ok {
			errs = append(errs, FieldError{Kind: MissingField, Field: c.Field})
		}
	}
	if len(errs) > 0 {
		return errs
	}

	for _, c := range v.table {
		if err, ok := check(c, sub[c.Field]); !ok {
			errs = append(errs, err)
		}
	}
	return errs
}

func check(c Constraint, raw string) (FieldError, bool) {
	value, err := c.Coerce(raw)
	if err != nil {
		return FieldError{Kind: InvalidType, Field: c.Field, Value: raw}, false
	}

	if c.IsRange() {
		if value < c.Min || value > c.Max {
			return FieldError{Kind: OutOfRange, Field: c.Field, Value: raw, Min: c.Min, Max: c.Max}, false
		}
		return FieldError{}, true
	}

	// Options match the submitted text exactly, whitespace included.
	if !c.Allows(raw) {
		return FieldError{Kind: InvalidOption, Field: c.Field, Value: raw}, false
	}
	return FieldError{}, true
}
