package core

import "github.com/pkg/errors"

// FieldError is used to indicate an error with a specific field of a struct,
// a payload or an imported row.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// FieldMap groups field errors by field name, the shape rendered back to
// uploaders row-by-row.
func (err ValidationError) FieldMap() map[string][]string {
	m := make(map[string][]string, len(err.Fields))
	for _, fld := range err.Fields {
		m[fld.Field] = append(m[fld.Field], fld.Error)
	}
	return m
}

// AsValidationError unwraps err down to a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	vErr, ok := errors.Cause(err).(*ValidationError)
	return vErr, ok
}
