package shared

import (
	"errors"
	"fmt"
)

// ErrValidation is matched by every field validation failure.
var ErrValidation = errors.New("validation failed")

// FieldError reports the first field that failed validation.
// errors.Is matches both ErrValidation and the underlying cause.
type FieldError struct {
	Field string
	Err   error
}

func NewFieldError(field string, err error) *FieldError {
	return &FieldError{Field: field, Err: err}
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Err.Error())
}

// Message returns the human readable reason without the field prefix.
func (e *FieldError) Message() string {
	return e.Err.Error()
}

func (e *FieldError) Unwrap() []error {
	return []error{ErrValidation, e.Err}
}

// AsFieldError extracts a *FieldError from err's chain.
func AsFieldError(err error) (*FieldError, bool) {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// SortOrder is the direction used by list queries.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// ParseSortOrder falls back to OrderDesc for anything unrecognised.
func ParseSortOrder(s string) SortOrder {
	if SortOrder(s) == OrderAsc {
		return OrderAsc
	}
	return OrderDesc
}
