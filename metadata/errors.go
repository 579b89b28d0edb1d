package metadata

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateID is returned when two records share an id.
	ErrDuplicateID = errors.New("duplicate record id")

	// ErrDuplicateAttribute is returned when a schema declares a name twice.
	ErrDuplicateAttribute = errors.New("duplicate attribute")

	// ErrInvalidSchema wraps structural schema validation failures.
	ErrInvalidSchema = errors.New("invalid schema")
)

// MissingFieldError reports a schema attribute absent from a record.
type MissingFieldError struct {
	Attribute string
	RecordID  RecordID
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("record %d: missing field %q", e.RecordID, e.Attribute)
}

// MissingDomainError reports a numeric hyperparameter without a values list.
type MissingDomainError struct {
	Attribute string
}

func (e *MissingDomainError) Error() string {
	return fmt.Sprintf("numeric hyperparameter %q has no domain values", e.Attribute)
}

// InvalidValueError reports a field whose value does not fit its attribute
// kind. NonFinite marks a NaN or infinite number.
type InvalidValueError struct {
	Attribute string
	RecordID  RecordID
	Kind      Kind
	NonFinite bool
}

func (e *InvalidValueError) Error() string {
	if e.NonFinite {
		return fmt.Sprintf("record %d: field %q holds a non-finite number", e.RecordID, e.Attribute)
	}
	return fmt.Sprintf("record %d: field %q holds %s, expected a number", e.RecordID, e.Attribute, e.Kind)
}
