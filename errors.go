package drometa

import (
	"errors"
	"fmt"

	"github.com/hupe1980/drometa/dimension"
	"github.com/hupe1980/drometa/histogram"
	"github.com/hupe1980/drometa/metadata"
)

var (
	// ErrEmptyData is returned when a dataset is built from no records.
	ErrEmptyData = errors.New("dataset has no records")

	// ErrInvalidBinCount is returned when the histogram bin count is not positive.
	ErrInvalidBinCount = histogram.ErrInvalidBinCount

	// ErrDuplicateID is returned when two records share an id.
	ErrDuplicateID = metadata.ErrDuplicateID

	// ErrUnknownDimension is returned when a key names no built dimension.
	ErrUnknownDimension = errors.New("unknown dimension")

	// ErrUnknownKey is returned when a legacy key string cannot be resolved.
	ErrUnknownKey = dimension.ErrUnknownKey
)

// MissingFieldError reports a schema attribute absent from a record.
type MissingFieldError = metadata.MissingFieldError

// MissingDomainError reports a numeric hyperparameter without domain values.
type MissingDomainError = metadata.MissingDomainError

// InvalidValueError reports a non-numeric value in a numeric attribute or a
// NaN or infinite number in any attribute.
type InvalidValueError = metadata.InvalidValueError

// ErrRestore indicates a snapshot state that does not fit the dataset it
// describes.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrRestore struct {
	Stage string
	cause error
}

func (e *ErrRestore) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("restore %s failed", e.Stage)
	}
	return fmt.Sprintf("restore %s failed: %v", e.Stage, e.cause)
}

func (e *ErrRestore) Unwrap() error { return e.cause }
