package library

import (
	"errors"
	"strings"

	"github.com/mrlokans/library/internal/database/catalog"
)

var (
	// ErrMissingRequiredField is returned when a required input is absent or blank.
	ErrMissingRequiredField = errors.New("missing required field")

	// ErrInvalidInput is returned when an input does not parse (dates, integers).
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidReference is returned when an input points at a record that does not exist.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrNotFound is returned when the targeted record does not exist.
	ErrNotFound = catalog.ErrNotFound

	// ErrConstraintViolation is returned when the store rejects a write.
	ErrConstraintViolation = catalog.ErrConstraintViolation
)

// FieldError describes a problem with one form field.
type FieldError struct {
	Field   string
	Kind    error // one of the sentinel errors above
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

func (e *FieldError) Unwrap() error {
	return e.Kind
}

// ValidationError collects every field problem of a request. errors.Is matches
// the kind of any contained field error.
type ValidationError struct {
	Fields []*FieldError
}

func (e *ValidationError) Error() string {
	messages := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		messages = append(messages, f.Message)
	}
	return strings.Join(messages, " ")
}

func (e *ValidationError) Unwrap() []error {
	errs := make([]error, 0, len(e.Fields))
	for _, f := range e.Fields {
		errs = append(errs, f)
	}
	return errs
}

// Field returns the problem reported for name, if any.
func (e *ValidationError) Field(name string) *FieldError {
	for _, f := range e.Fields {
		if f.Field == name {
			return f
		}
	}
	return nil
}

// UserMessage returns the text to show on the originating form.
func UserMessage(err error) string {
	var verr *ValidationError
	if errors.As(err, &verr) && len(verr.Fields) > 0 {
		return verr.Fields[0].Message
	}
	var ferr *FieldError
	if errors.As(err, &ferr) {
		return ferr.Message
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return "Not found."
	case errors.Is(err, ErrConstraintViolation):
		return "The record could not be saved."
	}
	return "Something went wrong."
}
