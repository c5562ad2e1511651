package validation

import (
	"errors"
	"strings"
)

// ErrInvalidArgument is matched by every validation failure.
var ErrInvalidArgument = errors.New("invalid argument")

// FieldError represents a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error carries the field errors of a rejected input.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "invalid argument: " + strings.Join(msgs, "; ")
}

// Is makes errors.Is(err, ErrInvalidArgument) hold for *Error.
func (e *Error) Is(target error) bool {
	return target == ErrInvalidArgument
}

// Check returns nil for an empty slice and an *Error otherwise.
func Check(errs []FieldError) error {
	if len(errs) == 0 {
		return nil
	}
	return &Error{Fields: errs}
}

// Fields extracts field errors from err, or nil if err is not a validation error.
func Fields(err error) []FieldError {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}
