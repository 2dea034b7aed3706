// Package apperr defines the error taxonomy shared by services and handlers.
package apperr

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation failed")
)

// ValidationError carries field-level validation failures.
type ValidationError struct {
	Fields validation.Errors
}

// Validation wraps err as a ValidationError. Field errors produced by
// ozzo-validation keep their per-field detail; anything else is reported
// under the "_" key.
func Validation(err error) error {
	if err == nil {
		return nil
	}
	var fields validation.Errors
	if !errors.As(err, &fields) {
		fields = validation.Errors{"_": err}
	}
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Fields.Error()
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
