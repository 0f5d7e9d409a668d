package errors

import (
	"errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryIdentity Category = "identity"
	CategorySurface  Category = "surface"
	CategoryProtocol Category = "protocol"
	CategoryConfig   Category = "config"
	CategoryCLI      Category = "cli"
)

// BentoError is a structured error with a code, a suggestion and documentation.
type BentoError struct {
	// Code is a unique error identifier (e.g., "E201").
	Code string

	// Category is the error type (identity, surface, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *BentoError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *BentoError) Unwrap() error {
	return e.Wrapped
}

// Is matches another BentoError by code.
func (e *BentoError) Is(target error) bool {
	t, ok := target.(*BentoError)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// WithSuggestion adds a fix suggestion to the error.
func (e *BentoError) WithSuggestion(s string) *BentoError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *BentoError) WithDetail(d string) *BentoError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted detailed explanation to the error.
func (e *BentoError) WithDetailf(format string, args ...any) *BentoError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *BentoError) Wrap(err error) *BentoError {
	e.Wrapped = err
	return e
}

// New creates a BentoError from a registered error code.
func New(code string) *BentoError {
	template, ok := registry[code]
	if !ok {
		return &BentoError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &BentoError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Suggestion: template.Suggestion,
		DocURL:     template.DocURL,
	}
}

// Newf creates a new BentoError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *BentoError {
	return &BentoError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a BentoError.
func FromError(err error, code string) *BentoError {
	if err == nil {
		return nil
	}
	var be *BentoError
	if errors.As(err, &be) {
		return be
	}
	return New(code).Wrap(err)
}

// HasCode reports whether err is or wraps a BentoError with the given code.
func HasCode(err error, code string) bool {
	var be *BentoError
	for err != nil {
		if !errors.As(err, &be) {
			return false
		}
		if be.Code == code {
			return true
		}
		err = be.Wrapped
	}
	return false
}
