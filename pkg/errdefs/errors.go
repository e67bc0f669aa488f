// Package errdefs defines the classified errors shared by the catalog,
// config, compiler and clipboard packages.
package errdefs

import (
	"errors"
	"fmt"
)

// ErrorClass represents the classification of an error.
type ErrorClass string

const (
	// ErrorClassContract indicates the caller broke an input contract.
	// Examples: a category value that did not come from the catalog.
	// These are programming errors, not user-facing validation failures.
	ErrorClassContract ErrorClass = "contract"

	// ErrorClassAdvisory indicates a non-blocking finding.
	// Generation proceeds unchanged.
	ErrorClassAdvisory ErrorClass = "advisory"

	// ErrorClassSink indicates a failure writing output to an external sink
	// such as the clipboard. Recovered locally and never propagated into
	// generation.
	ErrorClassSink ErrorClass = "sink"

	// ErrorClassInput indicates an input file or flag could not be read or
	// decoded.
	ErrorClassInput ErrorClass = "input"
)

// Error represents a classified error with context.
type Error struct {
	// Class is the error classification.
	Class ErrorClass `json:"class"`

	// Message is the human-readable error message.
	Message string `json:"message"`

	// Code is an optional error code for programmatic handling.
	Code string `json:"code,omitempty"`

	// Field is the configuration field involved, if any.
	Field string `json:"field,omitempty"`

	// Err is the underlying error that caused this error.
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Class, e.Message)
	if e.Field != "" {
		msg = fmt.Sprintf("%s (field=%s)", msg, e.Field)
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error for error chain inspection.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements error equality checking for errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Class == t.Class && e.Code == t.Code
}

// NewContractError creates a new contract error.
func NewContractError(message string, err error) *Error {
	return &Error{Class: ErrorClassContract, Message: message, Err: err}
}

// NewAdvisoryError creates a new advisory error.
func NewAdvisoryError(message string, err error) *Error {
	return &Error{Class: ErrorClassAdvisory, Message: message, Err: err}
}

// NewSinkError creates a new sink error.
func NewSinkError(message string, err error) *Error {
	return &Error{Class: ErrorClassSink, Message: message, Err: err}
}

// NewInputError creates a new input error.
func NewInputError(message string, err error) *Error {
	return &Error{Class: ErrorClassInput, Message: message, Err: err}
}

// WithCode adds an error code to an error.
func (e *Error) WithCode(code string) *Error {
	e.Code = code
	return e
}

// WithField adds field context to an error.
func (e *Error) WithField(field string) *Error {
	e.Field = field
	return e
}

func classOf(err error) (ErrorClass, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Class, true
	}
	return "", false
}

// IsContract returns true if the error is classified as a contract violation.
func IsContract(err error) bool {
	c, ok := classOf(err)
	return ok && c == ErrorClassContract
}

// IsAdvisory returns true if the error is classified as advisory.
func IsAdvisory(err error) bool {
	c, ok := classOf(err)
	return ok && c == ErrorClassAdvisory
}

// IsSink returns true if the error is classified as a sink failure.
func IsSink(err error) bool {
	c, ok := classOf(err)
	return ok && c == ErrorClassSink
}

// IsInput returns true if the error is classified as an input failure.
func IsInput(err error) bool {
	c, ok := classOf(err)
	return ok && c == ErrorClassInput
}

// Common error codes.
const (
	ErrCodeUnknownOption = "UNKNOWN_OPTION"
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeSchema        = "SCHEMA_ERROR"
	ErrCodeDecode        = "DECODE_ERROR"
	ErrCodeStructure     = "STRUCTURE_ERROR"
	ErrCodeClipboard     = "CLIPBOARD_FAILED"
)
