package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies the failures a pipeline item can hit
type ErrorType string

const (
	ErrorTypeConfig    ErrorType = "config"
	ErrorTypeResolve   ErrorType = "resolve"
	ErrorTypeTransport ErrorType = "transport"
	ErrorTypeDecode    ErrorType = "decode"
	ErrorTypePersist   ErrorType = "persist"
	ErrorTypeUnknown   ErrorType = "unknown"
)

// Error represents a classified error for a single identifier and step
type Error struct {
	Type    ErrorType
	URL     string
	Message string
	Code    int // HTTP status for transport errors, 0 otherwise
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Code != 0:
		return fmt.Sprintf("%s error (status %d): %s", e.Type, e.Code, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s error: %s: %v", e.Type, e.Message, e.Err)
	default:
		return fmt.Sprintf("%s error: %s", e.Type, e.Message)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error without an underlying cause
func New(t ErrorType, url, message string) *Error {
	return &Error{Type: t, URL: url, Message: message}
}

// Wrap creates a classified error around an underlying cause
func Wrap(t ErrorType, url, message string, err error) *Error {
	return &Error{Type: t, URL: url, Message: message, Err: err}
}

// TypeOf returns the classification of err, or ErrorTypeUnknown for
// errors that did not originate in this module
func TypeOf(err error) ErrorType {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// IsType checks whether err carries the given classification
func IsType(err error, t ErrorType) bool {
	return TypeOf(err) == t
}

// IsFatalForBatch reports whether an error should abort a whole batch
// instead of being recorded against a single identifier. Only
// configuration problems detected before dispatch qualify.
func IsFatalForBatch(err error) bool {
	return TypeOf(err) == ErrorTypeConfig
}
