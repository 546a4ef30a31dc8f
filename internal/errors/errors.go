package errors

import (
	"errors"
	"fmt"
)

// Error types for the sortid system
type ErrorType string

const (
	// Decoding errors
	ErrorTypeInvalidLength ErrorType = "invalid_length"
	ErrorTypeInvalidDigit  ErrorType = "invalid_digit"

	// Configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// Sentinel errors for use with errors.Is
var (
	ErrInvalidStrLen = &DecodeError{Type: ErrorTypeInvalidLength}
	ErrInvalidDigit  = &DecodeError{Type: ErrorTypeInvalidDigit}
	ErrConfig        = &ConfigError{Type: ErrorTypeConfig}
)

// DecodeError reports why a text identifier could not be parsed.
// Length-mismatch errors carry Length and Expected; digit errors carry Byte
// and Position.
type DecodeError struct {
	Type       ErrorType
	Input      string
	Length     int
	Expected   int
	Byte       byte
	Position   int
	Underlying error
}

// NewLengthError creates an invalid-length error for input.
func NewLengthError(input string, expected int) *DecodeError {
	return &DecodeError{
		Type:     ErrorTypeInvalidLength,
		Input:    input,
		Length:   len(input),
		Expected: expected,
	}
}

// NewDigitError creates an invalid-digit error for the byte at pos.
func NewDigitError(input string, pos int, underlying error) *DecodeError {
	return &DecodeError{
		Type:       ErrorTypeInvalidDigit,
		Input:      input,
		Length:     len(input),
		Byte:       input[pos],
		Position:   pos,
		Underlying: underlying,
	}
}

// Error implements the error interface
func (e *DecodeError) Error() string {
	switch e.Type {
	case ErrorTypeInvalidLength:
		return fmt.Sprintf("decoding error: string must be exactly %d characters, got %d", e.Expected, e.Length)
	case ErrorTypeInvalidDigit:
		return fmt.Sprintf("decoding error: invalid digit: %q at position %d", e.Byte, e.Position)
	default:
		return fmt.Sprintf("decoding error: %s", e.Type)
	}
}

// Unwrap returns the underlying error for errors.Is/As
func (e *DecodeError) Unwrap() error {
	return e.Underlying
}

// Is matches any DecodeError of the same Type.
func (e *DecodeError) Is(target error) bool {
	var de *DecodeError
	if errors.As(target, &de) {
		return e.Type == de.Type
	}
	return false
}

// ConfigError represents a configuration error
type ConfigError struct {
	Type       ErrorType
	Field      string
	Value      string
	Underlying error
}

// NewConfigError creates a new config error
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Type:       ErrorTypeConfig,
		Field:      field,
		Value:      value,
		Underlying: err,
	}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("config error for field %s: %v", e.Field, e.Underlying)
	}
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// Is matches any ConfigError, so callers can tell configuration failures
// from decode failures with errors.Is(err, ErrConfig).
func (e *ConfigError) Is(target error) bool {
	var ce *ConfigError
	if errors.As(target, &ce) {
		return e.Type == ce.Type
	}
	return false
}

// MultiError represents multiple errors
type MultiError struct {
	Errors []error
}

// NewMultiError creates a new multi-error
func NewMultiError(errs []error) *MultiError {
	// Filter out nil errors
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}

// ErrOrNil returns nil when no errors were collected.
func (e *MultiError) ErrOrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}

// Error implements the error interface
func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
}

// Unwrap returns all errors
func (e *MultiError) Unwrap() []error {
	return e.Errors
}
