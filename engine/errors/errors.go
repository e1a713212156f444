// Package errors provides custom error types and error handling utilities for the engine.
package errors

import (
	"fmt"
)

// Error codes for different types of errors
const (
	ErrCodeUnknown               = "unknown_error"
	ErrCodeStorage               = "storage_error"
	ErrCodeCodec                 = "codec_error"
	ErrCodeUnsupportedComparator = "unsupported_comparator"
	ErrCodeInvalidOperand        = "invalid_operand"
	ErrCodeUnresolvableFilter    = "unresolvable_filter"
	ErrCodeMultiValuedIndexCount = "multi_valued_index_count"
)

// EngineError represents a custom error type for the engine
type EngineError struct {
	Code    string
	Message string
	Op      string
	Err     error
}

// Error implements the error interface
func (e *EngineError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// Unwrap implements the unwrap interface for error chaining
func (e *EngineError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target error
func (e *EngineError) Is(target error) bool {
	if t, ok := target.(*EngineError); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a new EngineError
func New(code, message string) *EngineError {
	return &EngineError{
		Code:    code,
		Message: message,
	}
}

// Errorf creates a new EngineError with formatted message
func Errorf(code, format string, args ...interface{}) *EngineError {
	return &EngineError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error with context
func Wrap(err error, code, op string) *EngineError {
	return &EngineError{
		Code:    code,
		Message: err.Error(),
		Op:      op,
		Err:     err,
	}
}

// HasCode reports whether err is an EngineError carrying the given code.
func HasCode(err error, code string) bool {
	for err != nil {
		if e, ok := err.(*EngineError); ok && e.Code == code {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
