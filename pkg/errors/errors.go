// Package errors provides structured error handling for the power-grid-model
// dataset converter.
package errors

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeInternal represents internal system errors
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeUnknownComponent represents schema lookups for a component
	// that is not registered for the requested data type
	ErrorTypeUnknownComponent ErrorType = "unknown_component"
	// ErrorTypeUnknownAttribute represents attributes that are not part of a
	// component's registered schema
	ErrorTypeUnknownAttribute ErrorType = "unknown_attribute"
	// ErrorTypeInvalidAttributeValue represents values that cannot be stored
	// in an attribute's storage kind
	ErrorTypeInvalidAttributeValue ErrorType = "invalid_attribute_value"
	// ErrorTypeUnsupportedKind represents unrecognized storage kinds
	ErrorTypeUnsupportedKind ErrorType = "unsupported_kind"
	// ErrorTypeInvalidDataFormat represents malformed single datasets
	ErrorTypeInvalidDataFormat ErrorType = "invalid_data_format"
	// ErrorTypeInvalidBatchFormat represents malformed batch datasets
	ErrorTypeInvalidBatchFormat ErrorType = "invalid_batch_format"
	// ErrorTypeMixedBatchData represents datasets mixing batch and non-batch
	// components
	ErrorTypeMixedBatchData ErrorType = "mixed_batch_data"
	// ErrorTypeInvalidExtraInfoType represents extra info that is not an
	// identity-keyed mapping
	ErrorTypeInvalidExtraInfoType ErrorType = "invalid_extra_info_type"
	// ErrorTypeInvalidDataType represents record data that is neither a
	// record set nor a list of record sets
	ErrorTypeInvalidDataType ErrorType = "invalid_data_type"
	// ErrorTypeUnsupportedFormat represents unrecognized interchange formats
	ErrorTypeUnsupportedFormat ErrorType = "unsupported_format"
	// ErrorTypeConflict represents conflicting registrations
	ErrorTypeConflict ErrorType = "conflict"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeFile represents file operation errors
	ErrorTypeFile ErrorType = "file"
)

// Error represents a structured error with context
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame represents a single frame in the call stack
type StackFrame struct {
	Function string
	File     string
	Line     int
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key-value detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new error with the given type and message
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Newf creates a new error with a formatted message
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	// If already our error type, preserve the stack
	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// IsType checks if the error is of the given type
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// GetType returns the structured type of err. Errors that carry no
// structured type report ErrorTypeInternal.
func GetType(err error) ErrorType {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeInternal
}

// captureStack captures the current call stack
func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	frames := make([]StackFrame, 0, maxFrames)

	for i := skip; i < maxFrames+skip; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		frames = append(frames, StackFrame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}

	return frames
}
