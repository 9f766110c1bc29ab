package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies an application error
type ErrorType string

const (
	ErrTypeParsing    ErrorType = "PARSING"
	ErrTypeStorage    ErrorType = "STORAGE"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
	ErrTypeConfig     ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// ErrMissingInput matches every MissingInputError through errors.Is
var ErrMissingInput = errors.New("input data unavailable")

// MissingInputError reports a dataset or file that does not exist. It is
// raised by the ingest and storage layers only.
type MissingInputError struct {
	Dataset string
	Path    string
	Hint    string
}

// NewMissingInputError creates a MissingInputError
func NewMissingInputError(dataset, path, hint string) *MissingInputError {
	return &MissingInputError{Dataset: dataset, Path: path, Hint: hint}
}

func (e *MissingInputError) Error() string {
	msg := fmt.Sprintf("%s data unavailable", e.Dataset)
	if e.Path != "" {
		msg += fmt.Sprintf(" (%s not found)", e.Path)
	}
	if e.Hint != "" {
		msg += ": " + e.Hint
	}
	return msg
}

// Is makes errors.Is(err, ErrMissingInput) hold
func (e *MissingInputError) Is(target error) bool {
	return target == ErrMissingInput
}

// IsMissingInput reports whether err is or wraps a MissingInputError
func IsMissingInput(err error) bool {
	return errors.Is(err, ErrMissingInput)
}
