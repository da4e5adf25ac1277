package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the kinds of failure a labeling session can hit
type ErrorType string

const (
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeFormat       ErrorType = "format"
	ErrorTypeInvalidInput ErrorType = "invalid_input"
	ErrorTypeStorageWrite ErrorType = "storage_write"
	ErrorTypeUnknown      ErrorType = "unknown"
)

// Error carries a failure type alongside the underlying cause
type Error struct {
	Type    ErrorType
	Message string
	Path    string
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s error: %s", e.Type, e.Message)
	if e.Path != "" {
		msg += fmt.Sprintf(" (%s)", e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound reports a path that does not resolve to an existing file
func NotFound(path string, err error) *Error {
	return &Error{Type: ErrorTypeNotFound, Message: "file does not exist", Path: path, Err: err}
}

// Format reports content that cannot be read as a record table
func Format(path, message string, err error) *Error {
	return &Error{Type: ErrorTypeFormat, Message: message, Path: path, Err: err}
}

// InvalidInput reports a keystroke outside the accepted rating keys
func InvalidInput(key rune) *Error {
	return &Error{Type: ErrorTypeInvalidInput, Message: fmt.Sprintf("unexpected key %q", key)}
}

// StorageWrite reports a failed save of the record table
func StorageWrite(path string, err error) *Error {
	return &Error{Type: ErrorTypeStorageWrite, Message: "failed to save table", Path: path, Err: err}
}

// TypeOf returns the ErrorType of the first *Error in err's chain
func TypeOf(err error) ErrorType {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// Is reports whether err carries the given ErrorType
func Is(err error, errorType ErrorType) bool {
	return err != nil && TypeOf(err) == errorType
}

// IsRecoverable checks if an error type is handled by re-prompting the user
func IsRecoverable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeNotFound, ErrorTypeFormat, ErrorTypeInvalidInput:
		return true
	case ErrorTypeStorageWrite:
		return false
	default:
		return false
	}
}
