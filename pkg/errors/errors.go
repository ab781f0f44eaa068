// Package errors provides coded errors for simcluster.
//
// Every failure a user can cause or observe carries a [Code], so the CLI and
// library callers can tell bad arguments from I/O trouble without matching
// strings:
//
//	if errors.Is(err, errors.ErrCodeInvalidPath) {
//	    // the output location is wrong, not the frame
//	}
//
// Codes:
//
//   - INVALID_INPUT: star count or dimensions out of range
//   - INVALID_FORMAT: unknown stretch or boundary, unreadable FITS
//   - INVALID_PATH: output path cannot be written
//   - INVALID_CONFIG: bad TOML profile
//   - IO_ERROR, FILE_NOT_FOUND: file system failures
//   - NETWORK_ERROR: cache backend unreachable
//   - INTERNAL_ERROR: a bug
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error category.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	ErrCodeIO           Code = "IO_ERROR"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeNetwork      Code = "NETWORK_ERROR"

	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error pairs a Code with a message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	s := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error with a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// Usage reports whether err was caused by the invocation itself (arguments,
// paths or profile) rather than by a failure while running.
func Usage(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidPath, ErrCodeInvalidConfig:
		return true
	}
	return false
}

// UserMessage renders err for humans: the message and cause without the
// code prefix. Other errors are returned as is.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}
