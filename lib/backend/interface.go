package backend

import (
	"errors"
	"fmt"

	"github.com/ValentinKolb/pKV/lib/value"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IBackend is the generic interface for snapshot persistence. A backend
// stores exactly one snapshot per location and replaces it wholesale on
// every write. Implementations must make Write atomic: a crash mid-write
// leaves either the previous snapshot or the new one, never a torn file.
type IBackend interface {
	// Read loads the snapshot stored at the backend's location.
	// If no snapshot has ever been written, a *Error with code
	// RetCNotFound is returned
	Read() (snapshot value.Mapping, err error)
	// Write atomically replaces the stored snapshot
	Write(snapshot value.Mapping) (err error)
	// Location returns a human-readable description of where the
	// backend persists data (e.g. a file path)
	Location() string
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode),
// an error message and optionally the underlying cause.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message
	Err  error   // The underlying cause, may be nil
}

// Error implements the error interface.
func (e *Error) Error() string {
	errorCode := ""
	switch e.Code {
	case RetCNotFound:
		errorCode = "NotFound"
	case RetCCorrupt:
		errorCode = "Corrupt"
	case RetCIOError:
		errorCode = "IOError"
	default:
		errorCode = "Unknown"
	}

	if e.Err != nil {
		return fmt.Sprintf("BackendError (code %s): %s: %v", errorCode, e.Msg, e.Err)
	}
	return fmt.Sprintf("BackendError (code %s): %s", errorCode, e.Msg)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new BackendError with the given code, message and cause.
func NewError(code RetCode, msg string, err error) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
		Err:  err,
	}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCNotFound RetCode = iota // 0: No snapshot has been written yet.
	RetCCorrupt                 // 1: A snapshot exists but cannot be decoded.
	RetCIOError                 // 2: Reading or writing the snapshot failed.
)

// IsNotFound reports whether err is a backend error with code RetCNotFound.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == RetCNotFound
}

// IsCorrupt reports whether err is a backend error with code RetCCorrupt.
func IsCorrupt(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == RetCCorrupt
}

// IsIOError reports whether err is a backend error with code RetCIOError.
func IsIOError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == RetCIOError
}
