// Package errors provides the error taxonomy shared by subhound packages.
// It extends the standard errors package with sentinel kinds and wrapping helpers.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Sentinel errors. Every error that crosses a package boundary wraps one of these.
var (
	// ErrInvalidInput indicates a malformed domain or an unknown discovery method.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal indicates a defect in the discovery engine itself.
	ErrInternal = errors.New("internal error")

	// ErrTimeout indicates an operation exceeded its time limit
	ErrTimeout = errors.New("operation timed out")

	// ErrRateLimit indicates an upstream rate limit was hit
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrNotFound indicates a requested resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized indicates authentication or authorization failed
	ErrUnauthorized = errors.New("unauthorized")

	// ErrServiceUnavailable indicates an upstream service could not be reached
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrInvalidResponse indicates a response could not be parsed or was malformed
	ErrInvalidResponse = errors.New("invalid response")
)

// wrappedError wraps an error with additional context
type wrappedError struct {
	msg   string
	cause error
}

func (e *wrappedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *wrappedError) Unwrap() error {
	return e.cause
}

// Wrap wraps an error with additional context message.
// If err is nil, Wrap returns nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{msg: msg, cause: err}
}

// Wrapf wraps an error with a formatted context message.
// If err is nil, Wrapf returns nil.
//
// Example:
//
//	if err := probe(host); err != nil {
//	    return errors.Wrapf(err, "probe %s", host)
//	}
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &wrappedError{msg: fmt.Sprintf(format, args...), cause: err}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// New creates a new error with the given message.
func New(msg string) error {
	return errors.New(msg)
}

// Errorf formats according to a format specifier and returns the string as a value that satisfies error.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// InvalidInput returns an ErrInvalidInput carrying a client-facing message.
func InvalidInput(format string, args ...interface{}) error {
	return Wrapf(ErrInvalidInput, format, args...)
}

// Internal returns an ErrInternal with context.
func Internal(format string, args ...interface{}) error {
	return Wrapf(ErrInternal, format, args...)
}

// Classify maps transport level failures onto the sentinel kinds.
// Errors already carrying a sentinel are returned untouched.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	for _, kind := range []error{
		ErrInvalidInput, ErrInternal, ErrTimeout, ErrRateLimit, ErrNotFound,
		ErrUnauthorized, ErrServiceUnavailable, ErrInvalidResponse,
	} {
		if errors.Is(err, kind) {
			return err
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Wrap(ErrTimeout, err.Error())
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Wrap(ErrTimeout, err.Error())
	}

	return Wrap(ErrServiceUnavailable, err.Error())
}

// Reason returns a short label for the sentinel kind of err, used as a metric label.
func Reason(err error) string {
	switch {
	case err == nil:
		return "none"
	case Is(err, ErrTimeout):
		return "timeout"
	case Is(err, ErrRateLimit):
		return "rate_limit"
	case Is(err, ErrUnauthorized):
		return "unauthorized"
	case Is(err, ErrInvalidResponse):
		return "invalid_response"
	case Is(err, ErrNotFound):
		return "not_found"
	case Is(err, ErrInvalidInput):
		return "invalid_input"
	case Is(err, ErrInternal):
		return "internal"
	default:
		return "unavailable"
	}
}

// IsTimeout reports whether the error is a timeout error
func IsTimeout(err error) bool {
	return Is(err, ErrTimeout)
}

// IsInvalidInput reports whether the error is an invalid input error
func IsInvalidInput(err error) bool {
	return Is(err, ErrInvalidInput)
}

// IsInternal reports whether the error is an internal error
func IsInternal(err error) bool {
	return Is(err, ErrInternal)
}
