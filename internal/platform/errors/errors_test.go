package errors

import (
	"context"
	"fmt"
	"testing"

	"subhound/internal/testutil"
)

func TestWrap(t *testing.T) {
	t.Run("wraps error with context", func(t *testing.T) {
		baseErr := New("base error")
		wrapped := Wrap(baseErr, "additional context")

		testutil.AssertTrue(t, Is(wrapped, baseErr), "should be able to unwrap to base error")
		testutil.AssertEqual(t, wrapped.Error(), "additional context: base error", "message")
	})

	t.Run("returns nil when wrapping nil", func(t *testing.T) {
		testutil.AssertTrue(t, Wrap(nil, "context") == nil, "wrapping nil should return nil")
		testutil.AssertTrue(t, Wrapf(nil, "context %d", 1) == nil, "wrapping nil should return nil")
	})

	t.Run("multiple wraps preserve chain", func(t *testing.T) {
		wrapped := Wrap(Wrap(ErrTimeout, "layer 1"), "layer 2")

		testutil.AssertTrue(t, Is(wrapped, ErrTimeout), "should unwrap to sentinel")
		testutil.AssertEqual(t, wrapped.Error(), "layer 2: layer 1: operation timed out", "full chain")
	})
}

func TestInvalidInputAndInternal(t *testing.T) {
	err := InvalidInput("unknown method %q", "bogus")
	testutil.AssertTrue(t, IsInvalidInput(err), "should be invalid input")
	testutil.AssertFalse(t, IsInternal(err), "should not be internal")
	testutil.AssertContains(t, err.Error(), "bogus", "message carries the offending value")

	err = Internal("no adapter for %s", "dns")
	testutil.AssertTrue(t, IsInternal(err), "should be internal")
	testutil.AssertFalse(t, IsInvalidInput(err), "should not be invalid input")
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"deadline exceeded", context.DeadlineExceeded, ErrTimeout},
		{"wrapped deadline", fmt.Errorf("get: %w", context.DeadlineExceeded), ErrTimeout},
		{"net timeout", timeoutErr{}, ErrTimeout},
		{"plain error", New("connection refused"), ErrServiceUnavailable},
		{"keeps sentinel", Wrap(ErrRateLimit, "429"), ErrRateLimit},
		{"keeps invalid response", Wrap(ErrInvalidResponse, "bad json"), ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertTrue(t, Is(Classify(tt.err), tt.target), "classified kind")
		})
	}

	testutil.AssertNil(t, Classify(nil), "nil stays nil")
}

func TestReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "none"},
		{Wrap(ErrTimeout, "x"), "timeout"},
		{ErrRateLimit, "rate_limit"},
		{ErrUnauthorized, "unauthorized"},
		{ErrInvalidResponse, "invalid_response"},
		{ErrServiceUnavailable, "unavailable"},
		{New("other"), "unavailable"},
	}

	for _, tt := range tests {
		testutil.AssertEqual(t, Reason(tt.err), tt.want, "reason")
	}
}
