package backends

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnhealthy is a sentinel used to signal that a broker is unreachable.
var ErrUnhealthy = errors.New("backend unhealthy")

// HealthError wraps a driver error caused by broker connectivity.
type HealthError struct {
	Op    string // driver operation, e.g. "amqp:Dial" or "redis:RPop"
	Cause error
}

// Error renders "backend unhealthy: <op>: <cause>", omitting an empty op.
func (e *HealthError) Error() string {
	if e == nil {
		return ErrUnhealthy.Error()
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %v", ErrUnhealthy, e.Op, e.Cause)
	}
	return fmt.Sprintf("%s: %v", ErrUnhealthy, e.Cause)
}

func (e *HealthError) Unwrap() error { return e.Cause }

// Is matches ErrUnhealthy.
func (e *HealthError) Is(target error) bool {
	return target == ErrUnhealthy
}

// NewHealthError wraps cause with the failing operation.
// A nil cause yields the bare sentinel.
func NewHealthError(op string, cause error) error {
	if cause == nil {
		return ErrUnhealthy
	}
	return &HealthError{Op: op, Cause: cause}
}

// IsHealthError reports whether err was caused by broker connectivity.
func IsHealthError(err error) bool {
	if errors.Is(err, ErrUnhealthy) {
		return true
	}
	var he *HealthError
	return errors.As(err, &he)
}

// ConnErrorPatterns are lowercase fragments of network failures shared by the drivers.
var ConnErrorPatterns = []string{
	"connection refused",
	"connection reset",
	"network is unreachable",
	"no such host",
	"i/o timeout",
	"broken pipe",
	"use of closed network connection",
}

// MaybeConnError turns err into a HealthError when it matches one of patterns
// or is a context cancellation. Other errors are returned unchanged.
func MaybeConnError(op string, err error, patterns []string) error {
	if err == nil {
		return nil
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range patterns {
		if strings.Contains(msg, pattern) {
			return NewHealthError(op, err)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewHealthError(op, err)
	}
	return err
}
