package backends

import (
	"errors"
	"fmt"
)

var (
	// ErrBackendNotFound is returned when the module derived from a backend name is not registered.
	ErrBackendNotFound = errors.New("backend not found")

	// ErrInvalidBackend is returned when a module is registered but does not export a usable entry symbol.
	ErrInvalidBackend = errors.New("invalid backend")

	// ErrInvalidConfig is returned when the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid backend configuration")

	// ErrQueueEmpty is returned by Get when no message is waiting.
	ErrQueueEmpty = errors.New("queue is empty")
)

// BackendNotFoundError reports a module identifier that could not be loaded.
type BackendNotFoundError struct {
	Name   string // name as supplied by the caller
	Module string // module identifier that was looked up
	Source Source // how Module was derived from Name
}

func (e *BackendNotFoundError) Error() string {
	return fmt.Sprintf("%s: %q (module %q via %s)", ErrBackendNotFound, e.Name, e.Module, e.Source)
}

// Is allows matching against ErrBackendNotFound.
func (e *BackendNotFoundError) Is(target error) bool {
	return target == ErrBackendNotFound
}

// InvalidBackendError reports a module that lacks the required entry symbol.
type InvalidBackendError struct {
	Module string
	Symbol string
}

func (e *InvalidBackendError) Error() string {
	return fmt.Sprintf("%s: module %q does not export %q", ErrInvalidBackend, e.Module, e.Symbol)
}

// Is allows matching against ErrInvalidBackend.
func (e *InvalidBackendError) Is(target error) bool {
	return target == ErrInvalidBackend
}

// NewInvalidConfigError reports a driver receiving a config it cannot use.
func NewInvalidConfigError(driver string, config any) error {
	return fmt.Errorf("%w: %s backend cannot use %T", ErrInvalidConfig, driver, config)
}
