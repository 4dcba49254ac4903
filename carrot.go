// Package carrot resolves messaging backend names to driver types and opens
// connections through them.
//
// Short names are mapped through an alias table ("amqp", "stomp", "memory")
// onto modules in the carrot.backends namespace; names containing a dot are
// taken as fully-qualified module identifiers. Every built-in driver is
// linked in by this package.
package carrot

import (
	"fmt"

	"github.com/ajiwo/carrot/backends"
	_ "github.com/ajiwo/carrot/backends/amqp"
	_ "github.com/ajiwo/carrot/backends/nats"
	_ "github.com/ajiwo/carrot/backends/postgres"
	_ "github.com/ajiwo/carrot/backends/queue"
	_ "github.com/ajiwo/carrot/backends/redis"
	_ "github.com/ajiwo/carrot/backends/stomp"
)

// Init selects the process-wide default backend. Without WithSettings or
// WithConfigFile the default search path and CARROT_* environment are used.
// Only the first call has an effect on the default; a returned error means
// no default backend is usable.
func Init(opts ...Option) error {
	o := &options{}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if o.logger != nil {
		backends.SetLogger(*o.logger)
	}

	return backends.Init(o.hostSettings())
}

// Resolve returns the backend type name refers to.
func Resolve(name string) (*backends.Type, error) {
	return backends.Resolve(name)
}

// DefaultBackend returns the process-wide default backend type.
func DefaultBackend() (*backends.Type, error) {
	return backends.DefaultBackendType()
}

// Create resolves name and instantiates it with a driver-specific config.
func Create(name string, config any) (backends.Backend, error) {
	return backends.Create(name, config)
}

// Open resolves name and connects using the matching section of cfg.
func Open(name string, cfg Config) (backends.Backend, error) {
	t, err := backends.Resolve(name)
	if err != nil {
		return nil, err
	}
	return t.Create(cfg.DriverConfig(t))
}

// OpenDefault connects to the process-wide default backend.
func OpenDefault(cfg Config) (backends.Backend, error) {
	t, err := backends.DefaultBackendType()
	if err != nil {
		return nil, err
	}
	return t.Create(cfg.DriverConfig(t))
}
