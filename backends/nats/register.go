package nats

import (
	"github.com/ajiwo/carrot/backends"
)

// Module is the qualified identifier this backend is registered under.
// It lives outside the carrot.backends namespace, so callers must name it
// in full.
const Module = "github.com/ajiwo/carrot/backends/nats"

func init() {
	backends.Register(Module, &backends.Type{
		Name:        "nats",
		Description: "core NATS subjects with a shared queue group",
		New: func(config any) (backends.Backend, error) {
			switch cfg := config.(type) {
			case nil:
				return New(Config{})
			case Config:
				return New(cfg)
			case *Config:
				return New(*cfg)
			default:
				return nil, backends.NewInvalidConfigError("nats", config)
			}
		},
	})
}
