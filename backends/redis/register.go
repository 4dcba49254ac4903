package redis

import (
	"github.com/ajiwo/carrot/backends"
)

// Module is the identifier this backend is registered under
const Module = backends.Namespace + "redis"

func init() {
	backends.Register(Module, &backends.Type{
		Name:        "redis",
		Description: "redis list queue",
		New: func(config any) (backends.Backend, error) {
			switch cfg := config.(type) {
			case nil:
				return New(Config{})
			case Config:
				return New(cfg)
			case *Config:
				return New(*cfg)
			default:
				return nil, backends.NewInvalidConfigError("redis", config)
			}
		},
	})
}
