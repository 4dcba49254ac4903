package postgres

import (
	"github.com/ajiwo/carrot/backends"
)

// Module is the identifier this backend is registered under
const Module = backends.Namespace + "postgres"

func init() {
	backends.Register(Module, &backends.Type{
		Name:        "postgres",
		Description: "PostgreSQL table queue",
		New: func(config any) (backends.Backend, error) {
			var cfg Config
			switch c := config.(type) {
			case Config:
				cfg = c
			case *Config:
				cfg = *c
			default:
				return nil, backends.NewInvalidConfigError("postgres", config)
			}
			if cfg.ConnString == "" {
				return nil, backends.ErrInvalidConfig
			}
			return New(cfg)
		},
	})
}
