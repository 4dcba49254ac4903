package amqp

import (
	"github.com/ajiwo/carrot/backends"
)

// Module is the identifier this backend is registered under
const Module = backends.Namespace + "pyamqplib"

func init() {
	backends.Register(Module, &backends.Type{
		Name:        "amqp",
		Description: "AMQP 0-9-1 broker (RabbitMQ)",
		New: func(config any) (backends.Backend, error) {
			switch cfg := config.(type) {
			case nil:
				return New(Config{})
			case Config:
				return New(cfg)
			case *Config:
				return New(*cfg)
			default:
				return nil, backends.NewInvalidConfigError("amqp", config)
			}
		},
	})
}
