package stomp

import (
	"github.com/ajiwo/carrot/backends"
)

// Module is the identifier this backend is registered under
const Module = backends.Namespace + "pystomp"

func init() {
	backends.Register(Module, &backends.Type{
		Name:        "stomp",
		Description: "STOMP 1.2 broker (ActiveMQ, RabbitMQ stomp plugin)",
		New: func(config any) (backends.Backend, error) {
			switch cfg := config.(type) {
			case nil:
				return New(Config{})
			case Config:
				return New(cfg)
			case *Config:
				return New(*cfg)
			default:
				return nil, backends.NewInvalidConfigError("stomp", config)
			}
		},
	})
}
