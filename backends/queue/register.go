package queue

import (
	"github.com/ajiwo/carrot/backends"
)

// Module is the identifier this backend is registered under
const Module = backends.Namespace + "queue"

func init() {
	backends.Register(Module, &backends.Type{
		Name:        "memory",
		Description: "in-process FIFO queue",
		New: func(config any) (backends.Backend, error) {
			// Memory backend doesn't need configuration
			return New(), nil
		},
	})
}
