package backends

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Backend defines the transport interface every messaging driver implements
type Backend interface {
	// Declare makes sure the named queue exists on the broker
	Declare(ctx context.Context, queue string) error

	// Publish sends a message to the named queue
	Publish(ctx context.Context, queue string, msg *Message) error

	// Get fetches a single message from the queue without blocking.
	// Returns ErrQueueEmpty when nothing is waiting.
	Get(ctx context.Context, queue string) (*Message, error)

	// Ack acknowledges a message previously returned by Get
	Ack(ctx context.Context, msg *Message) error

	// Purge discards every waiting message and reports how many were removed
	Purge(ctx context.Context, queue string) (int, error)

	// Close releases resources used by the backend
	Close() error
}

// Factory creates a backend instance with optional driver configuration
type Factory func(config any) (Backend, error)

// Type is the entry value a backend module exports under EntrySymbol.
// Resolving a name yields a *Type; instantiation is left to the caller.
type Type struct {
	// Name is the short, human readable driver name (e.g. "amqp")
	Name string

	// Module is the identifier the type was registered under
	Module string

	// Description is a one-line summary shown by tooling
	Description string

	// New constructs a connected backend from driver configuration
	New Factory
}

// Create instantiates the backend with the given configuration.
func (t *Type) Create(config any) (Backend, error) {
	if t.New == nil {
		return nil, &InvalidBackendError{Module: t.Module, Symbol: EntrySymbol}
	}
	return t.New(config)
}

// Message is the envelope passed between producers and backends
type Message struct {
	ID          string            `json:"id"`
	Body        []byte            `json:"body"`
	ContentType string            `json:"content_type,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`

	// DeliveryTag is assigned by the backend on Get and consumed by Ack
	DeliveryTag string `json:"-"`
}

// NewMessage creates a message with a fresh ID and timestamp
func NewMessage(body []byte, contentType string) *Message {
	return &Message{
		ID:          uuid.NewString(),
		Body:        body,
		ContentType: contentType,
		Headers:     make(map[string]string),
		Timestamp:   time.Now().UTC(),
	}
}

// EncodeMessage serializes a message for drivers that store raw bytes
func EncodeMessage(msg *Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage is the inverse of EncodeMessage
func DecodeMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
