package queue

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/ajiwo/carrot/backends"
)

// Backend is an in-process FIFO broker. It keeps nothing across restarts
// and is meant for tests and single-process use.
type Backend struct {
	locks  sync.Map // map[string]*sync.Mutex
	queues sync.Map // map[string]*[]*backends.Message

	unacked sync.Map // map[string]*backends.Message, keyed by delivery tag
	nextTag atomic.Uint64
	closed  atomic.Bool
}

// New initializes a new in-memory broker.
func New() *Backend {
	return &Backend{}
}

// getLock returns a mutex for the given queue
func (m *Backend) getLock(queue string) *sync.Mutex {
	actual, _ := m.locks.LoadOrStore(queue, &sync.Mutex{})
	return actual.(*sync.Mutex)
}

// messages returns the backing slice for queue, creating it when missing
func (m *Backend) messages(queue string) *[]*backends.Message {
	actual, _ := m.queues.LoadOrStore(queue, &[]*backends.Message{})
	return actual.(*[]*backends.Message)
}

func (m *Backend) Declare(ctx context.Context, queue string) error {
	if m.closed.Load() {
		return ErrClosed
	}
	m.messages(queue)
	return nil
}

func (m *Backend) Publish(ctx context.Context, queue string, msg *backends.Message) error {
	if m.closed.Load() {
		return ErrClosed
	}
	if msg == nil {
		return ErrNilMessage
	}

	lock := m.getLock(queue)
	lock.Lock()
	defer lock.Unlock()

	msgs := m.messages(queue)
	// Store a copy so later mutation by the producer is not observed by consumers
	stored := *msg
	*msgs = append(*msgs, &stored)
	return nil
}

func (m *Backend) Get(ctx context.Context, queue string) (*backends.Message, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}

	lock := m.getLock(queue)
	lock.Lock()
	defer lock.Unlock()

	msgs := m.messages(queue)
	if len(*msgs) == 0 {
		return nil, backends.ErrQueueEmpty
	}

	msg := (*msgs)[0]
	(*msgs)[0] = nil
	*msgs = (*msgs)[1:]

	msg.DeliveryTag = strconv.FormatUint(m.nextTag.Add(1), 10)
	m.unacked.Store(msg.DeliveryTag, msg)
	return msg, nil
}

func (m *Backend) Ack(ctx context.Context, msg *backends.Message) error {
	if msg == nil {
		return ErrNilMessage
	}
	if _, ok := m.unacked.LoadAndDelete(msg.DeliveryTag); !ok {
		return NewUnknownDeliveryTagError(msg.DeliveryTag)
	}
	return nil
}

// Pending returns the number of messages fetched but not yet acknowledged
func (m *Backend) Pending() int {
	n := 0
	m.unacked.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (m *Backend) Purge(ctx context.Context, queue string) (int, error) {
	if m.closed.Load() {
		return 0, ErrClosed
	}

	lock := m.getLock(queue)
	lock.Lock()
	defer lock.Unlock()

	msgs := m.messages(queue)
	n := len(*msgs)
	*msgs = nil
	return n, nil
}

func (m *Backend) Close() error {
	m.closed.Store(true)
	m.queues.Clear()
	m.unacked.Clear()
	return nil
}
