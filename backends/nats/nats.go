package nats

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/ajiwo/carrot/backends"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

const (
	// DefaultPollTimeout bounds how long Get waits for a message
	DefaultPollTimeout = 100 * time.Millisecond

	// queueGroup makes every carrot consumer of a subject share deliveries
	queueGroup = "carrot"
)

type Config = backends.NATSConfig

// Backend maps queues onto core NATS subjects with a shared queue group.
// Core NATS does not persist messages, so only messages published after
// Declare (or the first Get) are delivered, and Ack is a no-op.
type Backend struct {
	conn   *nats.Conn
	config Config
	log    zerolog.Logger

	mu      sync.Mutex
	subs    map[string]*nats.Subscription
	nextTag uint64
}

// New connects to the NATS server.
func New(config Config) (*Backend, error) {
	if config.URL == "" {
		config.URL = nats.DefaultURL
	}
	if config.MaxReconnects == 0 {
		config.MaxReconnects = 10
	}
	if config.ReconnectWait == 0 {
		config.ReconnectWait = 2 * time.Second
	}
	if config.Timeout == 0 {
		config.Timeout = 5 * time.Second
	}
	if config.PollTimeout <= 0 {
		config.PollTimeout = DefaultPollTimeout
	}

	logger := backends.Logger("nats")
	opts := []nats.Option{
		nats.Name("carrot"),
		nats.MaxReconnects(config.MaxReconnects),
		nats.ReconnectWait(config.ReconnectWait),
		nats.Timeout(config.Timeout),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info().Str("url", nc.ConnectedUrl()).Msg("reconnected")
		}),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn().Err(err).Msg("disconnected")
		}),
	}

	conn, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, backends.NewHealthError("nats:Connect", NewConnectionFailedError(config.URL, err))
	}

	logger.Debug().Str("url", conn.ConnectedUrl()).Msg("connected")
	return &Backend{
		conn:   conn,
		config: config,
		log:    logger,
		subs:   make(map[string]*nats.Subscription),
	}, nil
}

// subscription returns the synchronous queue subscription for queue
func (b *Backend) subscription(queue string) (*nats.Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sub, ok := b.subs[queue]; ok {
		return sub, nil
	}
	sub, err := b.conn.QueueSubscribeSync(queue, queueGroup)
	if err != nil {
		return nil, err
	}
	b.subs[queue] = sub
	return sub, nil
}

func (b *Backend) Declare(ctx context.Context, queue string) error {
	if _, err := b.subscription(queue); err != nil {
		return b.wrap("nats:Subscribe", NewSubscribeFailedError(queue, err))
	}
	return b.flush(queue)
}

// flush waits for the server to register queue's subscription.
func (b *Backend) flush(queue string) error {
	if err := b.conn.FlushTimeout(b.config.Timeout); err != nil {
		return b.wrap("nats:Flush", NewSubscribeFailedError(queue, err))
	}
	return nil
}

func (b *Backend) Publish(ctx context.Context, queue string, msg *backends.Message) error {
	if msg == nil {
		return ErrNilMessage
	}
	payload, err := backends.EncodeMessage(msg)
	if err != nil {
		return NewPublishFailedError(queue, err)
	}

	if err := b.conn.Publish(queue, payload); err != nil {
		return b.wrap("nats:Publish", NewPublishFailedError(queue, err))
	}
	if err := b.conn.FlushTimeout(b.config.Timeout); err != nil {
		return b.wrap("nats:Flush", NewPublishFailedError(queue, err))
	}
	return nil
}

func (b *Backend) Get(ctx context.Context, queue string) (*backends.Message, error) {
	sub, err := b.subscription(queue)
	if err != nil {
		return nil, b.wrap("nats:Subscribe", NewSubscribeFailedError(queue, err))
	}

	pollCtx, cancel := context.WithTimeout(ctx, b.config.PollTimeout)
	defer cancel()

	natsMsg, err := sub.NextMsgWithContext(pollCtx)
	if err != nil {
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			return nil, backends.ErrQueueEmpty
		}
		return nil, b.wrap("nats:NextMsg", NewGetFailedError(queue, err))
	}

	msg, err := backends.DecodeMessage(natsMsg.Data)
	if err != nil {
		return nil, NewDecodeFailedError(queue, err)
	}

	b.mu.Lock()
	b.nextTag++
	msg.DeliveryTag = strconv.FormatUint(b.nextTag, 10)
	b.mu.Unlock()
	return msg, nil
}

// Ack is a no-op; core NATS delivers at most once.
func (b *Backend) Ack(ctx context.Context, msg *backends.Message) error {
	if msg == nil {
		return ErrNilMessage
	}
	return nil
}

// Purge drops the messages buffered for the local subscription.
func (b *Backend) Purge(ctx context.Context, queue string) (int, error) {
	n := 0
	for {
		_, err := b.Get(ctx, queue)
		if errors.Is(err, backends.ErrQueueEmpty) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		n++
	}
}

func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for queue, sub := range b.subs {
		if err := sub.Unsubscribe(); err != nil {
			b.log.Warn().Err(err).Str("queue", queue).Msg("unsubscribe failed")
		}
		delete(b.subs, queue)
	}
	if err := b.conn.Drain(); err != nil {
		b.conn.Close()
		return NewCloseFailedError(err)
	}
	return nil
}

func (b *Backend) wrap(op string, err error) error {
	if !b.conn.IsConnected() {
		return backends.NewHealthError(op, err)
	}
	return backends.MaybeConnError(op, err, backends.ConnErrorPatterns)
}
