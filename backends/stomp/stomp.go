package stomp

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ajiwo/carrot/backends"
	"github.com/go-stomp/stomp/v3"
	"github.com/go-stomp/stomp/v3/frame"
	"github.com/rs/zerolog"
)

const (
	// DefaultAddr is used when no broker address is configured
	DefaultAddr = "localhost:61613"

	// DefaultPollTimeout bounds how long Get waits for a frame
	DefaultPollTimeout = 100 * time.Millisecond

	headerID        = "carrot-id"
	headerTimestamp = "carrot-timestamp"
	headerPrefix    = "carrot-h-"
)

type Config = backends.STOMPConfig

// Backend talks STOMP 1.2 to brokers such as ActiveMQ or RabbitMQ's stomp plugin.
type Backend struct {
	conn   *stomp.Conn
	config Config
	log    zerolog.Logger

	mu      sync.Mutex
	subs    map[string]*stomp.Subscription
	pending map[string]*stomp.Message
	nextTag uint64
}

// New connects to the broker.
func New(config Config) (*Backend, error) {
	if config.Addr == "" {
		config.Addr = DefaultAddr
	}
	if config.PollTimeout <= 0 {
		config.PollTimeout = DefaultPollTimeout
	}

	var opts []func(*stomp.Conn) error
	if config.Login != "" {
		opts = append(opts, stomp.ConnOpt.Login(config.Login, config.Passcode))
	}
	if config.Host != "" {
		opts = append(opts, stomp.ConnOpt.Host(config.Host))
	}

	conn, err := stomp.Dial("tcp", config.Addr, opts...)
	if err != nil {
		return nil, NewConnectionFailedError(config.Addr, err)
	}

	b := &Backend{
		conn:    conn,
		config:  config,
		log:     backends.Logger("stomp"),
		subs:    make(map[string]*stomp.Subscription),
		pending: make(map[string]*stomp.Message),
	}
	b.log.Debug().Str("addr", config.Addr).Msg("connected")
	return b, nil
}

// destination maps a queue name onto a STOMP destination
func destination(queue string) string {
	if strings.HasPrefix(queue, "/") {
		return queue
	}
	return "/queue/" + queue
}

// subscription returns the client-ack subscription for queue. Caller holds mu.
func (b *Backend) subscription(queue string) (*stomp.Subscription, error) {
	if sub, ok := b.subs[queue]; ok {
		return sub, nil
	}
	sub, err := b.conn.Subscribe(destination(queue), stomp.AckClientIndividual)
	if err != nil {
		return nil, err
	}
	b.subs[queue] = sub
	return sub, nil
}

func (b *Backend) Declare(ctx context.Context, queue string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := b.subscription(queue); err != nil {
		return backends.MaybeConnError("stomp:Subscribe", NewSubscribeFailedError(queue, err), backends.ConnErrorPatterns)
	}
	return nil
}

func (b *Backend) Publish(ctx context.Context, queue string, msg *backends.Message) error {
	if msg == nil {
		return ErrNilMessage
	}

	opts := []func(*frame.Frame) error{
		stomp.SendOpt.Header(headerID, msg.ID),
		stomp.SendOpt.Header(headerTimestamp, msg.Timestamp.Format(time.RFC3339Nano)),
	}
	for k, v := range msg.Headers {
		opts = append(opts, stomp.SendOpt.Header(headerPrefix+k, v))
	}

	if err := b.conn.Send(destination(queue), msg.ContentType, msg.Body, opts...); err != nil {
		return backends.MaybeConnError("stomp:Send", NewPublishFailedError(queue, err), backends.ConnErrorPatterns)
	}
	return nil
}

func (b *Backend) Get(ctx context.Context, queue string) (*backends.Message, error) {
	b.mu.Lock()
	sub, err := b.subscription(queue)
	b.mu.Unlock()
	if err != nil {
		return nil, backends.MaybeConnError("stomp:Subscribe", NewSubscribeFailedError(queue, err), backends.ConnErrorPatterns)
	}

	timer := time.NewTimer(b.config.PollTimeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, backends.ErrQueueEmpty
	case frameMsg, ok := <-sub.C:
		if !ok {
			return nil, backends.NewHealthError("stomp:Receive", ErrSubscriptionClosed)
		}
		if frameMsg.Err != nil {
			return nil, backends.MaybeConnError("stomp:Receive", NewGetFailedError(queue, frameMsg.Err), backends.ConnErrorPatterns)
		}
		return b.track(frameMsg), nil
	}
}

// track converts a received frame and remembers it until acked
func (b *Backend) track(m *stomp.Message) *backends.Message {
	msg := &backends.Message{
		ID:          m.Header.Get(headerID),
		Body:        m.Body,
		ContentType: m.ContentType,
		Headers:     make(map[string]string),
	}
	if msg.ID == "" {
		msg.ID = m.Header.Get(frame.MessageId)
	}
	if ts, err := time.Parse(time.RFC3339Nano, m.Header.Get(headerTimestamp)); err == nil {
		msg.Timestamp = ts
	}
	for i := range m.Header.Len() {
		k, v := m.Header.GetAt(i)
		if name, ok := strings.CutPrefix(k, headerPrefix); ok {
			msg.Headers[name] = v
		}
	}

	b.mu.Lock()
	b.nextTag++
	msg.DeliveryTag = strconv.FormatUint(b.nextTag, 10)
	b.pending[msg.DeliveryTag] = m
	b.mu.Unlock()
	return msg
}

func (b *Backend) Ack(ctx context.Context, msg *backends.Message) error {
	if msg == nil {
		return ErrNilMessage
	}

	b.mu.Lock()
	m, ok := b.pending[msg.DeliveryTag]
	delete(b.pending, msg.DeliveryTag)
	b.mu.Unlock()
	if !ok {
		return NewUnknownDeliveryTagError(msg.DeliveryTag)
	}

	if err := b.conn.Ack(m); err != nil {
		return backends.MaybeConnError("stomp:Ack", NewAckFailedError(msg.DeliveryTag, err), backends.ConnErrorPatterns)
	}
	return nil
}

// Purge consumes and acks whatever the broker delivers within the poll timeout.
// STOMP has no purge frame, so messages still in flight may survive.
func (b *Backend) Purge(ctx context.Context, queue string) (int, error) {
	n := 0
	for {
		msg, err := b.Get(ctx, queue)
		if errors.Is(err, backends.ErrQueueEmpty) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		if err := b.Ack(ctx, msg); err != nil {
			return n, err
		}
		n++
	}
}

func (b *Backend) Close() error {
	b.mu.Lock()
	for queue, sub := range b.subs {
		if err := sub.Unsubscribe(); err != nil {
			b.log.Warn().Err(err).Str("queue", queue).Msg("unsubscribe failed")
		}
		delete(b.subs, queue)
	}
	b.mu.Unlock()

	if err := b.conn.Disconnect(); err != nil {
		return NewCloseFailedError(err)
	}
	b.log.Debug().Msg("disconnected")
	return nil
}
