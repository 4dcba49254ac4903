package redis

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/ajiwo/carrot/backends"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	// DefaultAddr is used when no server address is configured
	DefaultAddr = "localhost:6379"

	// DefaultKeyPrefix namespaces queue lists
	DefaultKeyPrefix = "carrot:"
)

type Config = backends.RedisConfig

// Backend keeps each queue in a redis list. Fetched messages are moved to a
// per-queue processing list and removed from it on Ack.
type Backend struct {
	client *redis.Client
	prefix string
	log    zerolog.Logger

	mu      sync.Mutex
	pending map[string]delivery
	nextTag uint64
}

type delivery struct {
	queue string
	raw   string
}

// New connects to redis and verifies the connection with PING.
func New(config Config) (*Backend, error) {
	if config.Addr == "" {
		config.Addr = DefaultAddr
	}
	if config.PoolSize <= 0 {
		config.PoolSize = 10
	}
	if config.KeyPrefix == "" {
		config.KeyPrefix = DefaultKeyPrefix
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
		PoolSize: config.PoolSize,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, maybeConnError("redis:Ping", NewConnectionFailedError(config.Addr, err))
	}

	b := &Backend{
		client:  client,
		prefix:  config.KeyPrefix,
		log:     backends.Logger("redis"),
		pending: make(map[string]delivery),
	}
	b.log.Debug().Str("addr", config.Addr).Msg("connected")
	return b, nil
}

func (b *Backend) GetClient() *redis.Client {
	return b.client
}

func (b *Backend) queueKey(queue string) string {
	return b.prefix + "queue:" + queue
}

func (b *Backend) processingKey(queue string) string {
	return b.prefix + "processing:" + queue
}

// Declare is a no-op; redis creates lists on first push.
func (b *Backend) Declare(ctx context.Context, queue string) error {
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
	if err := b.client.LPush(ctx, b.queueKey(queue), payload).Err(); err != nil {
		return maybeConnError("redis:LPush", NewPublishFailedError(queue, err))
	}
	return nil
}

func (b *Backend) Get(ctx context.Context, queue string) (*backends.Message, error) {
	raw, err := b.client.LMove(ctx, b.queueKey(queue), b.processingKey(queue), "RIGHT", "LEFT").Result()
	if errors.Is(err, redis.Nil) {
		return nil, backends.ErrQueueEmpty
	}
	if err != nil {
		return nil, maybeConnError("redis:LMove", NewGetFailedError(queue, err))
	}

	msg, err := backends.DecodeMessage([]byte(raw))
	if err != nil {
		// Drop undecodable payloads so they do not wedge the processing list
		_ = b.client.LRem(ctx, b.processingKey(queue), 1, raw).Err()
		return nil, NewDecodeFailedError(queue, err)
	}

	b.mu.Lock()
	b.nextTag++
	msg.DeliveryTag = strconv.FormatUint(b.nextTag, 10)
	b.pending[msg.DeliveryTag] = delivery{queue: queue, raw: raw}
	b.mu.Unlock()
	return msg, nil
}

func (b *Backend) Ack(ctx context.Context, msg *backends.Message) error {
	if msg == nil {
		return ErrNilMessage
	}

	b.mu.Lock()
	d, ok := b.pending[msg.DeliveryTag]
	delete(b.pending, msg.DeliveryTag)
	b.mu.Unlock()
	if !ok {
		return NewUnknownDeliveryTagError(msg.DeliveryTag)
	}

	if err := b.client.LRem(ctx, b.processingKey(d.queue), 1, d.raw).Err(); err != nil {
		return maybeConnError("redis:LRem", NewAckFailedError(msg.DeliveryTag, err))
	}
	return nil
}

// Requeue moves every fetched but unacked message of queue back to the head
// of the queue, oldest first. Deliveries handed out by this Backend become
// unackable. Run it while no consumer of the queue is active, typically at
// startup, to recover messages left by a consumer that died before Ack.
func (b *Backend) Requeue(ctx context.Context, queue string) (int, error) {
	n := 0
	for {
		err := b.client.LMove(ctx, b.processingKey(queue), b.queueKey(queue), "LEFT", "RIGHT").Err()
		if errors.Is(err, redis.Nil) {
			break
		}
		if err != nil {
			return n, maybeConnError("redis:LMove", NewRequeueFailedError(queue, err))
		}
		n++
	}

	b.mu.Lock()
	for tag, d := range b.pending {
		if d.queue == queue {
			delete(b.pending, tag)
		}
	}
	b.mu.Unlock()

	if n > 0 {
		b.log.Info().Str("queue", queue).Int("count", n).Msg("requeued unacked messages")
	}
	return n, nil
}

func (b *Backend) Purge(ctx context.Context, queue string) (int, error) {
	pipe := b.client.TxPipeline()
	length := pipe.LLen(ctx, b.queueKey(queue))
	pipe.Del(ctx, b.queueKey(queue))
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, maybeConnError("redis:Purge", NewPurgeFailedError(queue, err))
	}
	return int(length.Val()), nil
}

func (b *Backend) Close() error {
	if err := b.client.Close(); err != nil {
		return NewCloseFailedError(err)
	}
	return nil
}
