package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ajiwo/carrot/backends"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type Config = backends.PostgresConfig

// Backend stores messages in a table and hands them out with
// FOR UPDATE SKIP LOCKED so concurrent consumers never share a row.
type Backend struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// New opens a pool, pings the server and creates the message table.
func New(config Config) (*Backend, error) {
	if config.MaxConns == 0 {
		config.MaxConns = 10
	}
	if config.MinConns == 0 {
		config.MinConns = 2
	}

	poolConfig, err := pgxpool.ParseConfig(config.ConnString)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", backends.ErrInvalidConfig, err)
	}
	poolConfig.MaxConns = config.MaxConns
	poolConfig.MinConns = config.MinConns

	ctx := context.Background()
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, NewConnectionFailedError(err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, maybeConnError("postgres:Ping", NewConnectionFailedError(err))
	}

	if err := createTable(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	b := &Backend{pool: pool, log: backends.Logger("postgres")}
	b.log.Debug().Str("host", poolConfig.ConnConfig.Host).Msg("connected")
	return b, nil
}

func createTable(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS carrot_messages (
			id BIGSERIAL PRIMARY KEY,
			queue TEXT NOT NULL,
			payload BYTEA NOT NULL,
			delivered_at TIMESTAMP WITH TIME ZONE
		)
	`); err != nil {
		return err
	}
	_, err := pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS carrot_messages_queue_idx
			ON carrot_messages (queue, id) WHERE delivered_at IS NULL
	`)
	return err
}

func (p *Backend) GetPool() *pgxpool.Pool {
	return p.pool
}

// Declare is a no-op; queues are rows in a shared table.
func (p *Backend) Declare(ctx context.Context, queue string) error {
	return nil
}

func (p *Backend) Publish(ctx context.Context, queue string, msg *backends.Message) error {
	if msg == nil {
		return ErrNilMessage
	}
	payload, err := backends.EncodeMessage(msg)
	if err != nil {
		return NewPublishFailedError(queue, err)
	}

	_, err = p.pool.Exec(ctx, `INSERT INTO carrot_messages (queue, payload) VALUES ($1, $2)`, queue, payload)
	if err != nil {
		return maybeConnError("postgres:Insert", NewPublishFailedError(queue, err))
	}
	return nil
}

// Requeue hands claimed messages that were not acked within olderThan back
// to consumers. Without it a consumer that dies between Get and Ack leaves
// its row claimed forever.
func (p *Backend) Requeue(ctx context.Context, queue string, olderThan time.Duration) (int, error) {
	tag, err := p.pool.Exec(ctx, `
		UPDATE carrot_messages SET delivered_at = NULL
		WHERE queue = $1 AND delivered_at IS NOT NULL AND delivered_at <= now() - make_interval(secs => $2)
	`, queue, olderThan.Seconds())
	if err != nil {
		return 0, maybeConnError("postgres:Requeue", NewRequeueFailedError(queue, err))
	}
	n := int(tag.RowsAffected())
	if n > 0 {
		p.log.Info().Str("queue", queue).Int("count", n).Msg("requeued unacked messages")
	}
	return n, nil
}

func (p *Backend) Get(ctx context.Context, queue string) (*backends.Message, error) {
	var (
		id      int64
		payload []byte
	)
	err := p.pool.QueryRow(ctx, `
		UPDATE carrot_messages SET delivered_at = now()
		WHERE id = (
			SELECT id FROM carrot_messages
			WHERE queue = $1 AND delivered_at IS NULL
			ORDER BY id
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		RETURNING id, payload
	`, queue).Scan(&id, &payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, backends.ErrQueueEmpty
	}
	if err != nil {
		return nil, maybeConnError("postgres:Claim", NewGetFailedError(queue, err))
	}

	msg, err := backends.DecodeMessage(payload)
	if err != nil {
		_, _ = p.pool.Exec(ctx, `DELETE FROM carrot_messages WHERE id = $1`, id)
		return nil, NewDecodeFailedError(queue, err)
	}
	msg.DeliveryTag = strconv.FormatInt(id, 10)
	return msg, nil
}

func (p *Backend) Ack(ctx context.Context, msg *backends.Message) error {
	if msg == nil {
		return ErrNilMessage
	}
	id, err := strconv.ParseInt(msg.DeliveryTag, 10, 64)
	if err != nil {
		return NewUnknownDeliveryTagError(msg.DeliveryTag)
	}

	tag, err := p.pool.Exec(ctx, `DELETE FROM carrot_messages WHERE id = $1 AND delivered_at IS NOT NULL`, id)
	if err != nil {
		return maybeConnError("postgres:Delete", NewAckFailedError(msg.DeliveryTag, err))
	}
	if tag.RowsAffected() == 0 {
		return NewUnknownDeliveryTagError(msg.DeliveryTag)
	}
	return nil
}

func (p *Backend) Purge(ctx context.Context, queue string) (int, error) {
	tag, err := p.pool.Exec(ctx, `DELETE FROM carrot_messages WHERE queue = $1 AND delivered_at IS NULL`, queue)
	if err != nil {
		return 0, maybeConnError("postgres:Purge", NewPurgeFailedError(queue, err))
	}
	return int(tag.RowsAffected()), nil
}

func (p *Backend) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}
