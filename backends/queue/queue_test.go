package queue

import (
	"sync"
	"testing"

	"github.com/ajiwo/carrot/backends"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackend_PublishGet(t *testing.T) {
	ctx := t.Context()
	b := New()
	defer b.Close()

	t.Run("Get from empty queue", func(t *testing.T) {
		msg, err := b.Get(ctx, "empty")
		require.ErrorIs(t, err, backends.ErrQueueEmpty)
		require.Nil(t, msg)
	})

	t.Run("Messages come back in publish order", func(t *testing.T) {
		require.NoError(t, b.Declare(ctx, "fifo"))
		for _, body := range []string{"one", "two", "three"} {
			require.NoError(t, b.Publish(ctx, "fifo", backends.NewMessage([]byte(body), "text/plain")))
		}

		for _, want := range []string{"one", "two", "three"} {
			msg, err := b.Get(ctx, "fifo")
			require.NoError(t, err)
			assert.Equal(t, want, string(msg.Body))
			assert.Equal(t, "text/plain", msg.ContentType)
			assert.NotEmpty(t, msg.DeliveryTag)
		}

		_, err := b.Get(ctx, "fifo")
		require.ErrorIs(t, err, backends.ErrQueueEmpty)
	})

	t.Run("Queues are isolated", func(t *testing.T) {
		require.NoError(t, b.Publish(ctx, "a", backends.NewMessage([]byte("for a"), "")))

		_, err := b.Get(ctx, "b")
		require.ErrorIs(t, err, backends.ErrQueueEmpty)

		msg, err := b.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "for a", string(msg.Body))
	})

	t.Run("Nil message is rejected", func(t *testing.T) {
		require.ErrorIs(t, b.Publish(ctx, "a", nil), ErrNilMessage)
	})
}

func TestBackend_Ack(t *testing.T) {
	ctx := t.Context()
	b := New()
	defer b.Close()

	require.NoError(t, b.Publish(ctx, "jobs", backends.NewMessage([]byte("job"), "")))
	msg, err := b.Get(ctx, "jobs")
	require.NoError(t, err)
	assert.Equal(t, 1, b.Pending())

	require.NoError(t, b.Ack(ctx, msg))
	assert.Equal(t, 0, b.Pending())

	// Second ack of the same delivery fails
	require.Error(t, b.Ack(ctx, msg))
}

func TestBackend_Purge(t *testing.T) {
	ctx := t.Context()
	b := New()
	defer b.Close()

	for range 5 {
		require.NoError(t, b.Publish(ctx, "bulk", backends.NewMessage([]byte("x"), "")))
	}

	n, err := b.Purge(ctx, "bulk")
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = b.Purge(ctx, "bulk")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestBackend_Close(t *testing.T) {
	ctx := t.Context()
	b := New()
	require.NoError(t, b.Close())

	require.ErrorIs(t, b.Publish(ctx, "q", backends.NewMessage(nil, "")), ErrClosed)
	_, err := b.Get(ctx, "q")
	require.ErrorIs(t, err, ErrClosed)
}

func TestBackend_Concurrent(t *testing.T) {
	ctx := t.Context()
	b := New()
	defer b.Close()

	const producers, perProducer = 8, 50

	var wg sync.WaitGroup
	for range producers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perProducer {
				_ = b.Publish(ctx, "shared", backends.NewMessage([]byte("m"), ""))
			}
		}()
	}
	wg.Wait()

	seen := make(map[string]bool)
	for {
		msg, err := b.Get(ctx, "shared")
		if err != nil {
			require.ErrorIs(t, err, backends.ErrQueueEmpty)
			break
		}
		assert.False(t, seen[msg.ID], "message delivered twice")
		seen[msg.ID] = true
	}
	assert.Len(t, seen, producers*perProducer)
}

func TestRegistered(t *testing.T) {
	typ, err := backends.Resolve("memory")
	require.NoError(t, err)
	assert.Equal(t, Module, typ.Module)

	b, err := typ.Create(nil)
	require.NoError(t, err)
	assert.IsType(t, &Backend{}, b)
	require.NoError(t, b.Close())
}
