package stomp

import (
	"os"
	"testing"

	"github.com/ajiwo/carrot/backends"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSTOMPTest(t *testing.T) *Backend {
	t.Helper()
	addr := os.Getenv("STOMP_ADDR")
	if addr == "" {
		addr = DefaultAddr
	}

	b, err := New(Config{
		Addr:     addr,
		Login:    os.Getenv("STOMP_LOGIN"),
		Passcode: os.Getenv("STOMP_PASSCODE"),
	})
	if err != nil {
		t.Skipf("STOMP broker not available, skipping tests: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestRegistered(t *testing.T) {
	for _, name := range []string{"stomp", "Stompy", "pystomp", Module} {
		typ, err := backends.Resolve(name)
		require.NoError(t, err, name)
		assert.Equal(t, Module, typ.Module)
		assert.Equal(t, "stomp", typ.Name)
	}
}

func TestDestination(t *testing.T) {
	assert.Equal(t, "/queue/jobs", destination("jobs"))
	assert.Equal(t, "/topic/news", destination("/topic/news"))
}

func TestBackend_RoundTrip(t *testing.T) {
	ctx := t.Context()
	b := setupSTOMPTest(t)

	const queue = "carrot.test.roundtrip"
	require.NoError(t, b.Declare(ctx, queue))
	_, err := b.Purge(ctx, queue)
	require.NoError(t, err)

	sent := backends.NewMessage([]byte("hello"), "text/plain")
	sent.Headers["origin"] = "test"
	require.NoError(t, b.Publish(ctx, queue, sent))

	var got *backends.Message
	require.Eventually(t, func() bool {
		got, err = b.Get(ctx, queue)
		return err == nil
	}, 5*DefaultPollTimeout*10, DefaultPollTimeout)

	assert.Equal(t, sent.ID, got.ID)
	assert.Equal(t, "hello", string(got.Body))
	assert.Equal(t, "test", got.Headers["origin"])
	assert.WithinDuration(t, sent.Timestamp, got.Timestamp, 0)
	require.NoError(t, b.Ack(ctx, got))
	require.Error(t, b.Ack(ctx, got))
}
