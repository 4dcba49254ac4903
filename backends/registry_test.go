package backends

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockBackend struct {
	name   string
	config any
}

func (m *mockBackend) Declare(ctx context.Context, queue string) error { return nil }
func (m *mockBackend) Publish(ctx context.Context, queue string, msg *Message) error {
	return nil
}
func (m *mockBackend) Get(ctx context.Context, queue string) (*Message, error) {
	return nil, ErrQueueEmpty
}
func (m *mockBackend) Ack(ctx context.Context, msg *Message) error { return nil }
func (m *mockBackend) Purge(ctx context.Context, queue string) (int, error) { return 0, nil }
func (m *mockBackend) Close() error { return nil }

// withRegistry swaps in an empty registry for the duration of a test
func withRegistry(t *testing.T) {
	t.Helper()
	registryMu.Lock()
	saved := registeredModules
	registeredModules = make(map[string]Symbols)
	registryMu.Unlock()

	t.Cleanup(func() {
		registryMu.Lock()
		registeredModules = saved
		registryMu.Unlock()
	})
}

func mockType(name string) *Type {
	return &Type{
		Name: name,
		New: func(config any) (Backend, error) {
			return &mockBackend{name: name, config: config}, nil
		},
	}
}

func TestRegister(t *testing.T) {
	withRegistry(t)

	typ := mockType("test")
	Register("carrot.backends.test", typ)

	symbols, ok := loadModule("carrot.backends.test")
	require.True(t, ok)
	assert.Same(t, typ, symbols[EntrySymbol])
	assert.Equal(t, "carrot.backends.test", typ.Module)

	// Registering again replaces the module
	replacement := mockType("replacement")
	Register("carrot.backends.test", replacement)
	symbols, _ = loadModule("carrot.backends.test")
	assert.Same(t, replacement, symbols[EntrySymbol])
}

func TestRegister_KeepsExplicitModule(t *testing.T) {
	withRegistry(t)

	typ := mockType("shared")
	typ.Module = "carrot.backends.original"
	Register("carrot.backends.alias", typ)
	assert.Equal(t, "carrot.backends.original", typ.Module)
}

func TestModules(t *testing.T) {
	withRegistry(t)

	Register("carrot.backends.b", mockType("b"))
	Register("carrot.backends.a", mockType("a"))
	RegisterModule("example.com/x", Symbols{})

	assert.Equal(t, []string{"carrot.backends.a", "carrot.backends.b", "example.com/x"}, Modules())
}

func TestCreate(t *testing.T) {
	withRegistry(t)

	t.Run("unknown backend", func(t *testing.T) {
		backend, err := Create("nonexistent", nil)
		require.ErrorIs(t, err, ErrBackendNotFound)
		assert.Nil(t, backend)
	})

	t.Run("config is passed to the factory", func(t *testing.T) {
		Register("carrot.backends.test", mockType("test"))

		backend, err := Create("test", "some config")
		require.NoError(t, err)
		require.IsType(t, &mockBackend{}, backend)
		assert.Equal(t, "some config", backend.(*mockBackend).config)
	})

	t.Run("factory error is returned unchanged", func(t *testing.T) {
		factoryErr := errors.New("test error")
		Register("carrot.backends.error", &Type{
			Name: "error",
			New: func(config any) (Backend, error) {
				return nil, factoryErr
			},
		})

		backend, err := Create("error", nil)
		require.ErrorIs(t, err, factoryErr)
		assert.Nil(t, backend)
	})

	t.Run("type without factory", func(t *testing.T) {
		Register("carrot.backends.nofactory", &Type{Name: "nofactory"})

		_, err := Create("nofactory", nil)
		require.ErrorIs(t, err, ErrInvalidBackend)
	})
}
