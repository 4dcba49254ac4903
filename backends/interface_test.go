package backends

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	a := NewMessage([]byte("a"), "text/plain")
	b := NewMessage([]byte("b"), "")

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.NotNil(t, a.Headers)
	assert.False(t, a.Timestamp.IsZero())
	assert.Empty(t, a.DeliveryTag)
}

func TestEncodeDecodeMessage(t *testing.T) {
	msg := NewMessage([]byte{0x00, 0xff, 'x'}, "application/octet-stream")
	msg.Headers["retry"] = "2"
	msg.DeliveryTag = "7"

	data, err := EncodeMessage(msg)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "DeliveryTag")

	got, err := DecodeMessage(data)
	require.NoError(t, err)
	assert.Equal(t, msg.ID, got.ID)
	assert.Equal(t, msg.Body, got.Body)
	assert.Equal(t, msg.Headers, got.Headers)
	assert.True(t, msg.Timestamp.Equal(got.Timestamp))
	assert.Empty(t, got.DeliveryTag, "delivery tags are assigned per delivery")

	_, err = DecodeMessage([]byte("not json"))
	require.Error(t, err)
}

func TestType_Create(t *testing.T) {
	typ := mockType("m")
	b, err := typ.Create("cfg")
	require.NoError(t, err)
	assert.Equal(t, "cfg", b.(*mockBackend).config)

	_, err = (&Type{Module: "carrot.backends.bare"}).Create(nil)
	require.ErrorIs(t, err, ErrInvalidBackend)
}
