package backends

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *HealthError
		want string
	}{
		{"nil health error", nil, "backend unhealthy"},
		{"op and cause", &HealthError{Op: "amqp:Dial", Cause: errors.New("connection refused")}, "backend unhealthy: amqp:Dial: connection refused"},
		{"cause only", &HealthError{Cause: errors.New("connection refused")}, "backend unhealthy: connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestNewHealthError(t *testing.T) {
	assert.Equal(t, ErrUnhealthy, NewHealthError("stomp:Send", nil))

	cause := errors.New("broken pipe")
	err := NewHealthError("stomp:Send", cause)
	require.ErrorIs(t, err, ErrUnhealthy)
	require.ErrorIs(t, err, cause)

	var he *HealthError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "stomp:Send", he.Op)
}

func TestIsHealthError(t *testing.T) {
	wrapped := fmt.Errorf("publish: %w", NewHealthError("redis:LPush", errors.New("i/o timeout")))

	assert.True(t, IsHealthError(ErrUnhealthy))
	assert.True(t, IsHealthError(wrapped))
	assert.False(t, IsHealthError(errors.New("WRONGTYPE")))
	assert.False(t, IsHealthError(nil))
}

func TestMaybeConnError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		patterns   []string
		wantHealth bool
	}{
		{"nil error", nil, ConnErrorPatterns, false},
		{"matching pattern", errors.New("dial tcp 127.0.0.1:5672: Connection Refused"), ConnErrorPatterns, true},
		{"no patterns", errors.New("connection refused"), nil, false},
		{"operational error", errors.New("queue not found"), ConnErrorPatterns, false},
		{"deadline", context.DeadlineExceeded, nil, true},
		{"canceled", fmt.Errorf("get: %w", context.Canceled), nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MaybeConnError("op", tt.err, tt.patterns)
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantHealth, IsHealthError(err))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}
