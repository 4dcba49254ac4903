package redis

import (
	"errors"
	"fmt"
)

var (
	ErrNilMessage = errors.New("message cannot be nil")
)

func NewConnectionFailedError(addr string, err error) error {
	return fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
}

func NewPublishFailedError(queue string, err error) error {
	return fmt.Errorf("failed to push to queue '%s': %w", queue, err)
}

func NewGetFailedError(queue string, err error) error {
	return fmt.Errorf("failed to pop from queue '%s': %w", queue, err)
}

func NewDecodeFailedError(queue string, err error) error {
	return fmt.Errorf("failed to decode message from queue '%s': %w", queue, err)
}

func NewAckFailedError(tag string, err error) error {
	return fmt.Errorf("failed to ack delivery '%s': %w", tag, err)
}

func NewUnknownDeliveryTagError(tag string) error {
	return fmt.Errorf("unknown delivery tag %q", tag)
}

func NewPurgeFailedError(queue string, err error) error {
	return fmt.Errorf("failed to purge queue '%s': %w", queue, err)
}

func NewCloseFailedError(err error) error {
	return fmt.Errorf("failed to close redis connection: %w", err)
}

func NewRequeueFailedError(queue string, err error) error {
	return fmt.Errorf("failed to requeue processing list of queue '%s': %w", queue, err)
}
