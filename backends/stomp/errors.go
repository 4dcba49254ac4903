package stomp

import (
	"errors"
	"fmt"
)

var (
	ErrNilMessage         = errors.New("message cannot be nil")
	ErrSubscriptionClosed = errors.New("stomp subscription closed")
)

func NewConnectionFailedError(addr string, err error) error {
	return fmt.Errorf("failed to connect to STOMP broker at %s: %w", addr, err)
}

func NewSubscribeFailedError(queue string, err error) error {
	return fmt.Errorf("failed to subscribe to queue '%s': %w", queue, err)
}

func NewPublishFailedError(queue string, err error) error {
	return fmt.Errorf("failed to send to queue '%s': %w", queue, err)
}

func NewGetFailedError(queue string, err error) error {
	return fmt.Errorf("failed to receive from queue '%s': %w", queue, err)
}

func NewAckFailedError(tag string, err error) error {
	return fmt.Errorf("failed to ack delivery '%s': %w", tag, err)
}

func NewUnknownDeliveryTagError(tag string) error {
	return fmt.Errorf("unknown delivery tag %q", tag)
}

func NewCloseFailedError(err error) error {
	return fmt.Errorf("failed to disconnect from STOMP broker: %w", err)
}
