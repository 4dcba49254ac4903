package nats

import (
	"errors"
	"fmt"
)

var (
	ErrNilMessage = errors.New("message cannot be nil")
)

func NewConnectionFailedError(url string, err error) error {
	return fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
}

func NewSubscribeFailedError(queue string, err error) error {
	return fmt.Errorf("failed to subscribe to subject '%s': %w", queue, err)
}

func NewPublishFailedError(queue string, err error) error {
	return fmt.Errorf("failed to publish to subject '%s': %w", queue, err)
}

func NewGetFailedError(queue string, err error) error {
	return fmt.Errorf("failed to receive from subject '%s': %w", queue, err)
}

func NewDecodeFailedError(queue string, err error) error {
	return fmt.Errorf("failed to decode message from subject '%s': %w", queue, err)
}

func NewCloseFailedError(err error) error {
	return fmt.Errorf("failed to drain NATS connection: %w", err)
}
