package postgres

import (
	"errors"
	"fmt"
)

var (
	ErrNilMessage = errors.New("message cannot be nil")
)

func NewConnectionFailedError(err error) error {
	return fmt.Errorf("failed to connect to postgres: %w", err)
}

func NewPublishFailedError(queue string, err error) error {
	return fmt.Errorf("failed to insert into queue '%s': %w", queue, err)
}

func NewGetFailedError(queue string, err error) error {
	return fmt.Errorf("failed to claim message from queue '%s': %w", queue, err)
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

func NewRequeueFailedError(queue string, err error) error {
	return fmt.Errorf("failed to requeue claimed messages in queue '%s': %w", queue, err)
}
