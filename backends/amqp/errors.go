package amqp

import (
	"errors"
	"fmt"
	"net/url"
)

var (
	ErrNilMessage = errors.New("message cannot be nil")
)

func NewConnectionFailedError(url string, err error) error {
	return fmt.Errorf("failed to connect to AMQP broker at %s: %w", url, err)
}

func NewChannelFailedError(err error) error {
	return fmt.Errorf("failed to open AMQP channel: %w", err)
}

func NewDeclareFailedError(queue string, err error) error {
	return fmt.Errorf("failed to declare queue '%s': %w", queue, err)
}

func NewPublishFailedError(queue string, err error) error {
	return fmt.Errorf("failed to publish to queue '%s': %w", queue, err)
}

func NewGetFailedError(queue string, err error) error {
	return fmt.Errorf("failed to get from queue '%s': %w", queue, err)
}

func NewAckFailedError(tag string, err error) error {
	return fmt.Errorf("failed to ack delivery '%s': %w", tag, err)
}

func NewPurgeFailedError(queue string, err error) error {
	return fmt.Errorf("failed to purge queue '%s': %w", queue, err)
}

func NewCloseFailedError(err error) error {
	return fmt.Errorf("failed to close AMQP connection: %w", err)
}

func NewInvalidDeliveryTagError(tag string) error {
	return fmt.Errorf("invalid AMQP delivery tag %q", tag)
}

// redactURL hides the password of a broker URL for logs and errors
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	return u.Redacted()
}
