package queue

import (
	"errors"
	"fmt"
)

var (
	ErrClosed     = errors.New("queue backend is closed")
	ErrNilMessage = errors.New("message cannot be nil")
)

func NewUnknownDeliveryTagError(tag string) error {
	return fmt.Errorf("unknown delivery tag %q", tag)
}
