package openweather

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout indicates the provider did not respond within the
	// request timeout.
	ErrTimeout = errors.New("weather provider timed out")

	// ErrUnavailable indicates a network-level failure reaching the
	// provider (DNS, connection refused, reset, ...).
	ErrUnavailable = errors.New("weather provider unavailable")
)

// StatusError is returned when the provider answers with a non-2xx
// status. Message carries the provider's own error text when the error
// body could be decoded.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("weather provider returned %d: %s", e.Status, e.Message)
}
