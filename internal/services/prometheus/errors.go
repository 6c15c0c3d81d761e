package prometheus

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for query failures. Services match on these with
// errors.Is and only convert to display strings at the UI boundary.
var (
	// ErrTransport covers network failures and non-2xx transport problems.
	ErrTransport = errors.New("transport error")
	// ErrInvalidResponse covers envelopes whose status is not "success".
	ErrInvalidResponse = errors.New("invalid response")
	// ErrNotFound is returned when a queried resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrParse covers undecodable response bodies.
	ErrParse = errors.New("parse error")
)

func transportErr(err error) error {
	return fmt.Errorf("%w: %v", ErrTransport, err)
}

func invalidResponseErr(status string) error {
	return fmt.Errorf("%w: status %q", ErrInvalidResponse, status)
}

func parseErr(err error) error {
	return fmt.Errorf("%w: %v", ErrParse, err)
}
