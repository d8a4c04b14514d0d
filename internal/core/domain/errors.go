package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound reports an absent entity: missing upstream, hidden by a
// visibility rule or a finalized order.
var ErrNotFound = errors.New("not found")

// ErrInvalidInput reports a storefront request the upstream cannot serve.
var ErrInvalidInput = errors.New("invalid input")

// UpstreamError is an error reported by the upstream API in its errors array.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error: status %d: %s", e.Status, e.Message)
}

// TransportError wraps any other failure of the request/response cycle.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
