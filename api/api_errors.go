package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreachable means no response was received at all: the server may
	// be down or the network broken. Distinct from any rejection the server
	// itself sent, and only ever retried by explicit user action.
	ErrUnreachable = errors.New("cannot reach server")

	// ErrInvalidCredentials is returned for a login the server rejected.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// APIError is a rejection the server responded with. Message keeps the
// server's own error text verbatim so business-rule rejections (stock,
// authorization) surface exactly as the server phrased them.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// ServerMessage extracts the server-provided error text from err's chain, if
// any, falling back to the given generic message.
func ServerMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
