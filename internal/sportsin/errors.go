package sportsin

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a referenced game, session or team no
// longer exists on the remote store (e.g. deleted mid-poll).
var ErrNotFound = errors.New("resource not found")

// StatusError reports a non-2xx response that is not a plain 404.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("received non-OK HTTP status: %d", e.StatusCode)
}
