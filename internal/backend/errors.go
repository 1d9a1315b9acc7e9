package backend

import (
	"fmt"
	"net"
	"net/url"

	"github.com/go-faster/errors"
)

const (
	// fallbackMessage is shown when a failure carries no structured message.
	fallbackMessage = "An unexpected error occurred"
	// unknownMessage covers failures that never were HTTP failures at all.
	unknownMessage = "An unknown error occurred"
)

// Error is the single error shape that crosses the repository boundary.
// Status holds the HTTP status code of the failed response, or 0 when the
// failure never produced a response (timeout, refused connection).
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status,omitempty"`
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("backend: %s (status %d)", e.Message, e.Status)
	}
	return "backend: " + e.Message
}

// Normalize funnels any failure into *Error. Already-normalized errors pass
// through untouched; transport failures become the generic fallback with no
// status; everything else keeps its own message. A nil error normalizes to
// nil.
func Normalize(err error) *Error {
	if err == nil {
		return nil
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	// The http client wraps timeouts, DNS and connection failures in
	// *url.Error; none of them carry a usable message for an operator.
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &Error{Message: fallbackMessage}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return &Error{Message: fallbackMessage}
	}

	return &Error{Message: err.Error()}
}

// Unknown returns the normalized shape for failures that are not errors at
// all, such as recovered panics inside a mutation trigger.
func Unknown() *Error {
	return &Error{Message: unknownMessage}
}
