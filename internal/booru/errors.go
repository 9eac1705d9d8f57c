package booru

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
)

var (
	// ErrMaxRetries marks an operation that exhausted the transport retry
	// budget. It wraps the last attempt's error.
	ErrMaxRetries = errors.New("max retry attempts reached")
	// ErrVersionConflict marks an update submitted against a stale post
	// version. Never retried: the caller must re-fetch and re-merge.
	ErrVersionConflict = errors.New("version conflict")
	// ErrNotFound marks a request for a post that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrMalformedResponse marks a 2xx response whose body failed to decode.
	// The layer treats these as transient server hiccups.
	ErrMalformedResponse = errors.New("malformed response")
)

// StatusError is a non-2xx response from the server, carrying the decoded
// error body when one was present.
type StatusError struct {
	StatusCode  int
	Name        string
	Description string
}

func (e *StatusError) Error() string {
	detail := e.Description
	if detail == "" {
		detail = e.Name
	}
	if detail == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, detail)
}

// Retryable reports whether the transport retry loop may attempt err again.
// Network failures, timeouts, malformed response bodies, and 408/429/5xx
// statuses are transient; everything else fails fast.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrVersionConflict) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrMaxRetries) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusRequestTimeout,
			statusErr.StatusCode == http.StatusTooManyRequests,
			statusErr.StatusCode >= http.StatusInternalServerError:
			return true
		default:
			return false
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	return errors.Is(err, ErrMalformedResponse)
}

func statusToError(code int, name, description string) error {
	switch {
	case code == http.StatusConflict || name == "ResourceModifiedError":
		return fmt.Errorf("%w: %s", ErrVersionConflict, firstNonEmpty(description, name, "stale version"))
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, firstNonEmpty(description, name, "missing resource"))
	default:
		return &StatusError{StatusCode: code, Name: name, Description: description}
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
