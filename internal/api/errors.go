package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Error is a studio response with a non-success status. Detail carries the
// backend's human-readable message when the body had one.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("studio: %s (status %d)", e.Detail, e.Status)
	}
	return fmt.Sprintf("studio: status %d", e.Status)
}

func IsNotFound(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Status == http.StatusNotFound
}

func IsMethodNotAllowed(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Status == http.StatusMethodNotAllowed
}

// IsTimeout reports whether err was a client-side timeout, either the
// request context's deadline or the transport's.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// UserMessage reduces err to the short string shown in the UI. Timeouts and
// backend-provided details keep their meaning; everything else collapses to
// a generic failure line. Raw error chains go to the debug log, not the
// screen.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if IsTimeout(err) {
		return "Request timed out. Is the studio backend running?"
	}
	var ae *Error
	if errors.As(err, &ae) && ae.Detail != "" {
		return ae.Detail
	}
	return "The studio backend request failed."
}

func errorDetail(body []byte) string {
	var eb struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &eb); err == nil && eb.Detail != "" {
		return eb.Detail
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
