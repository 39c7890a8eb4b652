package source

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrInvalidURL is returned for anything but an absolute http(s) URL.
var ErrInvalidURL = errors.New("item source must be an http or https URL")

// Error is a non-2xx response from an item source.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("item source: %s (HTTP %d)", e.Message, e.StatusCode)
}

// checkResponse turns a non-2xx response into an *Error, using the first
// line of a short body as the message when there is one.
func checkResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	msg := statusMessage(resp.StatusCode)

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512))
	if err == nil {
		if line, _, _ := strings.Cut(strings.TrimSpace(string(body)), "\n"); line != "" {
			msg = line
		}
	}

	return &Error{StatusCode: resp.StatusCode, Message: msg}
}

func statusMessage(code int) string {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return "access denied"
	case http.StatusNotFound:
		return "item list not found"
	case http.StatusTooManyRequests:
		return "rate limited, try again later"
	default:
		return fmt.Sprintf("unexpected error (HTTP %d)", code)
	}
}
