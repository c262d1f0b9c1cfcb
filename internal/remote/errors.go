package remote

import (
	"errors"
	"fmt"
	"net/http"
)

// NetworkError means the request never got a response from the backend.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("remote: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RequestError means the backend answered with a failure indication.
type RequestError struct {
	Method  string
	URL     string
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("remote: %s %s: status %d: %s", e.Method, e.URL, e.Status, msg)
}

// ErrNotConfigured is returned by features whose client was not wired.
var ErrNotConfigured = errors.New("remote: client not configured")

// IsNetwork reports whether err is, or wraps, a *NetworkError.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// StatusOf returns the backend status carried by err, or 0.
func StatusOf(err error) int {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Status
	}
	return 0
}
