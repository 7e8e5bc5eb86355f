package httpclient

import (
	"errors"
	"fmt"
)

// ErrUnexpectedStatus matches every *StatusError via errors.Is.
var ErrUnexpectedStatus = errors.New("unexpected status")

const maxBodyInError = 512

// StatusError is a non-2xx answer surfaced as an error.
type StatusError struct {
	Method string
	URL    string
	Status int
	Body   []byte
}

// Error implements the error interface
func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > maxBodyInError {
		body = body[:maxBodyInError]
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.Status, body)
}

// Unwrap lets errors.Is(err, ErrUnexpectedStatus) match.
func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// CheckStatus returns a *StatusError for non-2xx responses.
func CheckStatus(resp *Response) error {
	if resp.OK() {
		return nil
	}
	return &StatusError{
		Method: resp.Method,
		URL:    resp.URL,
		Status: resp.Status,
		Body:   resp.Body,
	}
}

// StatusCode extracts the HTTP status from an error chain, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	return 0
}
