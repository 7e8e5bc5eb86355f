package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"
)

const defaultTestTimeout = 30 * time.Second

// Context returns a context bound to the test: it is cancelled when the test
// ends and never outlives the test binary's deadline.
func Context(t *testing.T) context.Context {
	t.Helper()
	deadline := time.Now().Add(defaultTestTimeout)
	if d, ok := t.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	ctx, cancel := context.WithDeadline(context.Background(), deadline)
	t.Cleanup(cancel)
	return ctx
}

// WithHeaders copies every header in h onto the request.
// Existing values for the same keys are replaced.
func WithHeaders(req *http.Request, h http.Header) *http.Request {
	for key, values := range h {
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	return req
}

// WithContextValue adds an arbitrary key-value pair to the request context.
func WithContextValue(req *http.Request, key, value any) *http.Request {
	ctx := context.WithValue(req.Context(), key, value)
	return req.WithContext(ctx)
}
