package httpserver

import (
	"net/http"
	"time"
)

// New builds the fake backend's HTTP server. Write and idle timeouts stay
// generous because registration batches upload several statements at once.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
