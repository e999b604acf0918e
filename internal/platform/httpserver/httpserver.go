// Package httpserver builds the process-wide HTTP server with timeouts sized
// for validation traffic.
package httpserver

import (
	"net/http"
	"time"
)

const (
	headerTimeout = 5 * time.Second

	// A validation request can carry a multi-thousand-record batch and the
	// response waits on all four layers, so body reads and writes get far
	// more room than the header handshake.
	readTimeout  = 2 * time.Minute
	writeTimeout = 2 * time.Minute
	idleTimeout  = 60 * time.Second
)

// New builds the HTTP server for the given handler.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: headerTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
}
