package httpserver

import (
	"net/http"
	"time"
)

const (
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 60 * time.Second
	// writeSlack leaves room to write the timeout response after the handler deadline.
	writeSlack = 5 * time.Second
)

// New builds the HTTP server. requestTimeout bounds handlers; zero leaves writes unbounded.
func New(addr string, handler http.Handler, requestTimeout time.Duration) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}
	if requestTimeout > 0 {
		srv.ReadTimeout = requestTimeout
		srv.WriteTimeout = requestTimeout + writeSlack
	}
	return srv
}
