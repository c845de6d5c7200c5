package httpserver

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewDerivesTimeouts(t *testing.T) {
	srv := New(":0", http.NotFoundHandler(), 30*time.Second)
	assert.Equal(t, 30*time.Second, srv.ReadTimeout)
	assert.Equal(t, 35*time.Second, srv.WriteTimeout)
	assert.Equal(t, readHeaderTimeout, srv.ReadHeaderTimeout)

	unbounded := New(":0", http.NotFoundHandler(), 0)
	assert.Zero(t, unbounded.WriteTimeout)
}
