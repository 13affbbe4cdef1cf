package main

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/barber-booking/internal/config"
)

func TestNewServer(t *testing.T) {
	h := http.NewServeMux()
	srv := newServer(&config.Config{ServerPort: "8081"}, h)

	assert.Equal(t, ":8081", srv.Addr)
	assert.Equal(t, 10*time.Second, srv.ReadHeaderTimeout)
	assert.Same(t, h, srv.Handler)
}
