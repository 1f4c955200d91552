package main

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewServer_NoWriteDeadline(t *testing.T) {
	h := http.NewServeMux()
	srv := newServer(":8080", h)

	require.Equal(t, ":8080", srv.Addr)
	require.Equal(t, h, srv.Handler)
	require.Zero(t, srv.WriteTimeout)
	require.Equal(t, 10*time.Second, srv.ReadHeaderTimeout)
}
