package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestServerLifecycle(t *testing.T) {
	defer goleak.VerifyNone(t)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, statusResponse{Status: "ok"})
	})

	srv := New(logger, "127.0.0.1", 0, mux)

	done := make(chan error, 1)
	go func() {
		done <- srv.Start()
	}()

	// give the listener a moment to come up
	time.Sleep(100 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRouteLabel(t *testing.T) {
	assert.Equal(t, "/v1/cases/:id/resolve", routeLabel("/v1/cases/42/resolve"))
	assert.Equal(t, "/v1/membership", routeLabel("/v1/membership"))
	assert.Equal(t, "/healthz", routeLabel("/healthz"))
}
