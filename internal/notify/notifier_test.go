package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBotNotifier_OrderPlaced(t *testing.T) {
	var received message
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewBotNotifier(server.URL, 5*time.Second, zerolog.Nop())

	err := n.OrderPlaced(context.Background(), "New order:\nName: Ivan")
	require.NoError(t, err)
	assert.Equal(t, "New order:\nName: Ivan", received.Message)
}

func TestBotNotifier_RelayErrorSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	n := NewBotNotifier(server.URL, 5*time.Second, zerolog.Nop())

	err := n.OrderPlaced(context.Background(), "hello")
	assert.ErrorContains(t, err, "502")
}

func TestBotNotifier_UnreachableRelay(t *testing.T) {
	n := NewBotNotifier("http://127.0.0.1:1", 500*time.Millisecond, zerolog.Nop())

	err := n.OrderPlaced(context.Background(), "hello")
	assert.Error(t, err)
}

func TestNoopNotifier(t *testing.T) {
	n := NewNoopNotifier()
	assert.NoError(t, n.OrderPlaced(context.Background(), "hello"))
}
