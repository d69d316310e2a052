package discord

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("bot-token", WithBaseURL(srv.URL), WithRetry(time.Millisecond, time.Second))
}

func TestClient_CreateThread(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/channels/998877/threads", r.URL.Path)
		assert.Equal(t, "Bot bot-token", r.Header.Get("Authorization"))

		var body createThreadRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "warn-alice", body.Name)
		assert.Equal(t, ChannelTypePrivateThread, body.Type)

		_, _ = w.Write([]byte(`{"id":"12345","type":12}`))
	})

	id, err := client.CreateThread(context.Background(), "998877", "warn-alice")
	require.NoError(t, err)
	assert.Equal(t, "12345", id)
}

func TestClient_SendMessage_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/channels/12345/messages", r.URL.Path)
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		var body createMessageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hello", body.Content)
		_, _ = w.Write([]byte(`{"id":"1"}`))
	})

	require.NoError(t, client.SendMessage(context.Background(), "12345", "hello"))
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_SendMessage_ClientErrorIsPermanent(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"Missing Access","code":50001}`))
	})

	err := client.SendMessage(context.Background(), "12345", "hello")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Contains(t, apiErr.Body, "Missing Access")
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_CreateThread_EmptyID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := client.CreateThread(context.Background(), "1", "warn-x")
	assert.Error(t, err)
}
