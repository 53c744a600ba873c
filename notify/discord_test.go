package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendPostsCode(t *testing.T) {
	var gotBody []byte
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	d := NewDiscord(srv.URL)
	err := d.Send(context.Background(), "alice", "123456")
	require.NoError(t, err)

	assert.Equal(t, "application/json", gotContentType)
	var msg discordMessage
	require.NoError(t, json.Unmarshal(gotBody, &msg))
	assert.Contains(t, msg.Content, "alice")
	assert.Contains(t, msg.Content, "123456")
}

func TestSendNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	d := NewDiscord(srv.URL)
	err := d.Send(context.Background(), "alice", "123456")
	assert.Error(t, err)
}

func TestSendUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	d := NewDiscord(srv.URL)
	err := d.Send(context.Background(), "alice", "123456")
	assert.Error(t, err)
}

func TestSendHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	d := NewDiscord(srv.URL)
	err := d.Send(ctx, "alice", "123456")
	assert.Error(t, err)
}
