package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gateEnv wires TicketGate in front of a recording terminal handler.
func gateEnv(t *testing.T) (*testEnv, *httptest.Server, *string) {
	t.Helper()
	env := newEnv(t, false, false)

	var seen string
	terminal := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = WsUsername(r.Context())
		w.WriteHeader(http.StatusSwitchingProtocols)
	})
	srv := httptest.NewServer(env.api.TicketGate(terminal))
	t.Cleanup(srv.Close)
	return env, srv, &seen
}

func TestTicketGateAcceptsFreshTicket(t *testing.T) {
	env, srv, seen := gateEnv(t)
	id := env.tickets.Issue("alice")

	resp, err := http.Get(srv.URL + "/ws?ticket=" + id)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	assert.Equal(t, "alice", *seen)
}

func TestTicketGateSingleUse(t *testing.T) {
	env, srv, _ := gateEnv(t)
	id := env.tickets.Issue("alice")

	resp, err := http.Get(srv.URL + "/ws?ticket=" + id)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/ws?ticket=" + id)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode,
		"a consumed ticket must not open a second connection")
}

func TestTicketGateRejectsMissingAndUnknown(t *testing.T) {
	_, srv, seen := gateEnv(t)

	resp, err := http.Get(srv.URL + "/ws")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/ws?ticket=no-such-ticket")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, *seen, "terminal handler must not run for rejected requests")
}

func TestTicketFromEndpointOpensGate(t *testing.T) {
	env, srv, seen := gateEnv(t)

	_, raw := env.post(t, "/auth/login", LoginRequest{Username: "alice", Password: "correct horse"}, "")
	tok := decode[LoginResponse](t, raw).Token

	resp, raw := env.post(t, "/auth/ws-ticket", nil, tok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	id := decode[TicketResponse](t, raw).Ticket
	require.NotEmpty(t, id)

	wsResp, err := http.Get(srv.URL + "/ws?ticket=" + id)
	require.NoError(t, err)
	wsResp.Body.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, wsResp.StatusCode)
	assert.Equal(t, "alice", *seen)
}
