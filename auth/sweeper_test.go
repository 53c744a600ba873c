package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahlgren/helmsman/session"
	"github.com/ahlgren/helmsman/ticket"
	"github.com/ahlgren/helmsman/token"
)

func TestSweepRemovesExpiredSessions(t *testing.T) {
	sessions := session.New[Session](50 * time.Millisecond)
	sessions.Create(Session{Username: "alice", Step: StepPasswordVerified})

	sw := NewSweeper(sessions, ticket.NewBroker(), token.NewRevokedSet(), nil)

	// Nothing expired yet.
	assert.Equal(t, 0, sw.Sweep())
	assert.Equal(t, 1, sessions.Len())

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, 1, sw.Sweep())
	assert.Equal(t, 0, sessions.Len())
}

func TestSweepPrunesRevocations(t *testing.T) {
	revoked := token.NewRevokedSet()
	revoked.Revoke("stale", time.Now().Add(-time.Minute))
	revoked.Revoke("live", time.Now().Add(time.Hour))

	sw := NewSweeper(session.New[Session](SessionTTL), ticket.NewBroker(), revoked, nil)
	removed := sw.Sweep()

	assert.Equal(t, 1, removed)
	assert.False(t, revoked.IsRevoked("stale"))
	assert.True(t, revoked.IsRevoked("live"))
}

func TestSweepCoversAllThreeStores(t *testing.T) {
	sessions := session.New[Session](time.Hour)
	require.NotNil(t, sessions)
	tickets := ticket.NewBroker()
	revoked := token.NewRevokedSet()
	revoked.Revoke("stale", time.Now().Add(-time.Minute))

	sw := NewSweeper(sessions, tickets, revoked, nil)
	assert.Equal(t, 1, sw.Sweep(), "only the stale revocation is removable")
}
