// Package ticket brokers single-use capability tokens for WebSocket
// upgrades. A ticket stands in for the primary bearer token so that the
// token never appears in a URL, where it would leak into access logs and
// proxies. Tickets expire 30 seconds after issuance and can be consumed
// at most once.
package ticket

import (
	"time"

	"github.com/ahlgren/helmsman/session"
)

// TTL is how long an unconsumed ticket stays valid.
const TTL = 30 * time.Second

// Broker issues and consumes tickets. It is safe for concurrent use.
type Broker struct {
	store *session.Store[string]
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return newBroker(TTL)
}

func newBroker(ttl time.Duration) *Broker {
	return &Broker{store: session.New[string](ttl)}
}

// Issue creates a ticket bound to username and returns its id. The caller
// must already have authenticated the user.
func (b *Broker) Issue(username string) string {
	return b.store.Create(username)
}

// Consume atomically removes the ticket and returns the bound username.
// Absent, already-consumed and expired tickets all report false, and the
// caller must reject the upgrade before completing the handshake.
func (b *Broker) Consume(id string) (string, bool) {
	return b.store.Remove(id)
}

// CleanupExpired discards unconsumed tickets past their TTL.
func (b *Broker) CleanupExpired() int {
	return b.store.CleanupExpired()
}
