package token

import (
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

type revocation struct {
	revokedAt time.Time
	expiresAt time.Time
}

// RevokedSet tracks revoked token jtis. Entries are added by logout and
// pruned once the token they belong to would have expired on its own,
// bounding memory over long process lifetimes. Created empty at process
// start; not persisted.
type RevokedSet struct {
	data *xsync.MapOf[string, revocation]
}

// NewRevokedSet creates an empty revocation set.
func NewRevokedSet() *RevokedSet {
	return &RevokedSet{data: xsync.NewMapOf[string, revocation]()}
}

// Revoke marks jti revoked. expiresAt is the token's own exp claim; after
// that instant the entry is eligible for pruning.
func (r *RevokedSet) Revoke(jti string, expiresAt time.Time) {
	r.data.Store(jti, revocation{revokedAt: time.Now(), expiresAt: expiresAt})
}

// IsRevoked reports whether jti is in the set.
func (r *RevokedSet) IsRevoked(jti string) bool {
	_, ok := r.data.Load(jti)
	return ok
}

// Prune drops entries whose token expiry has passed and returns how many
// were removed. An expired token fails verification regardless of
// revocation, so dropping the entry loses nothing.
func (r *RevokedSet) Prune() int {
	now := time.Now()
	removed := 0
	r.data.Range(func(jti string, rev revocation) bool {
		if now.After(rev.expiresAt) {
			r.data.Delete(jti)
			removed++
		}
		return true
	})
	return removed
}

// Len returns the number of tracked revocations.
func (r *RevokedSet) Len() int {
	return r.data.Size()
}
