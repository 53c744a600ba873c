package uuid

import "github.com/google/uuid"

// New returns a random UUIDv4 string. Used for session identifiers,
// ticket identifiers and token jti claims.
func New() string {
	return uuid.NewString()
}
