// Package directory is the credential registry for the auth core: bcrypt
// password hashes and registered WebAuthn passkeys, keyed by username.
package directory

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/go-webauthn/webauthn/webauthn"
)

// User is one registry entry.
type User struct {
	Username     string                `json:"username"`
	PasswordHash string                `json:"password_hash"`
	Passkeys     []webauthn.Credential `json:"passkeys,omitempty"`
}

// Static is an in-memory Directory. The user set is fixed after load;
// only passkey registration mutates entries.
type Static struct {
	mu    sync.RWMutex
	users map[string]*User
}

// New creates an empty registry.
func New() *Static {
	return &Static{users: make(map[string]*User)}
}

// LoadFile reads a JSON array of users from path.
func LoadFile(path string) (*Static, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading users file: %w", err)
	}
	var users []User
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("parsing users file: %w", err)
	}
	s := New()
	for i := range users {
		s.Add(users[i])
	}
	return s, nil
}

// Add inserts or replaces a user entry.
func (s *Static) Add(u User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := u
	copied.Passkeys = append([]webauthn.Credential(nil), u.Passkeys...)
	s.users[u.Username] = &copied
}

// PasswordHash returns the stored bcrypt hash for username.
func (s *Static) PasswordHash(username string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[username]
	if !ok {
		return "", false
	}
	return u.PasswordHash, true
}

// Passkeys returns the registered WebAuthn credentials for username.
func (s *Static) Passkeys(username string) []webauthn.Credential {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[username]
	if !ok {
		return nil
	}
	return append([]webauthn.Credential(nil), u.Passkeys...)
}

// Users returns a snapshot of every entry, sorted by username.
func (s *Static) Users() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]User, 0, len(s.users))
	for _, u := range s.users {
		copied := *u
		copied.Passkeys = append([]webauthn.Credential(nil), u.Passkeys...)
		out = append(out, copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

// SaveFile writes the registry back out as a JSON array.
func (s *Static) SaveFile(path string) error {
	raw, err := json.MarshalIndent(s.Users(), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding users file: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("writing users file: %w", err)
	}
	return nil
}

// AddPasskey stores a newly registered credential for username.
func (s *Static) AddPasskey(username string, cred webauthn.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return fmt.Errorf("unknown user %q", username)
	}
	u.Passkeys = append(u.Passkeys, cred)
	return nil
}
