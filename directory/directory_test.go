package directory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndLookup(t *testing.T) {
	d := New()
	d.Add(User{Username: "alice", PasswordHash: "$2a$10$hash"})

	hash, ok := d.PasswordHash("alice")
	require.True(t, ok)
	assert.Equal(t, "$2a$10$hash", hash)

	_, ok = d.PasswordHash("mallory")
	assert.False(t, ok)
}

func TestPasskeys(t *testing.T) {
	d := New()
	d.Add(User{Username: "bob", PasswordHash: "h"})

	assert.Empty(t, d.Passkeys("bob"))
	assert.Nil(t, d.Passkeys("unknown"))

	err := d.AddPasskey("bob", webauthn.Credential{ID: []byte("cred-1")})
	require.NoError(t, err)
	creds := d.Passkeys("bob")
	require.Len(t, creds, 1)
	assert.Equal(t, []byte("cred-1"), creds[0].ID)
}

func TestAddPasskeyUnknownUser(t *testing.T) {
	d := New()
	err := d.AddPasskey("ghost", webauthn.Credential{})
	assert.Error(t, err)
}

func TestPasskeysReturnsCopy(t *testing.T) {
	d := New()
	d.Add(User{Username: "bob", PasswordHash: "h"})
	require.NoError(t, d.AddPasskey("bob", webauthn.Credential{ID: []byte("cred-1")}))

	creds := d.Passkeys("bob")
	creds[0].ID = []byte("mutated")

	again := d.Passkeys("bob")
	assert.Equal(t, []byte("cred-1"), again[0].ID)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	data := `[
		{"username": "alice", "password_hash": "$2a$10$abc"},
		{"username": "bob", "password_hash": "$2a$10$def"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	d, err := LoadFile(path)
	require.NoError(t, err)

	hash, ok := d.PasswordHash("alice")
	require.True(t, ok)
	assert.Equal(t, "$2a$10$abc", hash)
	_, ok = d.PasswordHash("bob")
	assert.True(t, ok)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoadFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err := LoadFile(path)
	assert.Error(t, err)
}
