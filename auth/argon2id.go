package auth

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/ahlgren/helmsman/internal/util"
)

// Argon2idHasher is an argon2id-backed PasswordHasher producing hashes in
// the PHC string format ($argon2id$v=19$m=...,t=...,p=...$salt$key).
// Directories migrated from systems that never used bcrypt can be served
// without rehashing.
type Argon2idHasher struct {
	params util.Argon2idParams
}

// NewArgon2idHasher creates a hasher with the default derivation params.
func NewArgon2idHasher() *Argon2idHasher {
	return &Argon2idHasher{params: util.DefaultArgon2idParams()}
}

// Compare derives a key from password with the hash's own embedded params
// and compares in constant time.
func (h *Argon2idHasher) Compare(_ context.Context, hashedPassword, password string) error {
	params, salt, key, err := decodeArgon2id(hashedPassword)
	if err != nil {
		return err
	}
	derived, err := util.DeriveArgon2idKey(password, salt, params)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare(derived, key) != 1 {
		return errors.New("password mismatch")
	}
	return nil
}

// Hash derives a key from password under a fresh random salt.
func (h *Argon2idHasher) Hash(password string) (string, error) {
	salt, err := util.RandomBytes(16)
	if err != nil {
		return "", err
	}
	key, err := util.DeriveArgon2idKey(password, salt, h.params)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		h.params.MemoryKiB, h.params.Time, h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

func decodeArgon2id(encoded string) (util.Argon2idParams, []byte, []byte, error) {
	var params util.Argon2idParams
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" || parts[2] != "v=19" {
		return params, nil, nil, errors.New("not an argon2id hash")
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d",
		&params.MemoryKiB, &params.Time, &params.Parallelism); err != nil {
		return params, nil, nil, fmt.Errorf("parsing argon2id params: %w", err)
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return params, nil, nil, fmt.Errorf("decoding salt: %w", err)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return params, nil, nil, fmt.Errorf("decoding key: %w", err)
	}
	params.KeyLen = uint32(len(key))
	return params, salt, key, nil
}

// MultiHasher dispatches on the stored hash's format so a single directory
// may mix bcrypt and argon2id entries. New hashes use bcrypt.
type MultiHasher struct {
	bcrypt   *BcryptHasher
	argon2id *Argon2idHasher
}

// NewMultiHasher creates a format-dispatching hasher.
func NewMultiHasher() *MultiHasher {
	return &MultiHasher{
		bcrypt:   NewBcryptHasher(),
		argon2id: NewArgon2idHasher(),
	}
}

// Compare routes to the hasher matching the stored hash's prefix.
func (h *MultiHasher) Compare(ctx context.Context, hashedPassword, password string) error {
	if strings.HasPrefix(hashedPassword, "$argon2id$") {
		return h.argon2id.Compare(ctx, hashedPassword, password)
	}
	return h.bcrypt.Compare(ctx, hashedPassword, password)
}

// Hash produces a bcrypt hash.
func (h *MultiHasher) Hash(password string) (string, error) {
	return h.bcrypt.Hash(password)
}
