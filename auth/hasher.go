package auth

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// PasswordHasher verifies and creates password hashes. Compare takes a
// context because implementations run CPU-bound work on a bounded pool and
// may wait for a slot.
type PasswordHasher interface {
	Compare(ctx context.Context, hashedPassword, password string) error
	Hash(password string) (string, error)
}

// dummyHash is a valid bcrypt hash of a random throwaway value. Lookups
// for unknown users are compared against it so the response time does not
// reveal whether the username exists.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// BcryptHasher is the bcrypt-backed PasswordHasher. Concurrent Compare
// calls are bounded by a weighted semaphore so a burst of logins cannot
// monopolize every scheduler thread with hashing work.
type BcryptHasher struct {
	sem *semaphore.Weighted
}

// NewBcryptHasher creates a hasher allowing up to GOMAXPROCS concurrent
// comparisons.
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{
		sem: semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0))),
	}
}

// Compare checks password against hashedPassword, waiting for a pool slot
// first. Returns an error on mismatch or if ctx is done before a slot
// frees up.
func (h *BcryptHasher) Compare(ctx context.Context, hashedPassword, password string) error {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("acquiring hash slot: %w", err)
	}
	defer h.sem.Release(1)
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// Hash produces a bcrypt hash at the default cost.
func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hashed), nil
}
