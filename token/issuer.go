// Package token issues and verifies the bearer tokens handed out once a
// login flow completes. Tokens are stateless JWTs; revocation is the one
// property they cannot self-enforce, so verification also consults an
// in-memory revoked-jti set.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/awnumar/memguard"
	"github.com/golang-jwt/jwt/v5"

	"github.com/ahlgren/helmsman/internal/uuid"
)

var (
	// ErrInvalidToken covers bad signature, malformed payload and expiry.
	// Verification fails closed: any parse problem maps here.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenRevoked indicates a structurally valid token whose jti has
	// been revoked by logout.
	ErrTokenRevoked = errors.New("token revoked")
)

// Claims are the claims embedded in every issued token.
type Claims struct {
	jwt.RegisteredClaims
}

// Issuer signs and verifies bearer tokens. The signing secret lives in a
// memguard enclave and is only held in plaintext for the duration of a
// single sign or verify operation.
type Issuer struct {
	secret  *memguard.Enclave
	ttl     time.Duration
	revoked *RevokedSet
}

// NewIssuer creates an Issuer. The secret slice is wiped by memguard once
// sealed; callers must not reuse it.
func NewIssuer(secret []byte, ttl time.Duration, revoked *RevokedSet) *Issuer {
	return &Issuer{
		secret:  memguard.NewEnclave(secret),
		ttl:     ttl,
		revoked: revoked,
	}
}

// Issue signs a token for subject with a fresh unique jti and the
// configured TTL. Returns the compact token and its expiry.
func (i *Issuer) Issue(subject string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(i.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        uuid.New(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	buf, err := i.secret.Open()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("opening signing secret: %w", err)
	}
	defer buf.Destroy()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(buf.Bytes())
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks signature, expiry and revocation. It returns the claims
// only when all three hold.
func (i *Issuer) Verify(tokenStr string) (*Claims, error) {
	buf, err := i.secret.Open()
	if err != nil {
		return nil, fmt.Errorf("opening signing secret: %w", err)
	}
	defer buf.Destroy()

	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return buf.Bytes(), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if i.revoked.IsRevoked(claims.ID) {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// Revoke adds jti to the revoked set. The token's own expiry bounds how
// long the entry must be retained.
func (i *Issuer) Revoke(jti string, expiresAt time.Time) {
	i.revoked.Revoke(jti, expiresAt)
}

// IsRevoked reports whether jti has been revoked.
func (i *Issuer) IsRevoked(jti string) bool {
	return i.revoked.IsRevoked(jti)
}
