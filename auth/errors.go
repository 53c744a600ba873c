package auth

import "errors"

var (
	// ErrAuthenticationFailed covers bad password, bad OTP code and failed
	// WebAuthn assertions. One sentinel for all three so callers cannot
	// leak which check failed, or whether the user exists at all.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrSessionNotFound indicates the session id is unknown, already
	// consumed, or past its TTL.
	ErrSessionNotFound = errors.New("session not found or expired")
	// ErrInvalidStep indicates the operation does not match the session's
	// current step, including login operations against a registration
	// session and vice versa.
	ErrInvalidStep = errors.New("invalid step transition")
	// ErrOtpExpired indicates the one-time code outlived its TTL. The
	// session is removed as a side effect of detection.
	ErrOtpExpired = errors.New("one-time code expired")
	// ErrNotConfigured indicates a factor endpoint was hit while that
	// factor is not configured. Logged in full server-side; clients only
	// see a generic message.
	ErrNotConfigured = errors.New("factor not configured")
)
