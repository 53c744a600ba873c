// Package auth drives the multi-factor login and passkey-registration
// protocols of the helmsman backend. Per login attempt it decides which
// additional factors apply (WebAuthn passkey, webhook-delivered one-time
// code), walks the client through them via TTL-bound sessions, and issues
// bearer tokens once every required factor is satisfied.
package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/go-webauthn/webauthn/webauthn"

	"github.com/ahlgren/helmsman/internal/util"
	"github.com/ahlgren/helmsman/notify"
	"github.com/ahlgren/helmsman/session"
	"github.com/ahlgren/helmsman/token"
)

// SessionTTL bounds how long an in-flight login or registration may stall
// before the sweep discards it.
const SessionTTL = 600 * time.Second

// Directory is the credential registry the orchestrator consults: password
// hashes for the first factor, registered passkeys for the second.
type Directory interface {
	PasswordHash(username string) (string, bool)
	Passkeys(username string) []webauthn.Credential
	AddPasskey(username string, cred webauthn.Credential) error
}

// Orchestrator composes the session store, token issuer and the external
// collaborators into the login state machine. All dependencies are
// injected; nothing here is a package global, so tests can substitute any
// piece.
type Orchestrator struct {
	dir      Directory
	hasher   PasswordHasher
	ceremony Ceremony       // nil when WebAuthn is not configured
	otp      notify.Channel // nil when no delivery channel is configured
	sessions *session.Store[Session]
	tokens   *token.Issuer
	otpTTL   time.Duration
	logger   *slog.Logger
}

// Config collects the orchestrator's dependencies. Ceremony and Otp may be
// nil; the login flow adapts to whichever factors are present.
type Config struct {
	Directory Directory
	Hasher    PasswordHasher
	Ceremony  Ceremony
	Otp       notify.Channel
	Sessions  *session.Store[Session]
	Tokens    *token.Issuer
	OtpTTL    time.Duration
	Logger    *slog.Logger
}

// New creates an Orchestrator from cfg.
func New(cfg Config) *Orchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		dir:      cfg.Directory,
		hasher:   cfg.Hasher,
		ceremony: cfg.Ceremony,
		otp:      cfg.Otp,
		sessions: cfg.Sessions,
		tokens:   cfg.Tokens,
		otpTTL:   cfg.OtpTTL,
		logger:   logger.With("component", "auth"),
	}
}

// Sessions exposes the session store for the maintenance sweep.
func (o *Orchestrator) Sessions() *session.Store[Session] {
	return o.sessions
}

// StartLogin verifies the password and either completes the login outright
// or opens a session pointing at the next required factor. Unknown users
// and wrong passwords are indistinguishable to the caller, both in the
// error returned and in response time.
func (o *Orchestrator) StartLogin(ctx context.Context, username, password string) (LoginOutcome, error) {
	username = util.Normalize(strings.TrimSpace(username))

	hash, known := o.dir.PasswordHash(username)
	if !known {
		hash = dummyHash
	}
	if err := o.hasher.Compare(ctx, hash, password); err != nil || !known {
		return LoginOutcome{}, ErrAuthenticationFailed
	}

	hasWebAuthn := o.ceremony != nil && len(o.dir.Passkeys(username)) > 0
	hasOtp := o.otp != nil

	switch {
	case hasWebAuthn:
		id := o.sessions.Create(Session{Username: username, Step: StepPasswordVerified})
		return nextStepOutcome(id, NextStepWebAuthn), nil
	case hasOtp:
		code, err := generateOtpCode()
		if err != nil {
			return LoginOutcome{}, err
		}
		id := o.sessions.Create(Session{
			Username:  username,
			Step:      StepPasswordVerified,
			OtpCode:   code,
			OtpSentAt: time.Now(),
		})
		o.dispatchOtp(username, code)
		return nextStepOutcome(id, NextStepOtp), nil
	default:
		return o.issueToken(username)
	}
}

// BeginWebAuthn starts the passkey ceremony for a login session at the
// PasswordVerified step and returns the challenge payload verbatim.
func (o *Orchestrator) BeginWebAuthn(sessionID string) (json.RawMessage, error) {
	s, ok := o.sessions.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.Step != StepPasswordVerified || s.OtpCode != "" {
		// A session that already holds a code is at the OTP stage; the
		// passkey ceremony is not part of its flow.
		return nil, ErrInvalidStep
	}
	if o.ceremony == nil {
		return nil, ErrNotConfigured
	}

	challenge, state, err := o.ceremony.BeginLogin(s.Username)
	if err != nil {
		o.logger.Error("webauthn begin failed", "username", s.Username, "error", err)
		return nil, ErrAuthenticationFailed
	}
	if !o.sessions.Update(sessionID, func(s Session) Session {
		s.Ceremony = state
		return s
	}) {
		return nil, ErrSessionNotFound
	}
	return challenge, nil
}

// FinishWebAuthn verifies the assertion. On success the flow either
// completes or moves on to the one-time code, depending on whether a
// delivery channel is configured. On failure the session is left intact so
// the client may retry the ceremony.
func (o *Orchestrator) FinishWebAuthn(sessionID string, assertion []byte) (LoginOutcome, error) {
	s, ok := o.sessions.Get(sessionID)
	if !ok {
		return LoginOutcome{}, ErrSessionNotFound
	}
	if s.Step != StepPasswordVerified || s.Ceremony == nil {
		return LoginOutcome{}, ErrInvalidStep
	}
	if o.ceremony == nil {
		return LoginOutcome{}, ErrNotConfigured
	}

	if err := o.ceremony.FinishLogin(s.Username, s.Ceremony, assertion); err != nil {
		return LoginOutcome{}, ErrAuthenticationFailed
	}

	if o.otp == nil {
		if _, ok := o.sessions.Remove(sessionID); !ok {
			return LoginOutcome{}, ErrSessionNotFound
		}
		return o.issueToken(s.Username)
	}

	code, err := generateOtpCode()
	if err != nil {
		return LoginOutcome{}, err
	}
	if !o.sessions.Update(sessionID, func(s Session) Session {
		s.Step = StepWebAuthnVerified
		s.OtpCode = code
		s.OtpSentAt = time.Now()
		s.Ceremony = nil
		return s
	}) {
		return LoginOutcome{}, ErrSessionNotFound
	}
	o.dispatchOtp(s.Username, code)
	return nextStepOutcome(sessionID, NextStepOtp), nil
}

// VerifyOtp checks the submitted one-time code. A correct code completes
// the login and consumes the session; a wrong code leaves the session
// intact for retries until the code's TTL; an expired code removes the
// session outright.
func (o *Orchestrator) VerifyOtp(sessionID, code string) (LoginOutcome, error) {
	s, ok := o.sessions.Get(sessionID)
	if !ok {
		return LoginOutcome{}, ErrSessionNotFound
	}
	if s.Step != StepPasswordVerified && s.Step != StepWebAuthnVerified {
		return LoginOutcome{}, ErrInvalidStep
	}
	if s.OtpCode == "" {
		return LoginOutcome{}, ErrInvalidStep
	}

	if time.Since(s.OtpSentAt) > o.otpTTL {
		o.sessions.Remove(sessionID)
		return LoginOutcome{}, ErrOtpExpired
	}
	if !otpEqual(code, s.OtpCode) {
		return LoginOutcome{}, ErrAuthenticationFailed
	}
	// Remove is the serialization point: only one of two concurrent
	// correct submissions can win the entry.
	if _, ok := o.sessions.Remove(sessionID); !ok {
		return LoginOutcome{}, ErrSessionNotFound
	}
	return o.issueToken(s.Username)
}

// Logout revokes the token's jti if the token verifies. It never reports
// whether the token was valid; callers respond with success regardless so
// logout cannot be used as a validity oracle.
func (o *Orchestrator) Logout(tokenStr string) {
	if tokenStr == "" {
		return
	}
	claims, err := o.tokens.Verify(tokenStr)
	if err != nil {
		return
	}
	o.tokens.Revoke(claims.ID, claims.ExpiresAt.Time)
	o.logger.Info("token revoked", "username", claims.Subject, "jti", claims.ID)
}

// BeginRegistration opens a passkey-registration session for an already
// authenticated user and returns the creation challenge.
func (o *Orchestrator) BeginRegistration(username string) (json.RawMessage, string, error) {
	if o.ceremony == nil {
		return nil, "", ErrNotConfigured
	}
	challenge, state, err := o.ceremony.BeginRegistration(username)
	if err != nil {
		o.logger.Error("webauthn registration begin failed", "username", username, "error", err)
		return nil, "", ErrAuthenticationFailed
	}
	id := o.sessions.Create(Session{
		Username: username,
		Step:     StepRegistrationInProgress,
		Ceremony: state,
	})
	return challenge, id, nil
}

// FinishRegistration completes the registration ceremony and stores the
// new credential. username must match the session's owner; a caller
// cannot finish someone else's registration.
func (o *Orchestrator) FinishRegistration(username, sessionID string, credential []byte) error {
	s, ok := o.sessions.Get(sessionID)
	if !ok {
		return ErrSessionNotFound
	}
	if s.Step != StepRegistrationInProgress || s.Ceremony == nil || s.Username != username {
		return ErrInvalidStep
	}
	if o.ceremony == nil {
		return ErrNotConfigured
	}
	if err := o.ceremony.FinishRegistration(s.Username, s.Ceremony, credential); err != nil {
		return ErrAuthenticationFailed
	}
	o.sessions.Remove(sessionID)
	return nil
}

func (o *Orchestrator) issueToken(username string) (LoginOutcome, error) {
	tok, expiresAt, err := o.tokens.Issue(username)
	if err != nil {
		return LoginOutcome{}, err
	}
	return completeOutcome(tok, expiresAt), nil
}

// dispatchOtp fires the delivery on a detached goroutine. The login
// response never waits on the webhook; failures are logged and the user
// simply retries login if the code never arrives.
func (o *Orchestrator) dispatchOtp(username, code string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := o.otp.Send(ctx, username, code); err != nil {
			o.logger.Error("otp delivery failed", "username", username, "error", err)
		}
	}()
}
