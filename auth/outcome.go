package auth

import "time"

// Next-step names returned to the client when further factors are required.
const (
	NextStepWebAuthn = "webauthn"
	NextStepOtp      = "otp"
)

// LoginOutcome is the result of any operation that can complete a login:
// either a bearer token (Complete) or a pointer at the next factor.
type LoginOutcome struct {
	Complete  bool
	Token     string
	ExpiresAt time.Time
	SessionID string
	NextStep  string
}

func completeOutcome(token string, expiresAt time.Time) LoginOutcome {
	return LoginOutcome{Complete: true, Token: token, ExpiresAt: expiresAt}
}

func nextStepOutcome(sessionID, step string) LoginOutcome {
	return LoginOutcome{SessionID: sessionID, NextStep: step}
}
