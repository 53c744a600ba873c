package auth

import (
	"time"

	"github.com/go-webauthn/webauthn/webauthn"
)

// Step marks how far a multi-step flow has progressed. Login sessions move
// PasswordVerified -> WebAuthnVerified; registration sessions carry the
// single RegistrationInProgress step. A session only exists between the
// first factor being satisfied and flow completion.
type Step string

const (
	StepPasswordVerified       Step = "password_verified"
	StepWebAuthnVerified       Step = "webauthn_verified"
	StepRegistrationInProgress Step = "registration_in_progress"
)

// Session is the server-side state for one in-flight login or passkey
// registration. The two workflows share the record shape but are told
// apart by Step; every operation checks Step so they can never be
// cross-validated.
type Session struct {
	Username  string
	Step      Step
	OtpCode   string
	OtpSentAt time.Time
	// Ceremony holds the intermediate WebAuthn state between the
	// challenge and verify round trips. Step tags whether it belongs to
	// a login or a registration ceremony.
	Ceremony *webauthn.SessionData
}
