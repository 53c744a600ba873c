package api

import "encoding/json"

// LoginRequest is the JSON body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the shared response shape for every operation that can
// complete a login: Type is "complete" or "next_step".
type LoginResponse struct {
	Type      string `json:"type"`
	Token     string `json:"token,omitempty"`
	ExpiresAt string `json:"expires_at,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	NextStep  string `json:"next_step,omitempty"`
}

// OtpVerifyRequest is the JSON body for POST /auth/otp/verify.
type OtpVerifyRequest struct {
	SessionID string `json:"session_id"`
	Code      string `json:"code"`
}

// WebAuthnChallengeRequest is the JSON body for POST /auth/webauthn/challenge.
type WebAuthnChallengeRequest struct {
	SessionID string `json:"session_id"`
}

// WebAuthnVerifyRequest is the JSON body for POST /auth/webauthn/verify.
type WebAuthnVerifyRequest struct {
	SessionID string          `json:"session_id"`
	Assertion json.RawMessage `json:"assertion"`
}

// LogoutRequest is the optional JSON body for POST /auth/logout, for
// callers (unload beacons) that cannot set an Authorization header.
type LogoutRequest struct {
	Token string `json:"token"`
}

// RegistrationBeginResponse is returned from POST /auth/webauthn/register/begin.
type RegistrationBeginResponse struct {
	SessionID string          `json:"session_id"`
	Challenge json.RawMessage `json:"challenge"`
}

// RegistrationFinishRequest is the JSON body for POST /auth/webauthn/register/finish.
type RegistrationFinishRequest struct {
	SessionID  string          `json:"session_id"`
	Credential json.RawMessage `json:"credential"`
}

// TicketResponse is returned from POST /auth/ws-ticket.
type TicketResponse struct {
	Ticket string `json:"ticket"`
}

// SuccessResponse is returned when an operation has no payload.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse is returned for all error cases.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
