package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ahlgren/helmsman/auth"
)

// maxAuthBodySize bounds auth request bodies. WebAuthn assertions are the
// largest payloads and stay well under this.
const maxAuthBodySize = 64 * 1024

func loginResponse(out auth.LoginOutcome) LoginResponse {
	if out.Complete {
		return LoginResponse{
			Type:      "complete",
			Token:     out.Token,
			ExpiresAt: out.ExpiresAt.UTC().Format(time.RFC3339),
		}
	}
	return LoginResponse{
		Type:      "next_step",
		SessionID: out.SessionID,
		NextStep:  out.NextStep,
	}
}

// Login handles POST /auth/login.
func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSON[LoginRequest](w, r, maxAuthBodySize)
	if !ok {
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "password is required")
		return
	}

	out, err := a.orch.StartLogin(r.Context(), req.Username, req.Password)
	if err != nil {
		a.audit.logFailure(AuditLoginFailure, r, "password verification failed")
		mapError(w, err)
		return
	}
	if out.Complete {
		a.audit.logEvent(AuditLoginSuccess, r, req.Username)
	} else {
		a.audit.logEvent(AuditLoginStep, r, req.Username,
			slog.String("next_step", out.NextStep))
	}
	writeJSON(w, http.StatusOK, loginResponse(out))
}

// VerifyOtp handles POST /auth/otp/verify.
func (a *API) VerifyOtp(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSON[OtpVerifyRequest](w, r, maxAuthBodySize)
	if !ok {
		return
	}

	out, err := a.orch.VerifyOtp(req.SessionID, req.Code)
	if err != nil {
		a.audit.logFailure(AuditOtpFailure, r, "otp verification failed")
		mapError(w, err)
		return
	}
	a.audit.logEvent(AuditLoginSuccess, r, "")
	writeJSON(w, http.StatusOK, loginResponse(out))
}

// WebAuthnChallenge handles POST /auth/webauthn/challenge. The ceremony
// challenge JSON is returned verbatim.
func (a *API) WebAuthnChallenge(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSON[WebAuthnChallengeRequest](w, r, maxAuthBodySize)
	if !ok {
		return
	}

	challenge, err := a.orch.BeginWebAuthn(req.SessionID)
	if err != nil {
		mapError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(challenge)
}

// WebAuthnVerify handles POST /auth/webauthn/verify.
func (a *API) WebAuthnVerify(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSON[WebAuthnVerifyRequest](w, r, maxAuthBodySize)
	if !ok {
		return
	}

	out, err := a.orch.FinishWebAuthn(req.SessionID, req.Assertion)
	if err != nil {
		a.audit.logFailure(AuditWebAuthnFailure, r, "assertion verification failed")
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse(out))
}

// Logout handles POST /auth/logout. The token is taken from the
// Authorization header or, failing that, a JSON body field, so both fetch
// and unload-beacon callers work. The response is success no matter what:
// logout must not leak token validity.
func (a *API) Logout(w http.ResponseWriter, r *http.Request) {
	tokenStr := bearerToken(r)
	if tokenStr == "" {
		var req LogoutRequest
		r.Body = http.MaxBytesReader(w, r.Body, maxAuthBodySize)
		if err := decodeBodyQuietly(r, &req); err == nil {
			tokenStr = req.Token
		}
	}
	a.orch.Logout(tokenStr)
	a.audit.logEvent(AuditLogout, r, "")
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// BeginRegistration handles POST /auth/webauthn/register/begin for an
// authenticated user.
func (a *API) BeginRegistration(w http.ResponseWriter, r *http.Request) {
	username := usernameFromContext(r.Context())

	challenge, sessionID, err := a.orch.BeginRegistration(username)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RegistrationBeginResponse{
		SessionID: sessionID,
		Challenge: challenge,
	})
}

// FinishRegistration handles POST /auth/webauthn/register/finish.
func (a *API) FinishRegistration(w http.ResponseWriter, r *http.Request) {
	username := usernameFromContext(r.Context())
	req, ok := decodeJSON[RegistrationFinishRequest](w, r, maxAuthBodySize)
	if !ok {
		return
	}

	if err := a.orch.FinishRegistration(username, req.SessionID, req.Credential); err != nil {
		a.audit.logFailure(AuditWebAuthnFailure, r, "registration verification failed")
		mapError(w, err)
		return
	}
	a.audit.logEvent(AuditWebAuthnRegistered, r, username)
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// IssueTicket handles POST /auth/ws-ticket. The returned ticket is the
// only credential the WebSocket client puts in its URL.
func (a *API) IssueTicket(w http.ResponseWriter, r *http.Request) {
	username := usernameFromContext(r.Context())
	id := a.tickets.Issue(username)
	a.audit.logEvent(AuditTicketIssued, r, username)
	writeJSON(w, http.StatusOK, TicketResponse{Ticket: id})
}
