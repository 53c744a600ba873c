package api

import (
	"log/slog"
	"net/http"
	"time"
)

// AuditEvent identifies the type of security-relevant action being logged.
type AuditEvent string

const (
	AuditLoginSuccess       AuditEvent = "login_success"
	AuditLoginStep          AuditEvent = "login_next_step"
	AuditLoginFailure       AuditEvent = "login_failure"
	AuditOtpFailure         AuditEvent = "otp_failure"
	AuditWebAuthnFailure    AuditEvent = "webauthn_failure"
	AuditWebAuthnRegistered AuditEvent = "webauthn_registered"
	AuditLogout             AuditEvent = "logout"
	AuditTicketIssued       AuditEvent = "ticket_issued"
	AuditTicketConsumed     AuditEvent = "ticket_consumed"
	AuditTicketRejected     AuditEvent = "ticket_rejected"
)

// auditLogger wraps slog.Logger for structured security audit logging.
type auditLogger struct {
	logger *slog.Logger
}

func newAuditLogger(logger *slog.Logger) *auditLogger {
	return &auditLogger{
		logger: logger.With("component", "audit"),
	}
}

func (al *auditLogger) log(event AuditEvent, r *http.Request, attrs ...slog.Attr) {
	baseAttrs := []slog.Attr{
		slog.String("event", string(event)),
		slog.String("remote_addr", r.RemoteAddr),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}
	baseAttrs = append(baseAttrs, attrs...)
	al.logger.LogAttrs(r.Context(), slog.LevelInfo, "audit", baseAttrs...)
}

// logEvent is a convenience for events tied to a username. The username
// may be empty when the actor is not (or must not be) identified.
func (al *auditLogger) logEvent(event AuditEvent, r *http.Request, username string, extra ...slog.Attr) {
	attrs := []slog.Attr{}
	if username != "" {
		attrs = append(attrs, slog.String("username", username))
	}
	attrs = append(attrs, extra...)
	al.log(event, r, attrs...)
}

// logFailure logs a failed authentication attempt.
func (al *auditLogger) logFailure(event AuditEvent, r *http.Request, reason string, extra ...slog.Attr) {
	attrs := []slog.Attr{
		slog.String("reason", reason),
	}
	attrs = append(attrs, extra...)
	al.log(event, r, attrs...)
}
