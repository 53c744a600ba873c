// Package api exposes the auth core over HTTP: multi-step login, one-time
// code verification, WebAuthn ceremonies, logout, and the single-use
// ticket exchange that gates the WebSocket terminal endpoint.
package api

import (
	_ "embed"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-openapi/runtime/middleware"

	"github.com/ahlgren/helmsman/auth"
	"github.com/ahlgren/helmsman/ticket"
	"github.com/ahlgren/helmsman/token"
)

//go:embed openapi.yaml
var openapiSpec []byte

// API holds the dependencies needed by the REST handlers.
type API struct {
	orch    *auth.Orchestrator
	tokens  *token.Issuer
	tickets *ticket.Broker
	audit   *auditLogger
}

// Option configures the API instance.
type Option func(*API)

// WithLogger sets the structured logger for audit events. If not set, a
// default JSON logger writing to stderr is used.
func WithLogger(logger *slog.Logger) Option {
	return func(a *API) {
		a.audit = newAuditLogger(logger)
	}
}

// New creates a new API instance.
func New(orch *auth.Orchestrator, tokens *token.Issuer, tickets *ticket.Broker, opts ...Option) *API {
	a := &API{
		orch:    orch,
		tokens:  tokens,
		tickets: tickets,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.audit == nil {
		a.audit = newAuditLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	}
	return a
}

// Router returns a chi.Router with all API routes mounted.
func (a *API) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(openapiSpec)
	})

	r.Handle("/docs*", middleware.SwaggerUI(middleware.SwaggerUIOpts{
		SpecURL: "/api/v1/openapi.yaml",
		Path:    "api/v1/docs",
	}, nil))

	r.Post("/auth/login", a.Login)
	r.Post("/auth/otp/verify", a.VerifyOtp)
	r.Post("/auth/webauthn/challenge", a.WebAuthnChallenge)
	r.Post("/auth/webauthn/verify", a.WebAuthnVerify)
	r.Post("/auth/logout", a.Logout)

	r.Group(func(r chi.Router) {
		r.Use(a.RequireAuth)
		r.Post("/auth/webauthn/register/begin", a.BeginRegistration)
		r.Post("/auth/webauthn/register/finish", a.FinishRegistration)
		r.Post("/auth/ws-ticket", a.IssueTicket)
	})

	return r
}
