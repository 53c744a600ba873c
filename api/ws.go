package api

import (
	"context"
	"net/http"
)

// TicketGate authorizes a WebSocket upgrade request via the `ticket` query
// parameter. Tickets are single-use and expire 30 seconds after issuance;
// a missing, invalid, consumed or expired ticket is rejected with 401
// before any handshake work happens. On success the bound username is
// stored on the request context and the wrapped terminal handler takes
// over. The primary bearer token never appears in the URL.
func (a *API) TicketGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("ticket")
		if id == "" {
			a.audit.logFailure(AuditTicketRejected, r, "missing ticket")
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		username, ok := a.tickets.Consume(id)
		if !ok {
			a.audit.logFailure(AuditTicketRejected, r, "invalid or expired ticket")
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		a.audit.logEvent(AuditTicketConsumed, r, username)
		ctx := context.WithValue(r.Context(), usernameKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WsUsername returns the username a consumed ticket bound to the request,
// for use by the terminal handler behind TicketGate.
func WsUsername(ctx context.Context) string {
	return usernameFromContext(ctx)
}
