package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ahlgren/helmsman/auth"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Success: false, Error: msg})
}

// mapError translates auth sentinels into uniform client responses. Any
// unrecognized error is internal: logged in full, returned as a generic
// message so detail never crosses the boundary.
func mapError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrAuthenticationFailed):
		writeError(w, http.StatusUnauthorized, "authentication failed")
	case errors.Is(err, auth.ErrSessionNotFound):
		writeError(w, http.StatusUnauthorized, "session not found or expired")
	case errors.Is(err, auth.ErrInvalidStep):
		writeError(w, http.StatusBadRequest, "invalid step")
	case errors.Is(err, auth.ErrOtpExpired):
		writeError(w, http.StatusUnauthorized, "one-time code expired")
	default:
		slog.Error("internal error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeBodyQuietly decodes a JSON body without writing an error response.
// Used where a malformed or absent body is tolerated.
func decodeBodyQuietly(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// decodeJSON decodes a bounded JSON request body into T.
func decodeJSON[T any](w http.ResponseWriter, r *http.Request, maxBytes int64) (T, bool) {
	var v T
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return v, false
	}
	return v, true
}
