package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/desertthunder/curator/internal/shared"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}

// statusFor maps an error kind to an HTTP status: authorization rejections
// are 401, validation 400, transient provider trouble 503, partial commits
// 502, everything else 500.
func statusFor(err error) int {
	var partial *shared.PartialCommitError
	switch {
	case shared.IsAuthError(err):
		return http.StatusUnauthorized
	case errors.Is(err, shared.ErrInvalidInput), errors.Is(err, shared.ErrMissingArgument):
		return http.StatusBadRequest
	case shared.IsTransient(err):
		return http.StatusServiceUnavailable
	case errors.As(err, &partial):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
