package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/curator/internal/auth"
)

type contextKey int

const tokenKey contextKey = iota

// TokenFromContext returns the access token injected by [SessionMiddleware],
// or an empty string when the request was not guarded.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

func withToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// LoggingMiddleware logs each request with method, path, status, and duration.
func LoggingMiddleware(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
			)
		})
	}
}

// SessionMiddleware is the routing guard for catalog-facing endpoints.
//
// Requests without a refresh credential are rejected with 401 before the
// handler runs. When only the access credential is missing, the session is
// silently refreshed and the new access cookie is set on the response. The
// usable access token is injected into the request context either way; the
// per-request validity probe is left to the auth-check endpoint, since
// catalog calls surface expired tokens themselves.
func SessionMiddleware(refresher auth.Refresher, cookies auth.CookieWriter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			creds := auth.ReadCredentials(r)

			// No refresh credential means no recoverable session, even if a
			// stray access cookie is still around.
			if !creds.HasRefresh() {
				writeError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			if creds.HasAccess() {
				next.ServeHTTP(w, r.WithContext(withToken(r.Context(), creds.AccessToken)))
				return
			}

			pair, err := refresher.Refresh(r.Context(), creds.RefreshToken)
			if err != nil {
				cookies.Clear(w)
				writeError(w, http.StatusUnauthorized, "Failed to refresh token")
				return
			}

			cookies.SetPair(w, *pair)
			next.ServeHTTP(w, r.WithContext(withToken(r.Context(), pair.AccessToken)))
		})
	}
}
