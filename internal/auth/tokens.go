package auth

import (
	"net/http"
	"time"
)

// Cookie names for the credential pair.
const (
	AccessCookie  = "spotify_access_token"
	RefreshCookie = "spotify_refresh_token"
)

// RefreshTTL is the fixed lifetime of the refresh cookie.
const RefreshTTL = 30 * 24 * time.Hour

// Credentials is the credential pair read from a request's cookie jar.
type Credentials struct {
	AccessToken  string
	RefreshToken string
}

// Empty reports whether neither credential is present.
func (c Credentials) Empty() bool {
	return c.AccessToken == "" && c.RefreshToken == ""
}

// HasAccess reports whether an access credential is present.
func (c Credentials) HasAccess() bool { return c.AccessToken != "" }

// HasRefresh reports whether a refresh credential is present.
func (c Credentials) HasRefresh() bool { return c.RefreshToken != "" }

// TokenPair is the result of an OAuth exchange or refresh grant.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
}

// TTL returns the remaining lifetime of the access token.
func (p TokenPair) TTL() time.Duration {
	if p.Expiry.IsZero() {
		return 0
	}
	return time.Until(p.Expiry)
}

// ReadCredentials extracts the credential pair from the request's cookies.
func ReadCredentials(r *http.Request) Credentials {
	var creds Credentials
	if c, err := r.Cookie(AccessCookie); err == nil {
		creds.AccessToken = c.Value
	}
	if c, err := r.Cookie(RefreshCookie); err == nil {
		creds.RefreshToken = c.Value
	}
	return creds
}

// CookieWriter persists or clears the credential pair on HTTP responses.
//
// Cookies are HTTP-only and SameSite=Lax; Secure is enabled in production
// via configuration.
type CookieWriter struct {
	Secure bool
}

// SetAccess writes the access token cookie with the given lifetime.
func (w CookieWriter) SetAccess(rw http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(rw, w.cookie(AccessCookie, token, ttl))
}

// SetRefresh writes the refresh token cookie with the fixed 30-day lifetime.
func (w CookieWriter) SetRefresh(rw http.ResponseWriter, token string) {
	http.SetCookie(rw, w.cookie(RefreshCookie, token, RefreshTTL))
}

// SetPair writes both cookies from an exchange result.
func (w CookieWriter) SetPair(rw http.ResponseWriter, pair TokenPair) {
	w.SetAccess(rw, pair.AccessToken, pair.TTL())
	if pair.RefreshToken != "" {
		w.SetRefresh(rw, pair.RefreshToken)
	}
}

// Clear expires both cookies unconditionally.
func (w CookieWriter) Clear(rw http.ResponseWriter) {
	for _, name := range []string{AccessCookie, RefreshCookie} {
		http.SetCookie(rw, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   w.Secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

func (w CookieWriter) cookie(name, value string, ttl time.Duration) *http.Cookie {
	maxAge := int(ttl.Seconds())
	if maxAge <= 0 {
		maxAge = 0
	}
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   w.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
