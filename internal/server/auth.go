package server

import (
	"net/http"
	"time"

	"github.com/desertthunder/curator/internal/auth"
	"github.com/desertthunder/curator/internal/shared"
)

// stateCookie holds the OAuth state parameter between the login redirect and
// the provider callback, for CSRF protection.
const stateCookie = "oauth_state"

// handleLogin starts the authorization-code flow by redirecting the browser
// to the provider's consent screen.
func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	state := shared.GenerateID()

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   a.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, a.exchanger.AuthURL(state), http.StatusTemporaryRedirect)
}

// handleCallback completes the authorization-code flow.
//
// On success both credential cookies are set and the browser is redirected
// to the application root; every failure redirects with a human-readable
// error code in the query string.
func (a *API) handleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if errParam := query.Get("error"); errParam != "" {
		a.redirectWithError(w, r, errParam)
		return
	}

	code := query.Get("code")
	if code == "" {
		a.redirectWithError(w, r, "missing_code")
		return
	}

	if c, err := r.Cookie(stateCookie); err != nil || c.Value == "" || c.Value != query.Get("state") {
		a.redirectWithError(w, r, "state_mismatch")
		return
	}

	pair, err := a.exchanger.Exchange(r.Context(), code)
	if err != nil {
		a.logger.Error("code exchange failed", "err", err)
		a.redirectWithError(w, r, "token_exchange_failed")
		return
	}

	a.cookies.SetPair(w, *pair)
	http.Redirect(w, r, a.appURL, http.StatusTemporaryRedirect)
}

func (a *API) redirectWithError(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, a.appURL+"?error="+code, http.StatusTemporaryRedirect)
}

// checkResponse is the auth-check payload consumed by the frontend.
type checkResponse struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	AccessToken     string `json:"accessToken,omitempty"`
}

// handleCheck runs the session guard and persists whatever credential
// replacement it hands back.
func (a *API) handleCheck(w http.ResponseWriter, r *http.Request) {
	creds := auth.ReadCredentials(r)

	result, err := a.guard.Authenticate(r.Context(), creds)
	if err != nil {
		// Transient provider trouble: the session is still intact, the
		// caller should retry rather than re-login.
		a.logger.Warn("auth check hit transient provider error", "err", err)
		writeError(w, http.StatusServiceUnavailable, "Provider unavailable, retry")
		return
	}

	switch result.Outcome {
	case auth.OutcomeAuthenticated:
		writeJSON(w, http.StatusOK, checkResponse{IsAuthenticated: true, AccessToken: result.AccessToken})

	case auth.OutcomeRefreshed:
		a.cookies.SetAccess(w, result.AccessToken, result.TTL)
		if result.RefreshToken != "" && result.RefreshToken != creds.RefreshToken {
			a.cookies.SetRefresh(w, result.RefreshToken)
		}
		writeJSON(w, http.StatusOK, checkResponse{IsAuthenticated: true, AccessToken: result.AccessToken})

	default:
		if !creds.Empty() {
			a.cookies.Clear(w)
		}
		writeJSON(w, http.StatusOK, checkResponse{IsAuthenticated: false})
	}
}

// handleLogout clears both credential cookies unconditionally.
func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	a.cookies.Clear(w)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
