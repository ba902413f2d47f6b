// Package auth implements the session and token lifecycle for the Curator service.
//
// # Token Store
//
// All session state lives in two browser cookies: a short-lived access token
// (max-age set from the provider-reported expiry) and a long-lived refresh
// token (30 days). The server never caches either past the current request;
// the browser exclusively owns the credential pair.
//
// # OAuth Exchange
//
// [Exchanger] wraps [oauth2.Config] for the authorization-code exchange and
// the refresh grant. It is stateless: tokens go in as parameters and come
// back as a [TokenPair] for the caller to persist. When the provider does not
// rotate the refresh token on refresh, the original is preserved so a valid
// pair never ends up with only an expired refresh credential.
//
// # Session Guard
//
// [Guard] decides, per request, whether the caller is authenticated, needs a
// silent refresh, or must be rejected. It is re-entrant and side-effect-free:
// it never writes cookies itself, it hands the replacement credentials back
// in its [Result]. Only a definitive authorization rejection from the probe
// triggers the refresh-or-expire path; transient provider failures (rate
// limits, 5xx, timeouts) surface as retryable errors.
//
// Two concurrent requests may race the same refresh token; if the provider
// rotates it on first use, the loser's refresh fails and its session is
// cleared. This is a known, accepted limitation rather than something the
// guard tries to correct with single-flight de-duplication.
package auth
