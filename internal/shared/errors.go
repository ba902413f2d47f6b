package shared

import (
	"errors"
	"fmt"
)

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors, unrecoverable without a new login
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTokenExpired     = fmt.Errorf("access token expired")
	ErrRefreshFailed    = fmt.Errorf("token refresh failed")
	ErrNoRefreshToken   = fmt.Errorf("no refresh token available")

	// Transient provider errors, retryable and never a reason to log out
	ErrRateLimited        = fmt.Errorf("rate limited by provider")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrTimeout            = fmt.Errorf("operation timed out")

	// API and catalog errors
	ErrAPIRequest       = fmt.Errorf("API request failed")
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")
	ErrTrackNotFound    = fmt.Errorf("track not found")

	// Generation errors, AI output missing or unparseable
	ErrGenerationFailed = fmt.Errorf("playlist generation failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
)

// IsAuthError reports whether err is a definitive authorization rejection,
// the only class of failure that triggers the refresh-or-expire path.
func IsAuthError(err error) bool {
	for _, target := range []error{ErrAuthFailed, ErrNotAuthenticated, ErrTokenExpired, ErrRefreshFailed, ErrNoRefreshToken} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsTransient reports whether err is a retryable provider failure
// (rate limiting, outage, timeout). Transient failures never force logout.
func IsTransient(err error) bool {
	for _, target := range []error{ErrRateLimited, ErrServiceUnavailable, ErrTimeout} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// PartialCommitError reports a playlist commit where the shell was created
// but a later step failed. The created playlist still exists on the provider
// side, so callers can retry track insertion instead of recreating it.
type PartialCommitError struct {
	PlaylistID string
	Err        error
}

func (e *PartialCommitError) Error() string {
	return fmt.Sprintf("playlist %s created but commit incomplete: %v", e.PlaylistID, e.Err)
}

func (e *PartialCommitError) Unwrap() error {
	return e.Err
}
