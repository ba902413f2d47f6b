package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/curator/internal/shared"
)

// Outcome classifies the result of a session check.
type Outcome int

const (
	// OutcomeUnauthenticated means no usable credentials remain; the caller
	// should clear both cookies and require a new login.
	OutcomeUnauthenticated Outcome = iota
	// OutcomeAuthenticated means the presented access token is valid as-is.
	OutcomeAuthenticated
	// OutcomeRefreshed means a new access token was minted; the caller must
	// persist the replacement credentials from the Result.
	OutcomeRefreshed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAuthenticated:
		return "authenticated"
	case OutcomeRefreshed:
		return "refreshed"
	default:
		return "unauthenticated"
	}
}

// Result carries the guard's decision plus any replacement credentials.
// The guard never persists anything itself.
type Result struct {
	Outcome      Outcome
	AccessToken  string
	RefreshToken string        // set on refresh; may differ from the input when rotated
	TTL          time.Duration // access token lifetime, set on refresh
}

// Prober checks whether an access token is currently valid, typically via a
// lightweight identity call against the catalog. It must return an
// authorization-class error (see [shared.IsAuthError]) for definitive
// rejections and a transient-class error for provider trouble.
type Prober interface {
	Probe(ctx context.Context, accessToken string) error
}

// ProbeFunc adapts a function to the [Prober] interface.
type ProbeFunc func(ctx context.Context, accessToken string) error

func (f ProbeFunc) Probe(ctx context.Context, accessToken string) error {
	return f(ctx, accessToken)
}

// Refresher mints a new credential pair from a refresh token.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}

// Guard owns the per-request refresh decision policy.
type Guard struct {
	probe     Prober
	refresher Refresher
	logger    *log.Logger
}

// NewGuard creates a session guard from an identity prober and a refresher.
func NewGuard(probe Prober, refresher Refresher, logger *log.Logger) *Guard {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Guard{probe: probe, refresher: refresher, logger: logger}
}

// Authenticate runs the session state machine for one request.
//
// The access credential, when present, is always tried first: refresh-grant
// calls are rate-limited far more strictly by providers than identity probes.
// A non-nil error is returned only for transient provider failures and means
// "retry", never "log out".
func (g *Guard) Authenticate(ctx context.Context, creds Credentials) (Result, error) {
	if creds.Empty() {
		return Result{Outcome: OutcomeUnauthenticated}, nil
	}

	if creds.HasAccess() {
		err := g.probe.Probe(ctx, creds.AccessToken)
		if err == nil {
			return Result{Outcome: OutcomeAuthenticated, AccessToken: creds.AccessToken}, nil
		}

		if !shared.IsAuthError(err) {
			return Result{}, fmt.Errorf("identity probe: %w", err)
		}

		g.logger.Debug("access token rejected", "refreshable", creds.HasRefresh())
		if !creds.HasRefresh() {
			return Result{Outcome: OutcomeUnauthenticated}, nil
		}
	}

	return g.refresh(ctx, creds.RefreshToken)
}

// refresh runs the refresh grant. Any failure here expires the session: a
// credential pair whose refresh token no longer works is discarded entirely.
func (g *Guard) refresh(ctx context.Context, refreshToken string) (Result, error) {
	pair, err := g.refresher.Refresh(ctx, refreshToken)
	if err != nil {
		g.logger.Debug("refresh grant failed", "err", err)
		return Result{Outcome: OutcomeUnauthenticated}, nil
	}

	return Result{
		Outcome:      OutcomeRefreshed,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TTL:          pair.TTL(),
	}, nil
}
