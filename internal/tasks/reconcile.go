package tasks

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/curator/internal/models"
	"github.com/desertthunder/curator/internal/services"
	"github.com/desertthunder/curator/internal/shared"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// SearchFunc performs an authenticated catalog search returning at most
// limit results. The session token is already bound into the closure.
type SearchFunc func(ctx context.Context, query string, limit int) ([]services.SpotifyTrack, error)

// ResolutionCache is the optional read-through cache consulted before any
// catalog lookup. Implemented by repositories.ResolutionRepository.
type ResolutionCache interface {
	Get(query string) (*models.CachedTrack, error)
	Put(query string, resolved models.ResolvedTrack) error
}

// ReconcilerOpts contains tuning for the reconciliation pipeline.
type ReconcilerOpts struct {
	Workers   int             // Concurrent lookups (default 5, capped at 10)
	RateLimit float64         // Catalog requests per second (default 5)
	Cache     ResolutionCache // Optional resolution cache
	Logger    *log.Logger
}

// Reconciler resolves candidate tracks against the real catalog.
type Reconciler struct {
	workers int
	limiter *rate.Limiter
	cache   ResolutionCache
	logger  *log.Logger
}

// NewReconciler creates a reconciliation pipeline with the given options.
func NewReconciler(opts ReconcilerOpts) *Reconciler {
	if opts.Workers <= 0 {
		opts.Workers = 5
	}
	if opts.Workers > 10 {
		opts.Workers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &Reconciler{
		workers: opts.Workers,
		limiter: rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
		cache:   opts.Cache,
		logger:  opts.Logger,
	}
}

// Reconcile resolves each candidate independently and concurrently,
// reassembling results by original index.
//
// Invariants: the returned slice always has the same length and order as
// candidates. A catalog hit yields the verified track with the catalog's
// title, artists, and URI in place of the generator's strings. A miss or any
// per-item error yields the candidate verbatim, tagged unverified. A nil search
// function skips reconciliation entirely.
func (r *Reconciler) Reconcile(ctx context.Context, candidates []models.Track, search SearchFunc) []models.ResolvedTrack {
	resolved := make([]models.ResolvedTrack, len(candidates))

	if search == nil {
		for i, candidate := range candidates {
			resolved[i] = models.Fallback(candidate)
		}
		return resolved
	}

	var g errgroup.Group
	g.SetLimit(r.workers)

	for i, candidate := range candidates {
		g.Go(func() error {
			resolved[i] = r.resolve(ctx, candidate, search)
			return nil
		})
	}

	// Workers never return errors; per-item failures are already fallbacks.
	_ = g.Wait()

	return resolved
}

// resolve matches one candidate against the catalog.
func (r *Reconciler) resolve(ctx context.Context, candidate models.Track, search SearchFunc) models.ResolvedTrack {
	query := candidate.SearchQuery()

	if r.cache != nil {
		if cached, err := r.cache.Get(query); err == nil {
			return cached.Resolved()
		}
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return models.Fallback(candidate)
	}

	results, err := search(ctx, query, 1)
	if err != nil {
		r.logger.Debug("track lookup failed", "query", query, "err", err)
		return models.Fallback(candidate)
	}
	if len(results) == 0 {
		return models.Fallback(candidate)
	}

	match := results[0].Resolved()

	if r.cache != nil {
		if err := r.cache.Put(query, match); err != nil {
			r.logger.Debug("failed to cache resolution", "query", query, "err", err)
		}
	}

	return match
}
