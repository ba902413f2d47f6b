// package repositories provides the persistence layer for cached track resolutions.
package repositories

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/desertthunder/curator/internal/models"
	"github.com/desertthunder/curator/internal/shared"
)

// artistSeparator joins artist names into a single column. U+001F keeps the
// join reversible for names containing commas.
const artistSeparator = "\x1f"

// ResolutionRepository persists verified catalog resolutions keyed by
// normalized search query.
type ResolutionRepository struct {
	db *sql.DB
}

// NewResolutionRepository creates a ResolutionRepository with the given database connection.
func NewResolutionRepository(db *sql.DB) *ResolutionRepository {
	return &ResolutionRepository{db: db}
}

// Get retrieves a cached resolution for the given search query.
// Returns [shared.ErrTrackNotFound] on a cache miss.
func (r *ResolutionRepository) Get(query string) (*models.CachedTrack, error) {
	row := r.db.QueryRow(`
		SELECT id, query, name, artists, uri, created_at
		FROM resolved_tracks
		WHERE query = ?
	`, models.NormalizeQuery(query))

	var cached models.CachedTrack
	var artists string
	err := row.Scan(&cached.ID, &cached.Query, &cached.Name, &artists, &cached.URI, &cached.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: no cached resolution for query", shared.ErrTrackNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read resolution cache: %w", err)
	}

	if artists != "" {
		cached.Artists = strings.Split(artists, artistSeparator)
	}
	return &cached, nil
}

// Put stores a verified resolution for the given search query.
// An existing entry for the same query is silently kept (first write wins).
func (r *ResolutionRepository) Put(query string, resolved models.ResolvedTrack) error {
	if !resolved.Verified {
		return fmt.Errorf("%w: only verified resolutions are cached", shared.ErrInvalidInput)
	}

	artists := make([]string, 0, len(resolved.Artists))
	for _, a := range resolved.Artists {
		artists = append(artists, a.Name)
	}

	_, err := r.db.Exec(`
		INSERT INTO resolved_tracks (query, name, artists, uri)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (query) DO NOTHING
	`, models.NormalizeQuery(query), resolved.Name, strings.Join(artists, artistSeparator), resolved.URI)
	if err != nil {
		return fmt.Errorf("failed to cache resolution: %w", err)
	}

	return nil
}

// Purge removes all cached resolutions. Used by the setup command.
func (r *ResolutionRepository) Purge() error {
	if _, err := r.db.Exec("DELETE FROM resolved_tracks"); err != nil {
		return fmt.Errorf("failed to purge resolution cache: %w", err)
	}
	return nil
}

// Count returns the number of cached resolutions.
func (r *ResolutionRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM resolved_tracks").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count cached resolutions: %w", err)
	}
	return count, nil
}
