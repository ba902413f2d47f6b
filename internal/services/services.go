// package services defines interfaces for the external collaborators of the
// curation pipeline
//
// Spotify (catalog), OpenAI-compatible LLM (suggestion generator)
package services

import (
	"context"

	"github.com/desertthunder/curator/internal/models"
)

// Catalog is the read/write facade over the external music catalog.
//
// Every method takes the bearer token explicitly. There is no shared
// authenticated client value to mutate, so concurrent requests with
// different sessions can never interfere with each other.
type Catalog interface {
	// Me retrieves the authenticated user's profile. Doubles as the
	// lightweight validity probe for the session guard.
	Me(ctx context.Context, accessToken string) (*SpotifyUser, error)

	// SearchTracks searches the catalog, returning at most limit results.
	SearchTracks(ctx context.Context, accessToken, query string, limit int) ([]SpotifyTrack, error)

	// CreatePlaylist creates an empty playlist shell owned by userID.
	CreatePlaylist(ctx context.Context, accessToken, userID string, draft models.PlaylistDraft) (*SpotifyPlaylist, error)

	// AddTracks inserts track URIs into a playlist as a single batch call.
	AddTracks(ctx context.Context, accessToken, playlistID string, uris []string) error

	// Playlist retrieves a playlist by ID.
	Playlist(ctx context.Context, accessToken, playlistID string) (*SpotifyPlaylist, error)

	// UserPlaylists retrieves the user's playlists with pagination.
	UserPlaylists(ctx context.Context, accessToken string, limit, offset int) (*SpotifyPaginatedPlaylists, error)

	// SavedTracks retrieves the user's saved tracks with pagination.
	SavedTracks(ctx context.Context, accessToken string, limit, offset int) (*SpotifyPaginatedTracks, error)

	// RecentlyPlayed retrieves the user's listening history, newest first.
	RecentlyPlayed(ctx context.Context, accessToken string, limit int) ([]SpotifyPlayHistory, error)

	// Name returns the catalog provider name (e.g. "Spotify")
	Name() string
}

// GenerationResult is the generator's answer to a playlist request: a
// conversational summary plus, when parsing succeeded, a candidate playlist.
// Suggestion track URIs are unverified and must pass through reconciliation
// before they can be trusted.
type GenerationResult struct {
	Message    string
	Suggestion *models.PlaylistSuggestion
}

// Generator produces playlist suggestions and conversational replies from
// free-text user intent.
type Generator interface {
	// SuggestPlaylist asks the model for a candidate playlist. Malformed
	// track entries are dropped; an entirely unparseable response yields a
	// generation error, never a panic.
	SuggestPlaylist(ctx context.Context, intent string) (*GenerationResult, error)

	// Converse produces a plain conversational response about music.
	Converse(ctx context.Context, message string) (string, error)
}
