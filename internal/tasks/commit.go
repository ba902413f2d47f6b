package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/curator/internal/models"
	"github.com/desertthunder/curator/internal/services"
	"github.com/desertthunder/curator/internal/shared"
)

// CommitResult contains the outcome of a successful playlist commit.
type CommitResult struct {
	PlaylistID  string
	Playlist    *services.SpotifyPlaylist
	TracksAdded int
}

// CommitEngine creates playlists from drafts as one logical, best-effort
// operation: owner lookup, shell creation, batch track insertion.
type CommitEngine struct {
	catalog services.Catalog
	logger  *log.Logger
}

// NewCommitEngine creates a commit engine over the given catalog.
func NewCommitEngine(catalog services.Catalog, logger *log.Logger) *CommitEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &CommitEngine{catalog: catalog, logger: logger}
}

// Commit creates the draft playlist under the authenticated user's account.
//
// Each step is independently fallible. If track insertion fails after the
// shell was created, the error is a [shared.PartialCommitError] carrying the
// created playlist id; the shell is never silently abandoned.
func (e *CommitEngine) Commit(ctx context.Context, accessToken string, draft models.PlaylistDraft) (*CommitResult, error) {
	if draft.Name == "" {
		return nil, fmt.Errorf("%w: playlist name is required", shared.ErrInvalidInput)
	}

	user, err := e.catalog.Me(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve owner: %w", err)
	}

	playlist, err := e.catalog.CreatePlaylist(ctx, accessToken, user.ID, draft)
	if err != nil {
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}

	result := &CommitResult{PlaylistID: playlist.ID, Playlist: playlist}

	if len(draft.TrackURIs) > 0 {
		if err := e.catalog.AddTracks(ctx, accessToken, playlist.ID, draft.TrackURIs); err != nil {
			e.logger.Warn("playlist created but track insertion failed", "playlist", playlist.ID, "err", err)
			return result, &shared.PartialCommitError{PlaylistID: playlist.ID, Err: err}
		}
		result.TracksAdded = len(draft.TrackURIs)
	}

	e.logger.Info("playlist committed", "playlist", playlist.ID, "tracks", result.TracksAdded)
	return result, nil
}
