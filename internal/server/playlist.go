package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/desertthunder/curator/internal/models"
	"github.com/desertthunder/curator/internal/services"
	"github.com/desertthunder/curator/internal/shared"
	"golang.org/x/sync/errgroup"
)

type createPlaylistRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	IsPublic    *bool    `json:"isPublic"`
	Tracks      []string `json:"tracks"`
}

// handlePlaylistCreate commits a playlist draft to the user's account.
//
// A failure after the shell was created is reported with the created
// playlist id so the client can retry insertion instead of recreating it.
func (a *API) handlePlaylistCreate(w http.ResponseWriter, r *http.Request) {
	token := TokenFromContext(r.Context())

	var req createPlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Playlist name is required")
		return
	}

	public := true
	if req.IsPublic != nil {
		public = *req.IsPublic
	}

	draft := models.PlaylistDraft{
		Name:        req.Name,
		Description: req.Description,
		Public:      public,
		TrackURIs:   req.Tracks,
	}

	result, err := a.committer.Commit(r.Context(), token, draft)
	if err != nil {
		var partial *shared.PartialCommitError
		if errors.As(err, &partial) {
			writeJSON(w, http.StatusBadGateway, map[string]any{
				"error":      "Playlist created but adding tracks failed",
				"playlistId": partial.PlaylistID,
			})
			return
		}

		a.logger.Error("playlist commit failed", "err", err)
		message := "Failed to create playlist"
		if shared.IsAuthError(err) {
			message = "Authentication token expired"
		}
		writeError(w, statusFor(err), message)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"playlist": result.Playlist,
	})
}

// handlePlaylistDetail returns the raw catalog playlist object.
func (a *API) handlePlaylistDetail(w http.ResponseWriter, r *http.Request) {
	token := TokenFromContext(r.Context())

	playlist, err := a.catalog.Playlist(r.Context(), token, r.PathValue("id"))
	if err != nil {
		a.logger.Error("failed to fetch playlist", "err", err)
		if shared.IsAuthError(err) {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to fetch playlist details")
		return
	}

	writeJSON(w, http.StatusOK, playlist)
}

// libraryResponse aggregates the user's profile and listening data.
type libraryResponse struct {
	User           *services.SpotifyUser            `json:"user"`
	Playlists      []services.SpotifySimplePlaylist `json:"playlists"`
	LikedSongs     []services.SpotifyTrack          `json:"likedSongs"`
	RecentlyPlayed []services.SpotifyPlayHistory    `json:"recentlyPlayed"`
}

// handleLibrary fetches profile, playlists, saved tracks, and listening
// history concurrently.
func (a *API) handleLibrary(w http.ResponseWriter, r *http.Request) {
	token := TokenFromContext(r.Context())

	var resp libraryResponse
	g, ctx := errgroup.WithContext(r.Context())

	g.Go(func() error {
		user, err := a.catalog.Me(ctx, token)
		resp.User = user
		return err
	})
	g.Go(func() error {
		playlists, err := a.catalog.UserPlaylists(ctx, token, 50, 0)
		if playlists != nil {
			resp.Playlists = playlists.Items
		}
		return err
	})
	g.Go(func() error {
		saved, err := a.catalog.SavedTracks(ctx, token, 50, 0)
		if saved != nil {
			for _, item := range saved.Items {
				resp.LikedSongs = append(resp.LikedSongs, item.Track)
			}
		}
		return err
	})
	g.Go(func() error {
		recent, err := a.catalog.RecentlyPlayed(ctx, token, 50)
		resp.RecentlyPlayed = recent
		return err
	})

	if err := g.Wait(); err != nil {
		a.logger.Error("failed to fetch library", "err", err)
		if shared.IsAuthError(err) {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		writeError(w, statusFor(err), "Failed to fetch library data")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
