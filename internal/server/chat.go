package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/desertthunder/curator/internal/auth"
	"github.com/desertthunder/curator/internal/models"
	"github.com/desertthunder/curator/internal/services"
	"github.com/desertthunder/curator/internal/tasks"
)

const apologyMessage = "I encountered an error while processing your request. Please try again."

type chatRequest struct {
	Message           string `json:"message"`
	IsPlaylistRequest bool   `json:"isPlaylistRequest"`
}

// suggestionView is the reconciled playlist suggestion returned to the client.
type suggestionView struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Tracks      []models.ResolvedTrack `json:"tracks"`
}

type chatResponse struct {
	Message            string          `json:"message"`
	PlaylistSuggestion *suggestionView `json:"playlistSuggestion,omitempty"`
}

// handleChat serves both conversational messages and playlist requests.
//
// Generation failures never surface as errors: they degrade to an apologetic
// conversational reply. When a session token is available, suggested tracks
// are reconciled against the real catalog before the response is built.
func (a *API) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	}

	if !req.IsPlaylistRequest {
		message, err := a.generator.Converse(r.Context(), req.Message)
		if err != nil {
			a.logger.Warn("conversation generation failed", "err", err)
			message = apologyMessage
		}
		writeJSON(w, http.StatusOK, chatResponse{Message: message})
		return
	}

	result, err := a.generator.SuggestPlaylist(r.Context(), req.Message)
	if err != nil || result.Suggestion == nil {
		a.logger.Warn("playlist generation failed", "err", err)
		writeJSON(w, http.StatusOK, chatResponse{
			Message: "I encountered an error while creating your playlist. Please try again with a different request.",
		})
		return
	}

	resolved := a.reconciler.Reconcile(r.Context(), result.Suggestion.Tracks, a.searchFunc(r))

	writeJSON(w, http.StatusOK, chatResponse{
		Message: result.Message,
		PlaylistSuggestion: &suggestionView{
			Name:        result.Suggestion.Name,
			Description: result.Suggestion.Description,
			Tracks:      resolved,
		},
	})
}

// searchFunc binds the request's access token into a catalog search closure.
// Without a token it returns nil, which makes the reconciler pass candidates
// through untouched.
func (a *API) searchFunc(r *http.Request) tasks.SearchFunc {
	creds := auth.ReadCredentials(r)
	if !creds.HasAccess() {
		return nil
	}

	return func(ctx context.Context, query string, limit int) ([]services.SpotifyTrack, error) {
		return a.catalog.SearchTracks(ctx, creds.AccessToken, query, limit)
	}
}
