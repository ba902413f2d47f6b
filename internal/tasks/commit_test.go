package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/curator/internal/models"
	"github.com/desertthunder/curator/internal/services"
	"github.com/desertthunder/curator/internal/shared"
	mocks "github.com/desertthunder/curator/internal/testing"
)

func TestCommit(t *testing.T) {
	ctx := context.Background()
	draft := models.PlaylistDraft{
		Name:        "Late Night Drive",
		Description: "Synthwave for empty highways",
		Public:      true,
		TrackURIs:   []string{"spotify:track:aaa", "spotify:track:bbb"},
	}

	t.Run("full commit", func(t *testing.T) {
		var addTracksCalled bool
		catalog := &mocks.MockCatalog{
			MeFunc: func(ctx context.Context, accessToken string) (*services.SpotifyUser, error) {
				return &services.SpotifyUser{ID: "user_1"}, nil
			},
			CreatePlaylistFunc: func(ctx context.Context, accessToken, userID string, d models.PlaylistDraft) (*services.SpotifyPlaylist, error) {
				if userID != "user_1" {
					t.Errorf("userID = %q, want user_1", userID)
				}
				return &services.SpotifyPlaylist{ID: "pl_1", Name: d.Name}, nil
			},
			AddTracksFunc: func(ctx context.Context, accessToken, playlistID string, uris []string) error {
				addTracksCalled = true
				if playlistID != "pl_1" {
					t.Errorf("playlistID = %q, want pl_1", playlistID)
				}
				if len(uris) != 2 {
					t.Errorf("uris = %d, want 2", len(uris))
				}
				return nil
			},
		}

		engine := NewCommitEngine(catalog, nil)
		result, err := engine.Commit(ctx, "token", draft)
		if err != nil {
			t.Fatalf("Commit() error = %v", err)
		}
		if !addTracksCalled {
			t.Error("AddTracks was not called")
		}
		if result.PlaylistID != "pl_1" || result.TracksAdded != 2 {
			t.Errorf("result = %+v", result)
		}
	})

	t.Run("empty name rejected before any catalog call", func(t *testing.T) {
		catalog := &mocks.MockCatalog{
			MeFunc: func(ctx context.Context, accessToken string) (*services.SpotifyUser, error) {
				t.Error("Me should not be called for an invalid draft")
				return nil, nil
			},
		}

		engine := NewCommitEngine(catalog, nil)
		_, err := engine.Commit(ctx, "token", models.PlaylistDraft{})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("error = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("owner lookup failure", func(t *testing.T) {
		catalog := &mocks.MockCatalog{
			MeFunc: func(ctx context.Context, accessToken string) (*services.SpotifyUser, error) {
				return nil, shared.ErrTokenExpired
			},
		}

		engine := NewCommitEngine(catalog, nil)
		result, err := engine.Commit(ctx, "token", draft)
		if result != nil {
			t.Error("no result expected when the shell was never created")
		}
		if !errors.Is(err, shared.ErrTokenExpired) {
			t.Errorf("error = %v, want wrapped ErrTokenExpired", err)
		}
	})

	t.Run("insertion failure reports partial commit with playlist id", func(t *testing.T) {
		catalog := &mocks.MockCatalog{
			CreatePlaylistFunc: func(ctx context.Context, accessToken, userID string, d models.PlaylistDraft) (*services.SpotifyPlaylist, error) {
				return &services.SpotifyPlaylist{ID: "pl_partial", Name: d.Name}, nil
			},
			AddTracksFunc: func(ctx context.Context, accessToken, playlistID string, uris []string) error {
				return shared.ErrServiceUnavailable
			},
		}

		engine := NewCommitEngine(catalog, nil)
		result, err := engine.Commit(ctx, "token", draft)

		var partial *shared.PartialCommitError
		if !errors.As(err, &partial) {
			t.Fatalf("error = %v, want PartialCommitError", err)
		}
		if partial.PlaylistID != "pl_partial" {
			t.Errorf("PlaylistID = %q, want pl_partial", partial.PlaylistID)
		}
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("cause not preserved: %v", err)
		}
		if result == nil || result.PlaylistID != "pl_partial" {
			t.Errorf("result = %+v, want created shell reported", result)
		}
		if result.TracksAdded != 0 {
			t.Errorf("TracksAdded = %d, want 0", result.TracksAdded)
		}
	})

	t.Run("empty draft skips insertion", func(t *testing.T) {
		catalog := &mocks.MockCatalog{
			AddTracksFunc: func(ctx context.Context, accessToken, playlistID string, uris []string) error {
				t.Error("AddTracks should not be called with no URIs")
				return nil
			},
		}

		engine := NewCommitEngine(catalog, nil)
		result, err := engine.Commit(ctx, "token", models.PlaylistDraft{Name: "Empty"})
		if err != nil {
			t.Fatalf("Commit() error = %v", err)
		}
		if result.TracksAdded != 0 {
			t.Errorf("TracksAdded = %d, want 0", result.TracksAdded)
		}
	})
}
