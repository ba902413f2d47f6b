// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"

	"github.com/desertthunder/curator/internal/models"
	"github.com/desertthunder/curator/internal/services"
)

// MockCatalog is a configurable test double for [services.Catalog].
// Unset function fields return zero values.
type MockCatalog struct {
	MeFunc             func(ctx context.Context, accessToken string) (*services.SpotifyUser, error)
	SearchTracksFunc   func(ctx context.Context, accessToken, query string, limit int) ([]services.SpotifyTrack, error)
	CreatePlaylistFunc func(ctx context.Context, accessToken, userID string, draft models.PlaylistDraft) (*services.SpotifyPlaylist, error)
	AddTracksFunc      func(ctx context.Context, accessToken, playlistID string, uris []string) error
	PlaylistFunc       func(ctx context.Context, accessToken, playlistID string) (*services.SpotifyPlaylist, error)
	UserPlaylistsFunc  func(ctx context.Context, accessToken string, limit, offset int) (*services.SpotifyPaginatedPlaylists, error)
	SavedTracksFunc    func(ctx context.Context, accessToken string, limit, offset int) (*services.SpotifyPaginatedTracks, error)
	RecentlyPlayedFunc func(ctx context.Context, accessToken string, limit int) ([]services.SpotifyPlayHistory, error)
}

func (m *MockCatalog) Me(ctx context.Context, accessToken string) (*services.SpotifyUser, error) {
	if m.MeFunc != nil {
		return m.MeFunc(ctx, accessToken)
	}
	return &services.SpotifyUser{ID: "mock_user"}, nil
}

func (m *MockCatalog) SearchTracks(ctx context.Context, accessToken, query string, limit int) ([]services.SpotifyTrack, error) {
	if m.SearchTracksFunc != nil {
		return m.SearchTracksFunc(ctx, accessToken, query, limit)
	}
	return nil, nil
}

func (m *MockCatalog) CreatePlaylist(ctx context.Context, accessToken, userID string, draft models.PlaylistDraft) (*services.SpotifyPlaylist, error) {
	if m.CreatePlaylistFunc != nil {
		return m.CreatePlaylistFunc(ctx, accessToken, userID, draft)
	}
	return &services.SpotifyPlaylist{ID: "mock_playlist", Name: draft.Name}, nil
}

func (m *MockCatalog) AddTracks(ctx context.Context, accessToken, playlistID string, uris []string) error {
	if m.AddTracksFunc != nil {
		return m.AddTracksFunc(ctx, accessToken, playlistID, uris)
	}
	return nil
}

func (m *MockCatalog) Playlist(ctx context.Context, accessToken, playlistID string) (*services.SpotifyPlaylist, error) {
	if m.PlaylistFunc != nil {
		return m.PlaylistFunc(ctx, accessToken, playlistID)
	}
	return &services.SpotifyPlaylist{ID: playlistID}, nil
}

func (m *MockCatalog) UserPlaylists(ctx context.Context, accessToken string, limit, offset int) (*services.SpotifyPaginatedPlaylists, error) {
	if m.UserPlaylistsFunc != nil {
		return m.UserPlaylistsFunc(ctx, accessToken, limit, offset)
	}
	return &services.SpotifyPaginatedPlaylists{}, nil
}

func (m *MockCatalog) SavedTracks(ctx context.Context, accessToken string, limit, offset int) (*services.SpotifyPaginatedTracks, error) {
	if m.SavedTracksFunc != nil {
		return m.SavedTracksFunc(ctx, accessToken, limit, offset)
	}
	return &services.SpotifyPaginatedTracks{}, nil
}

func (m *MockCatalog) RecentlyPlayed(ctx context.Context, accessToken string, limit int) ([]services.SpotifyPlayHistory, error) {
	if m.RecentlyPlayedFunc != nil {
		return m.RecentlyPlayedFunc(ctx, accessToken, limit)
	}
	return nil, nil
}

func (m *MockCatalog) Name() string { return "mock" }

// MockGenerator is a configurable test double for [services.Generator].
type MockGenerator struct {
	SuggestFunc  func(ctx context.Context, intent string) (*services.GenerationResult, error)
	ConverseFunc func(ctx context.Context, message string) (string, error)
}

func (m *MockGenerator) SuggestPlaylist(ctx context.Context, intent string) (*services.GenerationResult, error) {
	if m.SuggestFunc != nil {
		return m.SuggestFunc(ctx, intent)
	}
	return nil, errors.New("no suggestion configured")
}

func (m *MockGenerator) Converse(ctx context.Context, message string) (string, error) {
	if m.ConverseFunc != nil {
		return m.ConverseFunc(ctx, message)
	}
	return "mock reply", nil
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}
