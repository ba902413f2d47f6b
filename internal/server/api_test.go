package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/curator/internal/auth"
	"github.com/desertthunder/curator/internal/models"
	"github.com/desertthunder/curator/internal/services"
	"github.com/desertthunder/curator/internal/shared"
	"github.com/desertthunder/curator/internal/tasks"
	mocks "github.com/desertthunder/curator/internal/testing"
)

// testDeps bundles the mocks wired into a test router.
type testDeps struct {
	catalog   *mocks.MockCatalog
	generator *mocks.MockGenerator
	probe     auth.ProbeFunc
	refresher *stubRefresher
}

func newTestRouter(t *testing.T, deps testDeps) *BasicRouter {
	t.Helper()

	if deps.catalog == nil {
		deps.catalog = &mocks.MockCatalog{}
	}
	if deps.generator == nil {
		deps.generator = &mocks.MockGenerator{}
	}
	if deps.probe == nil {
		deps.probe = func(ctx context.Context, accessToken string) error { return nil }
	}
	if deps.refresher == nil {
		deps.refresher = &stubRefresher{}
	}

	exchanger, err := auth.NewExchanger(shared.SpotifyConfig{ClientID: "id", ClientSecret: "secret"})
	if err != nil {
		t.Fatalf("NewExchanger() error = %v", err)
	}

	api := NewAPI(APIOpts{
		Exchanger:  exchanger,
		Guard:      auth.NewGuard(deps.probe, deps.refresher, nil),
		Catalog:    deps.catalog,
		Generator:  deps.generator,
		Reconciler: tasks.NewReconciler(tasks.ReconcilerOpts{RateLimit: 10000}),
	})

	router := NewBasicRouter()
	api.Register(router)
	return router
}

func withSession(r *http.Request) *http.Request {
	r.AddCookie(&http.Cookie{Name: auth.AccessCookie, Value: "session_token"})
	r.AddCookie(&http.Cookie{Name: auth.RefreshCookie, Value: "refresh_token"})
	return r
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(target); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, testDeps{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]string
	decodeBody(t, rec, &body)
	if body["status"] != "ok" || body["service"] != "curator" {
		t.Errorf("body = %v", body)
	}
}

func TestLogin(t *testing.T) {
	router := newTestRouter(t, testDeps{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/login", nil))

	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307", rec.Code)
	}

	location := rec.Header().Get("Location")
	if !strings.HasPrefix(location, "https://accounts.spotify.com/authorize") {
		t.Errorf("Location = %q", location)
	}

	var state string
	for _, c := range rec.Result().Cookies() {
		if c.Name == "oauth_state" {
			state = c.Value
		}
	}
	if state == "" {
		t.Fatal("state cookie not set")
	}
	if !strings.Contains(location, "state="+state) {
		t.Error("redirect state does not match the state cookie")
	}
}

func TestCallback(t *testing.T) {
	router := newTestRouter(t, testDeps{})

	redirectError := func(t *testing.T, target string, cookies ...*http.Cookie) string {
		t.Helper()
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, target, nil)
		for _, c := range cookies {
			r.AddCookie(c)
		}
		router.ServeHTTP(rec, r)

		if rec.Code != http.StatusTemporaryRedirect {
			t.Fatalf("status = %d, want 307", rec.Code)
		}
		return rec.Header().Get("Location")
	}

	t.Run("provider error", func(t *testing.T) {
		location := redirectError(t, "/api/auth/callback?error=access_denied")
		if !strings.Contains(location, "error=access_denied") {
			t.Errorf("Location = %q", location)
		}
	})

	t.Run("missing code", func(t *testing.T) {
		location := redirectError(t, "/api/auth/callback")
		if !strings.Contains(location, "error=missing_code") {
			t.Errorf("Location = %q", location)
		}
	})

	t.Run("state mismatch", func(t *testing.T) {
		location := redirectError(t, "/api/auth/callback?code=abc&state=evil",
			&http.Cookie{Name: "oauth_state", Value: "expected"})
		if !strings.Contains(location, "error=state_mismatch") {
			t.Errorf("Location = %q", location)
		}
	})

	t.Run("missing state cookie", func(t *testing.T) {
		location := redirectError(t, "/api/auth/callback?code=abc&state=whatever")
		if !strings.Contains(location, "error=state_mismatch") {
			t.Errorf("Location = %q", location)
		}
	})
}

func TestCheck(t *testing.T) {
	type checkBody struct {
		IsAuthenticated bool   `json:"isAuthenticated"`
		AccessToken     string `json:"accessToken"`
	}

	t.Run("no credentials", func(t *testing.T) {
		router := newTestRouter(t, testDeps{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/check", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var body checkBody
		decodeBody(t, rec, &body)
		if body.IsAuthenticated {
			t.Error("expected unauthenticated")
		}
	})

	t.Run("valid access token", func(t *testing.T) {
		router := newTestRouter(t, testDeps{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodGet, "/api/auth/check", nil)))

		var body checkBody
		decodeBody(t, rec, &body)
		if !body.IsAuthenticated || body.AccessToken != "session_token" {
			t.Errorf("body = %+v", body)
		}
	})

	t.Run("silent refresh persists new credentials", func(t *testing.T) {
		refresher := &stubRefresher{pair: &auth.TokenPair{
			AccessToken:  "minted",
			RefreshToken: "rotated",
			Expiry:       time.Now().Add(time.Hour),
		}}
		router := newTestRouter(t, testDeps{
			probe: func(ctx context.Context, accessToken string) error {
				return shared.ErrTokenExpired
			},
			refresher: refresher,
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodGet, "/api/auth/check", nil)))

		var body checkBody
		decodeBody(t, rec, &body)
		if !body.IsAuthenticated || body.AccessToken != "minted" {
			t.Errorf("body = %+v", body)
		}

		var gotAccess, gotRefresh bool
		for _, c := range rec.Result().Cookies() {
			switch {
			case c.Name == auth.AccessCookie && c.Value == "minted":
				gotAccess = true
			case c.Name == auth.RefreshCookie && c.Value == "rotated":
				gotRefresh = true
			}
		}
		if !gotAccess || !gotRefresh {
			t.Error("replacement credentials not persisted as cookies")
		}
	})

	t.Run("expired session clears cookies", func(t *testing.T) {
		router := newTestRouter(t, testDeps{
			probe: func(ctx context.Context, accessToken string) error {
				return shared.ErrTokenExpired
			},
			refresher: &stubRefresher{err: shared.ErrRefreshFailed},
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodGet, "/api/auth/check", nil)))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var body checkBody
		decodeBody(t, rec, &body)
		if body.IsAuthenticated {
			t.Error("expected unauthenticated after failed refresh")
		}

		cleared := 0
		for _, c := range rec.Result().Cookies() {
			if c.MaxAge == -1 {
				cleared++
			}
		}
		if cleared != 2 {
			t.Errorf("cleared %d cookies, want 2", cleared)
		}
	})

	t.Run("transient provider failure is 503", func(t *testing.T) {
		router := newTestRouter(t, testDeps{
			probe: func(ctx context.Context, accessToken string) error {
				return shared.ErrServiceUnavailable
			},
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodGet, "/api/auth/check", nil)))

		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", rec.Code)
		}

		for _, c := range rec.Result().Cookies() {
			if c.MaxAge == -1 {
				t.Error("transient failures must not clear credentials")
			}
		}
	})
}

func TestLogout(t *testing.T) {
	router := newTestRouter(t, testDeps{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	cleared := 0
	for _, c := range rec.Result().Cookies() {
		if c.Value == "" && c.MaxAge == -1 {
			cleared++
		}
	}
	if cleared != 2 {
		t.Errorf("cleared %d cookies, want both credentials expired", cleared)
	}
}

func TestChat(t *testing.T) {
	type chatBody struct {
		Message            string `json:"message"`
		PlaylistSuggestion *struct {
			Name   string                 `json:"name"`
			Tracks []models.ResolvedTrack `json:"tracks"`
		} `json:"playlistSuggestion"`
	}

	post := func(t *testing.T, router *BasicRouter, payload string, session bool) (*httptest.ResponseRecorder, chatBody) {
		t.Helper()
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/ai/chat", strings.NewReader(payload))
		if session {
			withSession(r)
		}
		router.ServeHTTP(rec, r)

		var body chatBody
		if rec.Code == http.StatusOK {
			decodeBody(t, rec, &body)
		}
		return rec, body
	}

	t.Run("invalid body", func(t *testing.T) {
		router := newTestRouter(t, testDeps{})
		rec, _ := post(t, router, "{not json", false)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("empty message", func(t *testing.T) {
		router := newTestRouter(t, testDeps{})
		rec, _ := post(t, router, `{"message": ""}`, false)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("conversation", func(t *testing.T) {
		router := newTestRouter(t, testDeps{
			generator: &mocks.MockGenerator{
				ConverseFunc: func(ctx context.Context, message string) (string, error) {
					return "Try some ambient techno.", nil
				},
			},
		})

		rec, body := post(t, router, `{"message": "what should I listen to?"}`, false)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if body.Message != "Try some ambient techno." || body.PlaylistSuggestion != nil {
			t.Errorf("body = %+v", body)
		}
	})

	t.Run("conversation failure degrades to apology", func(t *testing.T) {
		router := newTestRouter(t, testDeps{
			generator: &mocks.MockGenerator{
				ConverseFunc: func(ctx context.Context, message string) (string, error) {
					return "", shared.ErrGenerationFailed
				},
			},
		})

		rec, body := post(t, router, `{"message": "hello"}`, false)
		if rec.Code != http.StatusOK {
			t.Fatalf("generation failures must not produce error statuses, got %d", rec.Code)
		}
		if body.Message == "" {
			t.Error("expected an apologetic reply")
		}
	})

	suggestion := &services.GenerationResult{
		Message: "Here is your playlist.",
		Suggestion: &models.PlaylistSuggestion{
			Name: "Test Mix",
			Tracks: []models.Track{
				{Name: "Song A", Artists: []models.Artist{{Name: "Artist A"}}, URI: "spotify:track:invented"},
			},
		},
	}

	t.Run("playlist request without session passes tracks through", func(t *testing.T) {
		router := newTestRouter(t, testDeps{
			generator: &mocks.MockGenerator{
				SuggestFunc: func(ctx context.Context, intent string) (*services.GenerationResult, error) {
					return suggestion, nil
				},
			},
			catalog: &mocks.MockCatalog{
				SearchTracksFunc: func(ctx context.Context, accessToken, query string, limit int) ([]services.SpotifyTrack, error) {
					t.Error("catalog search requires a session token")
					return nil, nil
				},
			},
		})

		rec, body := post(t, router, `{"message": "make me a mix", "isPlaylistRequest": true}`, false)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if body.PlaylistSuggestion == nil || body.PlaylistSuggestion.Name != "Test Mix" {
			t.Fatalf("suggestion = %+v", body.PlaylistSuggestion)
		}

		track := body.PlaylistSuggestion.Tracks[0]
		if track.Verified || track.URI != "spotify:track:invented" {
			t.Errorf("track = %+v, want unverified passthrough", track)
		}
	})

	t.Run("playlist request with session reconciles tracks", func(t *testing.T) {
		router := newTestRouter(t, testDeps{
			generator: &mocks.MockGenerator{
				SuggestFunc: func(ctx context.Context, intent string) (*services.GenerationResult, error) {
					return suggestion, nil
				},
			},
			catalog: &mocks.MockCatalog{
				SearchTracksFunc: func(ctx context.Context, accessToken, query string, limit int) ([]services.SpotifyTrack, error) {
					if accessToken != "session_token" {
						t.Errorf("accessToken = %q", accessToken)
					}
					return []services.SpotifyTrack{{
						Name:    "Song A",
						Artists: []services.SpotifyArtist{{Name: "Artist A"}},
						URI:     "spotify:track:real",
					}}, nil
				},
			},
		})

		rec, body := post(t, router, `{"message": "make me a mix", "isPlaylistRequest": true}`, true)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		track := body.PlaylistSuggestion.Tracks[0]
		if !track.Verified || track.URI != "spotify:track:real" {
			t.Errorf("track = %+v, want verified catalog resolution", track)
		}
	})

	t.Run("suggestion failure degrades to apology", func(t *testing.T) {
		router := newTestRouter(t, testDeps{
			generator: &mocks.MockGenerator{
				SuggestFunc: func(ctx context.Context, intent string) (*services.GenerationResult, error) {
					return nil, shared.ErrGenerationFailed
				},
			},
		})

		rec, body := post(t, router, `{"message": "make me a mix", "isPlaylistRequest": true}`, false)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if body.PlaylistSuggestion != nil {
			t.Error("no suggestion expected on failure")
		}
		if body.Message == "" {
			t.Error("expected an apologetic reply")
		}
	})
}

func TestPlaylistCreate(t *testing.T) {
	post := func(t *testing.T, router *BasicRouter, payload string, session bool) *httptest.ResponseRecorder {
		t.Helper()
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/spotify/playlist/create", strings.NewReader(payload))
		if session {
			withSession(r)
		}
		router.ServeHTTP(rec, r)
		return rec
	}

	valid := `{"name": "Mix", "description": "d", "tracks": ["spotify:track:a"]}`

	t.Run("requires session", func(t *testing.T) {
		router := newTestRouter(t, testDeps{})
		if rec := post(t, router, valid, false); rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		router := newTestRouter(t, testDeps{
			catalog: &mocks.MockCatalog{
				AddTracksFunc: func(ctx context.Context, accessToken, playlistID string, uris []string) error {
					if accessToken != "session_token" {
						t.Errorf("accessToken = %q", accessToken)
					}
					return nil
				},
			},
		})

		rec := post(t, router, valid, true)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}

		var body struct {
			Success bool `json:"success"`
		}
		decodeBody(t, rec, &body)
		if !body.Success {
			t.Error("expected success response")
		}
	})

	t.Run("empty name", func(t *testing.T) {
		router := newTestRouter(t, testDeps{})
		if rec := post(t, router, `{"name": ""}`, true); rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("partial failure reports playlist id", func(t *testing.T) {
		router := newTestRouter(t, testDeps{
			catalog: &mocks.MockCatalog{
				CreatePlaylistFunc: func(ctx context.Context, accessToken, userID string, draft models.PlaylistDraft) (*services.SpotifyPlaylist, error) {
					return &services.SpotifyPlaylist{ID: "pl_created"}, nil
				},
				AddTracksFunc: func(ctx context.Context, accessToken, playlistID string, uris []string) error {
					return shared.ErrServiceUnavailable
				},
			},
		})

		rec := post(t, router, valid, true)
		if rec.Code != http.StatusBadGateway {
			t.Fatalf("status = %d, want 502", rec.Code)
		}

		var body struct {
			Error      string `json:"error"`
			PlaylistID string `json:"playlistId"`
		}
		decodeBody(t, rec, &body)
		if body.PlaylistID != "pl_created" {
			t.Errorf("playlistId = %q, want the created shell id", body.PlaylistID)
		}
	})

	t.Run("expired token is 401", func(t *testing.T) {
		router := newTestRouter(t, testDeps{
			catalog: &mocks.MockCatalog{
				MeFunc: func(ctx context.Context, accessToken string) (*services.SpotifyUser, error) {
					return nil, shared.ErrTokenExpired
				},
			},
		})

		if rec := post(t, router, valid, true); rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}

func TestPlaylistDetail(t *testing.T) {
	t.Run("fetches by path id", func(t *testing.T) {
		router := newTestRouter(t, testDeps{
			catalog: &mocks.MockCatalog{
				PlaylistFunc: func(ctx context.Context, accessToken, playlistID string) (*services.SpotifyPlaylist, error) {
					if playlistID != "pl_42" {
						t.Errorf("playlistID = %q, want pl_42", playlistID)
					}
					return &services.SpotifyPlaylist{ID: playlistID, Name: "Found"}, nil
				},
			},
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodGet, "/api/spotify/playlist/pl_42", nil)))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var playlist services.SpotifyPlaylist
		decodeBody(t, rec, &playlist)
		if playlist.Name != "Found" {
			t.Errorf("playlist = %+v", playlist)
		}
	})

	t.Run("auth rejection is 401", func(t *testing.T) {
		router := newTestRouter(t, testDeps{
			catalog: &mocks.MockCatalog{
				PlaylistFunc: func(ctx context.Context, accessToken, playlistID string) (*services.SpotifyPlaylist, error) {
					return nil, shared.ErrTokenExpired
				},
			},
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodGet, "/api/spotify/playlist/pl_42", nil)))

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}

func TestLibrary(t *testing.T) {
	router := newTestRouter(t, testDeps{
		catalog: &mocks.MockCatalog{
			MeFunc: func(ctx context.Context, accessToken string) (*services.SpotifyUser, error) {
				return &services.SpotifyUser{ID: "user_1", DisplayName: "Listener"}, nil
			},
			UserPlaylistsFunc: func(ctx context.Context, accessToken string, limit, offset int) (*services.SpotifyPaginatedPlaylists, error) {
				return &services.SpotifyPaginatedPlaylists{
					Items: []services.SpotifySimplePlaylist{{ID: "pl_1"}},
				}, nil
			},
			SavedTracksFunc: func(ctx context.Context, accessToken string, limit, offset int) (*services.SpotifyPaginatedTracks, error) {
				return &services.SpotifyPaginatedTracks{
					Items: []services.SpotifySavedTrack{{Track: services.SpotifyTrack{ID: "t_1"}}},
				}, nil
			},
			RecentlyPlayedFunc: func(ctx context.Context, accessToken string, limit int) ([]services.SpotifyPlayHistory, error) {
				return []services.SpotifyPlayHistory{{Track: services.SpotifyTrack{ID: "t_2"}}}, nil
			},
		},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodGet, "/api/spotify/library", nil)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		User           *services.SpotifyUser            `json:"user"`
		Playlists      []services.SpotifySimplePlaylist `json:"playlists"`
		LikedSongs     []services.SpotifyTrack          `json:"likedSongs"`
		RecentlyPlayed []services.SpotifyPlayHistory    `json:"recentlyPlayed"`
	}
	decodeBody(t, rec, &body)

	if body.User == nil || body.User.ID != "user_1" {
		t.Errorf("user = %+v", body.User)
	}
	if len(body.Playlists) != 1 || len(body.LikedSongs) != 1 || len(body.RecentlyPlayed) != 1 {
		t.Errorf("body = %+v", body)
	}
}
