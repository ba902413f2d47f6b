package server

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/curator/internal/auth"
	"github.com/desertthunder/curator/internal/services"
	"github.com/desertthunder/curator/internal/shared"
	"github.com/desertthunder/curator/internal/tasks"
)

// API holds the dependencies for all HTTP handlers.
type API struct {
	exchanger  *auth.Exchanger
	guard      *auth.Guard
	catalog    services.Catalog
	generator  services.Generator
	reconciler *tasks.Reconciler
	committer  *tasks.CommitEngine
	cookies    auth.CookieWriter
	appURL     string
	logger     *log.Logger
}

// APIOpts contains configuration options for creating an API.
type APIOpts struct {
	Exchanger  *auth.Exchanger
	Guard      *auth.Guard
	Catalog    services.Catalog
	Generator  services.Generator
	Reconciler *tasks.Reconciler
	Committer  *tasks.CommitEngine
	Cookies    auth.CookieWriter
	AppURL     string
	Logger     *log.Logger
}

// NewAPI creates the handler set with the provided dependencies.
func NewAPI(opts APIOpts) *API {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.AppURL == "" {
		opts.AppURL = "http://localhost:3000"
	}
	if opts.Reconciler == nil {
		opts.Reconciler = tasks.NewReconciler(tasks.ReconcilerOpts{Logger: opts.Logger})
	}
	if opts.Committer == nil && opts.Catalog != nil {
		opts.Committer = tasks.NewCommitEngine(opts.Catalog, opts.Logger)
	}

	return &API{
		exchanger:  opts.Exchanger,
		guard:      opts.Guard,
		catalog:    opts.Catalog,
		generator:  opts.Generator,
		reconciler: opts.Reconciler,
		committer:  opts.Committer,
		cookies:    opts.Cookies,
		appURL:     opts.AppURL,
		logger:     opts.Logger,
	}
}

// Register wires all endpoints into the router. The session guard applies to
// every catalog-facing route under /api/spotify/.
func (a *API) Register(router Router) {
	router.Group("/api/spotify/", SessionMiddleware(a.exchanger, a.cookies))

	router.Handle(http.MethodGet, "/api/health", http.HandlerFunc(a.handleHealth))

	router.Handle(http.MethodGet, "/api/auth/login", http.HandlerFunc(a.handleLogin))
	router.Handle(http.MethodGet, "/api/auth/callback", http.HandlerFunc(a.handleCallback))
	router.Handle(http.MethodGet, "/api/auth/check", http.HandlerFunc(a.handleCheck))
	router.Handle(http.MethodPost, "/api/auth/logout", http.HandlerFunc(a.handleLogout))

	router.Handle(http.MethodPost, "/api/ai/chat", http.HandlerFunc(a.handleChat))

	router.Handle(http.MethodPost, "/api/spotify/playlist/create", http.HandlerFunc(a.handlePlaylistCreate))
	router.Handle(http.MethodGet, "/api/spotify/playlist/{id}", http.HandlerFunc(a.handlePlaylistDetail))
	router.Handle(http.MethodGet, "/api/spotify/library", http.HandlerFunc(a.handleLibrary))
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "curator",
	})
}
