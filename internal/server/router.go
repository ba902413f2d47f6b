package server

import (
	"net/http"
	"strings"
)

// BasicRouter is a simple HTTP router implementing the [Router] interface.
//
// Uses [http.ServeMux] internally for routing, including Go 1.22 wildcard
// patterns ({id} segments resolved via [http.Request.PathValue]).
type BasicRouter struct {
	mux         *http.ServeMux
	middlewares []Middleware
	groups      map[string][]Middleware
}

// NewBasicRouter creates a new [BasicRouter] instance.
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{
		mux:         http.NewServeMux(),
		middlewares: []Middleware{},
		groups:      map[string][]Middleware{},
	}
}

// Use adds [Middleware] to the [Router] instance's middleware stack, applied in the order it's added.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Group registers middleware applied only to routes whose path starts with prefix.
func (r *BasicRouter) Group(prefix string, middleware ...Middleware) {
	r.groups[prefix] = append(r.groups[prefix], middleware...)
}

// Handle registers a [http.Handler] for the specified HTTP method and path.
//
// The handler is wrapped with the global middleware stack plus any group
// middleware whose prefix matches the path.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	wrapped := r.Apply(path, handler)

	methodHandler := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if !strings.EqualFold(req.Method, method) {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		wrapped.ServeHTTP(w, req)
	})

	r.mux.Handle(path, methodHandler)
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Apply wraps a handler with the global middleware stack and matching group middleware.
//
// Middleware is applied in reverse order (last added wraps first), so the
// first registered middleware sees the request first.
func (r *BasicRouter) Apply(path string, handler http.Handler) http.Handler {
	wrapped := handler

	for prefix, group := range r.groups {
		if strings.HasPrefix(path, prefix) {
			for i := len(group) - 1; i >= 0; i-- {
				wrapped = group[i](wrapped)
			}
		}
	}

	for i := len(r.middlewares) - 1; i >= 0; i-- {
		wrapped = r.middlewares[i](wrapped)
	}

	return wrapped
}
