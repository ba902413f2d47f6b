// Package server provides HTTP routing, middleware, and the JSON API surface
// for the curator web service.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first),
// following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with
// method filtering and prefix-scoped middleware groups. Group middleware
// must be registered before the routes it covers.
//
// # Endpoints
//
//	GET  /api/health                      → liveness check
//	GET  /api/auth/login                  → redirect to provider consent screen
//	GET  /api/auth/callback               → code exchange, sets credential cookies
//	GET  /api/auth/check                  → session guard, silent refresh
//	POST /api/auth/logout                 → clears credential cookies
//	POST /api/ai/chat                     → conversation / playlist suggestion
//	POST /api/spotify/playlist/create     → playlist commit (guarded)
//	GET  /api/spotify/playlist/{id}       → playlist detail (guarded)
//	GET  /api/spotify/library             → profile + listening data (guarded)
//
// # Session Guard Middleware
//
// [SessionMiddleware] guards every route under /api/spotify/. Requests
// without a refresh credential are rejected with 401. When only the access
// credential is missing, the session is refreshed silently and the new
// access cookie rides along on the response. Handlers read the usable token
// from the request context via [TokenFromContext]; they never touch cookies
// themselves.
//
// Two tabs can race the same refresh token here. If the provider rotates
// the token on first use, the losing request gets its cookies cleared and
// re-authenticates; the guard makes no attempt at single-flight refresh.
package server
