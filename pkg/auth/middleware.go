package auth

import (
	"net/http"
)

// ErrorResponder writes an authentication failure to the client.
type ErrorResponder func(w http.ResponseWriter, r *http.Request, err error)

// Middleware authenticates every request through g and stores the Identity in
// the request context. Failures are handed to respond and stop the chain.
func Middleware(g *Gate, respond ErrorResponder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := g.Authenticate(r.Header.Get("Authorization"))
			if err != nil {
				respond(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireMiddleware enforces RequirePermissions on the identity placed in the
// context by Middleware. A request without identity fails with
// ErrNotAuthenticated.
func RequireMiddleware(respond ErrorResponder, required ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := FromContext(r.Context())
			if !ok {
				respond(w, r, ErrNotAuthenticated)
				return
			}
			if err := RequirePermissions(id, required...); err != nil {
				respond(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
