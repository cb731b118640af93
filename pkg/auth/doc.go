// Package auth is the service-to-service trust boundary.
//
// Calling services present an HS256 bearer token signed with the shared
// secret. Gate verifies it, resolves the caller identifier (serviceId claim or
// iss), checks it against the static allow-list and returns an Identity:
//
//	gate, err := auth.NewGate(cfg)
//	id, err := gate.Authenticate(r.Header.Get("Authorization"))
//	if err := auth.RequirePermissions(id, auth.PermissionSend); err != nil {
//	    // 403
//	}
//
// Failures map onto ErrMissingCredential, ErrInvalidCredential,
// ErrExpiredCredential (401) and ErrUnauthorizedCaller,
// ErrInsufficientPermissions (403). Middleware and RequireMiddleware wire the
// same checks into an HTTP router.
package auth
