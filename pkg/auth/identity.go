package auth

import (
	"context"

	"github.com/dmitrymomot/notifier/pkg/jwt"
)

// Claims is the payload calling services put into their tokens.
// The caller identifier comes from serviceId, falling back to iss.
type Claims struct {
	ServiceID   string   `json:"serviceId,omitempty"`
	ServiceName string   `json:"serviceName,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
	UserID      string   `json:"userId,omitempty"`
	jwt.RegisteredClaims
}

// CallerID returns serviceId or, when absent, the issuer.
func (c Claims) CallerID() string {
	if c.ServiceID != "" {
		return c.ServiceID
	}
	return c.Issuer
}

// Identity describes an authenticated calling service for the duration of
// one request.
type Identity struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
	UserID      string   `json:"userId,omitempty"`
}

func identityFromClaims(c Claims) Identity {
	id := Identity{
		ID:          c.CallerID(),
		Name:        c.ServiceName,
		Permissions: c.Permissions,
		UserID:      c.UserID,
	}
	if id.Name == "" {
		id.Name = id.ID
	}
	if id.Permissions == nil {
		id.Permissions = []string{}
	}
	return id
}

type contextKey struct{}

// WithIdentity stores the identity in ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity stored by the middleware.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}
