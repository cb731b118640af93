package auth

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrymomot/notifier/pkg/jwt"
)

// Gate verifies caller tokens against the shared secret and the static
// allow-list. It holds no mutable state and is safe for concurrent use.
type Gate struct {
	tokens  *jwt.Service
	allowed []string
}

// NewGate builds a Gate from cfg. Allow-list entries are trimmed and blanks
// dropped; an empty allow-list rejects every caller.
func NewGate(cfg Config) (*Gate, error) {
	tokens, err := jwt.NewFromString(cfg.JWTSecret, jwt.WithLeeway(cfg.ClockSkew))
	if err != nil {
		return nil, fmt.Errorf("auth: %w", err)
	}

	allowed := make([]string, 0, len(cfg.AllowedServices))
	for _, s := range cfg.AllowedServices {
		if s = strings.TrimSpace(s); s != "" {
			allowed = append(allowed, s)
		}
	}

	return &Gate{tokens: tokens, allowed: allowed}, nil
}

// Authenticate checks a raw Authorization header value.
func (g *Gate) Authenticate(header string) (Identity, error) {
	token, err := jwt.FromAuthorizationHeader(header)
	if err != nil {
		return Identity{}, ErrMissingCredential
	}
	return g.AuthenticateToken(token)
}

// AuthenticateToken checks a bare token, as received on the socket handshake.
func (g *Gate) AuthenticateToken(token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrMissingCredential
	}

	var claims Claims
	if err := g.tokens.Parse(token, &claims); err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return Identity{}, errors.Join(ErrExpiredCredential, err)
		}
		return Identity{}, errors.Join(ErrInvalidCredential, err)
	}

	caller := claims.CallerID()
	if caller == "" || !slices.Contains(g.allowed, caller) {
		return Identity{}, fmt.Errorf("%w: %q", ErrUnauthorizedCaller, caller)
	}

	return identityFromClaims(claims), nil
}
