package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifier/pkg/auth"
	"github.com/dmitrymomot/notifier/pkg/jwt"
)

const secret = "test-secret"

func sign(t *testing.T, key string, claims auth.Claims) string {
	t.Helper()
	svc, err := jwt.NewFromString(key)
	require.NoError(t, err)
	token, err := svc.Generate(&claims)
	require.NoError(t, err)
	return token
}

func newGate(t *testing.T, allowed ...string) *auth.Gate {
	t.Helper()
	g, err := auth.NewGate(auth.Config{JWTSecret: secret, AllowedServices: allowed})
	require.NoError(t, err)
	return g
}

func TestNewGate(t *testing.T) {
	t.Parallel()

	_, err := auth.NewGate(auth.Config{})
	assert.ErrorIs(t, err, jwt.ErrMissingSigningKey)
}

func TestGate_Authenticate(t *testing.T) {
	t.Parallel()

	gate := newGate(t, "svc-B", " billing ")

	t.Run("valid token with full claims", func(t *testing.T) {
		t.Parallel()
		token := sign(t, secret, auth.Claims{
			ServiceID:   "billing",
			ServiceName: "Billing Service",
			Permissions: []string{auth.PermissionSend},
			UserID:      "user-1",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})

		id, err := gate.Authenticate("Bearer " + token)
		require.NoError(t, err)
		assert.Equal(t, auth.Identity{
			ID:          "billing",
			Name:        "Billing Service",
			Permissions: []string{auth.PermissionSend},
			UserID:      "user-1",
		}, id)
	})

	t.Run("issuer fallback and defaults", func(t *testing.T) {
		t.Parallel()
		token := sign(t, secret, auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Issuer: "svc-B"}})

		id, err := gate.Authenticate("Bearer " + token)
		require.NoError(t, err)
		assert.Equal(t, "svc-B", id.ID)
		assert.Equal(t, "svc-B", id.Name)
		assert.NotNil(t, id.Permissions)
		assert.Empty(t, id.Permissions)
		assert.Empty(t, id.UserID)
	})

	t.Run("serviceId wins over issuer", func(t *testing.T) {
		t.Parallel()
		token := sign(t, secret, auth.Claims{
			ServiceID:        "billing",
			RegisteredClaims: jwt.RegisteredClaims{Issuer: "svc-X"},
		})
		id, err := gate.Authenticate("Bearer " + token)
		require.NoError(t, err)
		assert.Equal(t, "billing", id.ID)
	})

	t.Run("missing header", func(t *testing.T) {
		t.Parallel()
		_, err := gate.Authenticate("")
		assert.ErrorIs(t, err, auth.ErrMissingCredential)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		t.Parallel()
		_, err := gate.Authenticate("Basic dXNlcjpwYXNz")
		assert.ErrorIs(t, err, auth.ErrMissingCredential)
	})

	t.Run("bad signature", func(t *testing.T) {
		t.Parallel()
		token := sign(t, "another-secret", auth.Claims{ServiceID: "svc-B"})
		_, err := gate.Authenticate("Bearer " + token)
		assert.ErrorIs(t, err, auth.ErrInvalidCredential)
	})

	t.Run("garbage token", func(t *testing.T) {
		t.Parallel()
		_, err := gate.Authenticate("Bearer garbage")
		assert.ErrorIs(t, err, auth.ErrInvalidCredential)
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()
		token := sign(t, secret, auth.Claims{
			ServiceID: "svc-B",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			},
		})
		_, err := gate.Authenticate("Bearer " + token)
		assert.ErrorIs(t, err, auth.ErrExpiredCredential)
		assert.NotErrorIs(t, err, auth.ErrInvalidCredential)
	})

	t.Run("caller not allow-listed", func(t *testing.T) {
		t.Parallel()
		token := sign(t, secret, auth.Claims{ServiceID: "svc-A"})
		_, err := gate.Authenticate("Bearer " + token)
		assert.ErrorIs(t, err, auth.ErrUnauthorizedCaller)
	})

	t.Run("no caller identifier", func(t *testing.T) {
		t.Parallel()
		token := sign(t, secret, auth.Claims{ServiceName: "anonymous"})
		_, err := gate.Authenticate("Bearer " + token)
		assert.ErrorIs(t, err, auth.ErrUnauthorizedCaller)
	})
}

func TestGate_EmptyAllowListRejectsEveryone(t *testing.T) {
	t.Parallel()

	gate := newGate(t)
	token := sign(t, secret, auth.Claims{ServiceID: "svc-B"})
	_, err := gate.Authenticate("Bearer " + token)
	assert.ErrorIs(t, err, auth.ErrUnauthorizedCaller)
}

func TestGate_AuthenticateToken(t *testing.T) {
	t.Parallel()

	gate := newGate(t, "svc-B")

	_, err := gate.AuthenticateToken("")
	assert.ErrorIs(t, err, auth.ErrMissingCredential)

	id, err := gate.AuthenticateToken(sign(t, secret, auth.Claims{ServiceID: "svc-B"}))
	require.NoError(t, err)
	assert.Equal(t, "svc-B", id.ID)
}
