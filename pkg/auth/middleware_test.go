package auth_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifier/pkg/auth"
)

func recordingResponder(got *error) auth.ErrorResponder {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		*got = err
		w.WriteHeader(http.StatusUnauthorized)
	}
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	gate := newGate(t, "svc-B")

	t.Run("stores identity", func(t *testing.T) {
		t.Parallel()
		var failure error
		var seen auth.Identity
		h := auth.Middleware(gate, recordingResponder(&failure))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var ok bool
			seen, ok = auth.FromContext(r.Context())
			require.True(t, ok)
		}))

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer "+sign(t, secret, auth.Claims{ServiceID: "svc-B"}))
		h.ServeHTTP(httptest.NewRecorder(), req)

		assert.NoError(t, failure)
		assert.Equal(t, "svc-B", seen.ID)
	})

	t.Run("rejects missing credential", func(t *testing.T) {
		t.Parallel()
		var failure error
		called := false
		h := auth.Middleware(gate, recordingResponder(&failure))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.ErrorIs(t, failure, auth.ErrMissingCredential)
	})
}

func TestRequireMiddleware(t *testing.T) {
	t.Parallel()

	run := func(t *testing.T, id *auth.Identity) (bool, error) {
		t.Helper()
		var failure error
		called := false
		h := auth.RequireMiddleware(recordingResponder(&failure), auth.PermissionAdmin)(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }),
		)
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		if id != nil {
			req = req.WithContext(auth.WithIdentity(req.Context(), *id))
		}
		h.ServeHTTP(httptest.NewRecorder(), req)
		return called, failure
	}

	called, err := run(t, &auth.Identity{Permissions: []string{"*"}})
	assert.True(t, called)
	assert.NoError(t, err)

	called, err = run(t, &auth.Identity{Permissions: []string{auth.PermissionSend}})
	assert.False(t, called)
	assert.True(t, errors.Is(err, auth.ErrInsufficientPermissions))

	called, err = run(t, nil)
	assert.False(t, called)
	assert.ErrorIs(t, err, auth.ErrNotAuthenticated)
}
