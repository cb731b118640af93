package jwt_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifier/pkg/jwt"
)

type testClaims struct {
	Name  string   `json:"name,omitempty"`
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

func newService(t *testing.T) *jwt.Service {
	t.Helper()
	svc, err := jwt.NewFromString("secret")
	require.NoError(t, err)
	return svc
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := jwt.New(nil)
	assert.ErrorIs(t, err, jwt.ErrMissingSigningKey)

	_, err = jwt.NewFromString("")
	assert.ErrorIs(t, err, jwt.ErrMissingSigningKey)

	svc, err := jwt.New([]byte("k"), jwt.WithLeeway(time.Second))
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestGenerateAndParse(t *testing.T) {
	t.Parallel()

	svc := newService(t)

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		token, err := svc.Generate(&testClaims{
			Name:  "billing",
			Roles: []string{"a", "b"},
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "billing",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
		require.NoError(t, err)
		assert.Len(t, strings.Split(token, "."), 3)

		var got testClaims
		require.NoError(t, svc.Parse(token, &got))
		assert.Equal(t, "billing", got.Name)
		assert.Equal(t, []string{"a", "b"}, got.Roles)
		assert.Equal(t, "billing", got.Issuer)
	})

	t.Run("without expiry", func(t *testing.T) {
		t.Parallel()
		token, err := svc.Generate(&testClaims{Name: "x"})
		require.NoError(t, err)
		var got testClaims
		assert.NoError(t, svc.Parse(token, &got))
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()
		token, err := svc.Generate(&testClaims{RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		}})
		require.NoError(t, err)
		var got testClaims
		err = svc.Parse(token, &got)
		assert.ErrorIs(t, err, jwt.ErrExpiredToken)
		assert.NotErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("not yet valid", func(t *testing.T) {
		t.Parallel()
		token, err := svc.Generate(&testClaims{RegisteredClaims: jwt.RegisteredClaims{
			NotBefore: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}})
		require.NoError(t, err)
		var got testClaims
		assert.ErrorIs(t, svc.Parse(token, &got), jwt.ErrInvalidToken)
	})

	t.Run("wrong key", func(t *testing.T) {
		t.Parallel()
		other, err := jwt.NewFromString("other")
		require.NoError(t, err)
		token, err := other.Generate(&testClaims{Name: "x"})
		require.NoError(t, err)
		var got testClaims
		assert.ErrorIs(t, svc.Parse(token, &got), jwt.ErrInvalidToken)
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()
		var got testClaims
		assert.ErrorIs(t, svc.Parse("not.a.jwt", &got), jwt.ErrInvalidToken)
		assert.ErrorIs(t, svc.Parse("", &got), jwt.ErrMissingToken)
	})

	t.Run("rejects other algorithms", func(t *testing.T) {
		t.Parallel()
		token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS512, &testClaims{Name: "x"}).
			SignedString([]byte("secret"))
		require.NoError(t, err)
		var got testClaims
		assert.ErrorIs(t, svc.Parse(token, &got), jwt.ErrInvalidToken)
	})

	t.Run("rejects none algorithm", func(t *testing.T) {
		t.Parallel()
		token, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, &testClaims{Name: "x"}).
			SignedString(gojwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		var got testClaims
		assert.ErrorIs(t, svc.Parse(token, &got), jwt.ErrInvalidToken)
	})
}

func TestFromAuthorizationHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header string
		token  string
		err    error
	}{
		{"Bearer abc", "abc", nil},
		{"bearer abc", "abc", nil},
		{"  Bearer   abc  ", "abc", nil},
		{"", "", jwt.ErrMissingToken},
		{"Bearer", "", jwt.ErrMissingToken},
		{"Bearer ", "", jwt.ErrMissingToken},
		{"Basic abc", "", jwt.ErrMissingToken},
		{"abc", "", jwt.ErrMissingToken},
	}

	for _, tt := range tests {
		token, err := jwt.FromAuthorizationHeader(tt.header)
		if tt.err != nil {
			assert.ErrorIs(t, err, tt.err, tt.header)
			continue
		}
		require.NoError(t, err, tt.header)
		assert.Equal(t, tt.token, token)
	}
}

func TestExtractors(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/ws?token=q", nil)
	token, err := jwt.QueryTokenExtractor("token")(r)
	require.NoError(t, err)
	assert.Equal(t, "q", token)

	_, err = jwt.BearerTokenExtractor(r)
	assert.ErrorIs(t, err, jwt.ErrMissingToken)

	chain := jwt.ChainExtractors(jwt.BearerTokenExtractor, jwt.QueryTokenExtractor("token"))
	token, err = chain(r)
	require.NoError(t, err)
	assert.Equal(t, "q", token)

	r.Header.Set("Authorization", "Bearer h")
	token, err = chain(r)
	require.NoError(t, err)
	assert.Equal(t, "h", token)

	_, err = jwt.ChainExtractors(jwt.BearerTokenExtractor)(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, jwt.ErrMissingToken)
}

func TestTokenContext(t *testing.T) {
	t.Parallel()

	_, ok := jwt.GetToken(context.Background())
	assert.False(t, ok)

	token, ok := jwt.GetToken(jwt.SetToken(context.Background(), "abc"))
	require.True(t, ok)
	assert.Equal(t, "abc", token)
}
