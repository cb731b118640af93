package requestid_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifier/pkg/requestid"
)

func serve(t *testing.T, mw func(http.Handler) http.Handler, header string) (string, string, *httptest.ResponseRecorder) {
	t.Helper()

	var fromPkg, fromChi string
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromPkg = requestid.FromContext(r.Context())
		fromChi = middleware.GetReqID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(requestid.Header, header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return fromPkg, fromChi, rec
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("generates id when missing", func(t *testing.T) {
		t.Parallel()
		id, chiID, rec := serve(t, requestid.Middleware, "")
		assert.NotEmpty(t, id)
		assert.Equal(t, id, chiID)
		assert.Equal(t, id, rec.Header().Get(requestid.Header))
	})

	t.Run("reuses valid header", func(t *testing.T) {
		t.Parallel()
		id, _, rec := serve(t, requestid.Middleware, "req-123.abc")
		assert.Equal(t, "req-123.abc", id)
		assert.Equal(t, "req-123.abc", rec.Header().Get(requestid.Header))
	})

	t.Run("replaces malformed header", func(t *testing.T) {
		t.Parallel()
		id, _, _ := serve(t, requestid.Middleware, "bad id<script>")
		assert.NotEqual(t, "bad id<script>", id)
		assert.NotEmpty(t, id)
	})

	t.Run("replaces oversized header", func(t *testing.T) {
		t.Parallel()
		long := strings.Repeat("a", 200)
		id, _, _ := serve(t, requestid.Middleware, long)
		assert.NotEqual(t, long, id)
	})

	t.Run("custom generator", func(t *testing.T) {
		t.Parallel()
		mw := requestid.New(requestid.WithGenerator(func() string { return "fixed" }))
		id, _, _ := serve(t, mw, "")
		assert.Equal(t, "fixed", id)
	})
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	extract := requestid.LoggerExtractor()

	_, ok := extract(context.Background())
	assert.False(t, ok)

	attr, ok := extract(requestid.WithContext(context.Background(), "abc"))
	require.True(t, ok)
	assert.Equal(t, "request_id", attr.Key)
	assert.Equal(t, "abc", attr.Value.String())
}
