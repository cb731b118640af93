package ratelimiter

import (
	"context"
	"hash/fnv"
	"net"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/notifier/pkg/auth"
)

// maxKeyLength bounds stored keys; longer keys are hashed.
const maxKeyLength = 64

// Limiter is the part of Bucket the middleware needs.
type Limiter interface {
	Allow(ctx context.Context, key string) (*Result, error)
}

// KeyFunc extracts a rate limit key from the request. An empty key skips limiting.
type KeyFunc func(r *http.Request) string

// ByCaller keys requests by the authenticated service identifier.
func ByCaller(r *http.Request) string {
	if id, ok := auth.FromContext(r.Context()); ok && id.ID != "" {
		return "svc:" + id.ID
	}
	return ""
}

// ByRemoteAddr keys requests by the client host.
func ByRemoteAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host == "" {
		return ""
	}
	return "ip:" + host
}

// FirstOf returns the first non-empty key. Keys longer than 64 bytes are
// replaced with their FNV-1a hash.
func FirstOf(keyFuncs ...KeyFunc) KeyFunc {
	return func(r *http.Request) string {
		for _, fn := range keyFuncs {
			if key := fn(r); key != "" {
				return shorten(key)
			}
		}
		return ""
	}
}

func shorten(key string) string {
	if len(key) <= maxKeyLength {
		return key
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return strconv.FormatUint(h.Sum64(), 36)
}

// Middleware limits requests per key and sets the X-RateLimit-* headers.
// Denied requests and store failures are handed to respond; denials carry
// ErrLimitExceeded and a Retry-After header.
func Middleware(l Limiter, keyFunc KeyFunc, respond auth.ErrorResponder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			result, err := l.Allow(r.Context(), key)
			if err != nil {
				respond(w, r, err)
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(max(0, result.Remaining)))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed() {
				retry := max(1, int(result.RetryAfter().Seconds()))
				h.Set("Retry-After", strconv.Itoa(retry))
				respond(w, r, ErrLimitExceeded)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
