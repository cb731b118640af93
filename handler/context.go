package handler

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/notifier/pkg/auth"
	"github.com/dmitrymomot/notifier/pkg/requestid"
)

// Context is the request context handed to a HandlerFunc, together with the
// request, the writer and the values the middleware stack stored.
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter
	// Identity is the authenticated caller, zero when the route is public.
	Identity() auth.Identity
	RequestID() string
}

// NewContext binds the request context to w and r.
func NewContext(w http.ResponseWriter, r *http.Request) Context {
	return &httpContext{Context: r.Context(), w: w, r: r}
}

type httpContext struct {
	context.Context
	w http.ResponseWriter
	r *http.Request
}

func (c *httpContext) Request() *http.Request              { return c.r }
func (c *httpContext) ResponseWriter() http.ResponseWriter { return c.w }

func (c *httpContext) Identity() auth.Identity {
	id, _ := auth.FromContext(c.Context)
	return id
}

func (c *httpContext) RequestID() string {
	return requestid.FromContext(c.Context)
}
