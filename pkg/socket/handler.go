package socket

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/notifier/pkg/auth"
	"github.com/dmitrymomot/notifier/pkg/hub"
	"github.com/dmitrymomot/notifier/pkg/jwt"
	"github.com/dmitrymomot/notifier/pkg/logger"
)

// Registry is the part of the hub the transport drives.
type Registry interface {
	Accept(peer hub.Peer) (hub.ConnectionID, error)
	Join(id hub.ConnectionID, room string) error
	OnMessage(ctx context.Context, id hub.ConnectionID, raw []byte) error
	Disconnect(id hub.ConnectionID)
}

// Authenticator verifies the handshake token.
type Authenticator interface {
	AuthenticateToken(token string) (auth.Identity, error)
}

// Handler upgrades HTTP requests to WebSocket connections registered with the
// hub. Inbound frames are hub commands; outbound frames are
// {"event": "...", "data": ...}.
type Handler struct {
	cfg      Config
	registry Registry
	authn    Authenticator
	log      *slog.Logger
	onError  auth.ErrorResponder
	upgrader websocket.Upgrader
}

// Option configures the Handler.
type Option func(*Handler)

func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

// WithAuthenticator enables handshake authentication. The token is read from
// the Authorization header or, for browsers, the configured query parameter.
// Without Config.RequireAuth a missing token is tolerated but an invalid one
// is still rejected.
func WithAuthenticator(a Authenticator) Option {
	return func(h *Handler) { h.authn = a }
}

// WithErrorResponder sets how rejected handshakes are answered.
func WithErrorResponder(fn auth.ErrorResponder) Option {
	return func(h *Handler) {
		if fn != nil {
			h.onError = fn
		}
	}
}

// NewHandler builds the endpoint. It fails when cfg.RequireAuth is set without
// an authenticator.
func NewHandler(cfg Config, registry Registry, opts ...Option) (*Handler, error) {
	h := &Handler{
		cfg:      cfg.withDefaults(),
		registry: registry,
		log:      logger.Discard(),
		onError: func(w http.ResponseWriter, _ *http.Request, _ error) {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.cfg.RequireAuth && h.authn == nil {
		return nil, ErrAuthenticatorRequired
	}

	h.log = h.log.With(logger.Component("socket"))
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(h.cfg.AllowedOrigins),
	}
	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// The connection outlives the request; keep its values, drop its cancellation.
	ctx := context.WithoutCancel(r.Context())

	log := h.log
	var userRoom string
	if h.authn != nil {
		id, err := h.authenticate(r)
		if err != nil {
			log.WarnContext(ctx, "handshake rejected", logger.Error(err))
			h.onError(w, r, err)
			return
		}
		if id.ID != "" {
			log = log.With(logger.ServiceID(id.ID))
		}
		userRoom = id.UserID
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		log.DebugContext(ctx, "upgrade failed", logger.Error(err))
		return
	}

	p := newPeer(ws, h.cfg, log)
	connID, err := h.registry.Accept(p)
	if err != nil {
		log.WarnContext(ctx, "connection refused", logger.Error(err))
		_ = ws.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "server shutting down"),
			time.Now().Add(h.cfg.WriteWait),
		)
		_ = ws.Close()
		return
	}

	p.log = log.With(logger.ConnectionID(connID.String()))
	p.log.InfoContext(ctx, "connection opened", slog.String("remote_addr", r.RemoteAddr))

	// Authenticated users receive their toasts without an explicit join.
	if userRoom != "" {
		if err := h.registry.Join(connID, userRoom); err != nil {
			p.log.WarnContext(ctx, "user room join failed", logger.Room(userRoom), logger.Error(err))
		}
	}

	go p.writePump(ctx)
	p.readPump(ctx, func(ctx context.Context, data []byte) {
		if err := h.registry.OnMessage(ctx, connID, data); err != nil {
			p.log.DebugContext(ctx, "command rejected", logger.Error(err))
		}
	})

	_ = p.Close()
	h.registry.Disconnect(connID)
	p.log.InfoContext(ctx, "connection closed")
}

func (h *Handler) authenticate(r *http.Request) (auth.Identity, error) {
	token, err := jwt.ChainExtractors(
		jwt.BearerTokenExtractor,
		jwt.QueryTokenExtractor(h.cfg.TokenParam),
	)(r)
	if err != nil {
		if !h.cfg.RequireAuth {
			return auth.Identity{}, nil
		}
		return auth.Identity{}, auth.ErrMissingCredential
	}
	return h.authn.AuthenticateToken(token)
}

// originChecker allows same-origin requests, requests without Origin
// (non-browser clients) and the configured origins. "*" allows everything.
func originChecker(allowed []string) func(*http.Request) bool {
	if slices.Contains(allowed, "*") {
		return func(*http.Request) bool { return true }
	}
	normalized := make([]string, 0, len(allowed))
	for _, o := range allowed {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			normalized = append(normalized, strings.ToLower(o))
		}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		if strings.EqualFold(u.Host, r.Host) {
			return true
		}
		return slices.Contains(normalized, strings.ToLower(strings.TrimRight(origin, "/")))
	}
}
