package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/notifier/core"
	"github.com/dmitrymomot/notifier/handler"
	"github.com/dmitrymomot/notifier/modules/notifications"
	"github.com/dmitrymomot/notifier/pkg/auth"
	"github.com/dmitrymomot/notifier/pkg/dispatch"
	"github.com/dmitrymomot/notifier/pkg/email"
	"github.com/dmitrymomot/notifier/pkg/email/templates"
	"github.com/dmitrymomot/notifier/pkg/environment"
	"github.com/dmitrymomot/notifier/pkg/httpserver"
	"github.com/dmitrymomot/notifier/pkg/hub"
	"github.com/dmitrymomot/notifier/pkg/logger"
	"github.com/dmitrymomot/notifier/pkg/metrics"
	"github.com/dmitrymomot/notifier/pkg/push"
	"github.com/dmitrymomot/notifier/pkg/ratelimiter"
	"github.com/dmitrymomot/notifier/pkg/requestid"
	"github.com/dmitrymomot/notifier/pkg/socket"
)

// app holds the wired components of one process.
type app struct {
	cfg      Config
	env      environment.Environment
	log      *slog.Logger
	hub      *hub.Hub
	metrics  *metrics.Metrics
	gate     *auth.Gate
	catalog  *templates.Catalog
	mailer   email.EmailSender
	pusher   push.Sender
	dispatch *dispatch.Service
	socket   *socket.Handler
	// limiter is nil when rate limiting is disabled.
	limiter    *ratelimiter.Bucket
	limitStore *ratelimiter.MemoryStore
}

type appOption func(*appDeps)

type appDeps struct {
	mailer  email.EmailSender
	pusher  push.Sender
	metrics []metrics.Option
}

// withMailer replaces the configured mail relay.
func withMailer(m email.EmailSender) appOption {
	return func(d *appDeps) { d.mailer = m }
}

// withPusher replaces the configured push sender.
func withPusher(p push.Sender) appOption {
	return func(d *appDeps) { d.pusher = p }
}

func withMetricsOptions(opts ...metrics.Option) appOption {
	return func(d *appDeps) { d.metrics = append(d.metrics, opts...) }
}

func newApp(ctx context.Context, cfg Config, log *slog.Logger, opts ...appOption) (*app, error) {
	var deps appDeps
	for _, opt := range opts {
		opt(&deps)
	}

	a := &app{
		cfg:     cfg,
		env:     environment.Parse(cfg.AppEnv),
		log:     log,
		metrics: metrics.New(deps.metrics...),
	}

	gate, err := auth.NewGate(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("auth gate: %w", err)
	}
	a.gate = gate

	if a.catalog, err = templates.Default(); err != nil {
		return nil, fmt.Errorf("mail templates: %w", err)
	}

	a.mailer = deps.mailer
	if a.mailer == nil {
		if a.mailer, err = email.New(cfg.Email); err != nil {
			return nil, fmt.Errorf("mail relay: %w", err)
		}
		if !cfg.Email.Enabled() {
			log.WarnContext(ctx, "postmark not configured, mail is written to disk", slog.String("dir", cfg.Email.DevDir))
		}
	}

	a.pusher = deps.pusher
	if a.pusher == nil {
		if a.pusher, err = push.New(ctx, cfg.Push, push.WithLogger(log)); err != nil {
			return nil, fmt.Errorf("push sender: %w", err)
		}
	}

	a.hub = hub.New(hub.WithLogger(log), hub.WithObserver(a.metrics))
	a.dispatch = dispatch.New(a.mailer, a.pusher, a.hub,
		dispatch.WithLogger(log),
		dispatch.WithRecorder(a.metrics),
		dispatch.WithTemplates(a.catalog),
	)

	if cfg.RateLimit.Enabled {
		a.limitStore = ratelimiter.NewMemoryStore()
		if a.limiter, err = ratelimiter.NewBucket(a.limitStore, cfg.RateLimit); err != nil {
			_ = a.limitStore.Close()
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	a.socket, err = socket.NewHandler(cfg.Socket, a.hub,
		socket.WithLogger(log),
		socket.WithAuthenticator(gate),
		socket.WithErrorResponder(a.errorResponder()),
	)
	if err != nil {
		return nil, fmt.Errorf("socket handler: %w", err)
	}
	return a, nil
}

func (a *app) errorResponder() func(http.ResponseWriter, *http.Request, error) {
	return handler.NewErrorResponder(a.log, handler.ErrorHandlerConfig{Mapper: notifications.MapError})
}

// routes builds the root router.
func (a *app) routes() http.Handler {
	respond := a.errorResponder()

	r := chi.NewRouter()
	r.Use(
		middleware.RealIP,
		requestid.Middleware,
		environment.Middleware(a.env),
		logger.Middleware(a.log, logger.SkipPaths("/metrics", "/livez")),
		middleware.Recoverer,
		a.metrics.Middleware,
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond(w, r, core.ErrNotFound.WithDetails(map[string]string{"method": r.Method, "path": r.URL.Path}))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respond(w, r, core.ErrMethodNotAllowed)
	})

	r.Get("/", handler.Wrap(a.serviceInfo))
	r.Get("/livez", httpserver.LivenessHandler())
	r.Method(http.MethodGet, "/metrics", a.metrics.Handler())
	r.Get("/api/v1/health", httpserver.HealthCheckHandler(a.healthChecks(),
		httpserver.WithVersion(a.cfg.Version),
		httpserver.WithHealthLogger(a.log),
	))
	r.Method(http.MethodGet, "/ws", a.socket)

	var apiMiddlewares []func(http.Handler) http.Handler
	if a.limiter != nil {
		apiMiddlewares = append(apiMiddlewares, ratelimiter.Middleware(a.limiter,
			ratelimiter.FirstOf(ratelimiter.ByCaller, ratelimiter.ByRemoteAddr),
			respond,
		))
	}
	r.Mount("/api/v1", notifications.Router(notifications.RouterOptions{
		Service:     a.dispatch,
		Gate:        a.gate,
		Templates:   a.catalog.Names(),
		Logger:      a.log,
		MaxBodySize: a.cfg.MaxBodySize,
		Middlewares: apiMiddlewares,
	}))

	return r
}

func (a *app) healthChecks() []httpserver.Check {
	checks := make([]httpserver.Check, 0, 2)
	if p, ok := a.mailer.(email.Pinger); ok {
		checks = append(checks, httpserver.Check{
			Name:        "mail",
			OKMessage:   "Mail relay is reachable",
			FailMessage: "Cannot reach the mail relay",
			Run:         p.Ping,
		})
	}
	checks = append(checks, httpserver.Check{
		Name:        "push",
		OKMessage:   "Push sender is initialised",
		FailMessage: "Push sender is not initialised, check the Firebase configuration",
		Run:         func(context.Context) error { return a.pusher.Ready() },
	})
	return checks
}

type serviceInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Version     string   `json:"version"`
	Environment string   `json:"environment"`
	Features    []string `json:"features"`
}

func (a *app) serviceInfo(_ handler.Context, _ struct{}) handler.Response {
	return handler.JSON(serviceInfo{
		Name:        a.cfg.ServiceName,
		Description: "Dispatches e-mail, push and real-time socket notifications",
		Version:     a.cfg.Version,
		Environment: a.env.String(),
		Features:    []string{"Email (Postmark)", "Push (Firebase Cloud Messaging)", "WebSocket"},
	})
}

// server wraps routes in the graceful runner; the hub is closed once HTTP
// connections drain so socket clients get a close frame.
func (a *app) server() *httpserver.Server {
	opts := []httpserver.Option{
		httpserver.WithLogger(a.log),
		httpserver.WithStartHook(func(ctx context.Context, addr string) {
			a.log.InfoContext(ctx, "notification service started",
				slog.String("addr", addr),
				slog.String("version", a.cfg.Version),
				slog.String("env", a.env.String()),
				slog.Bool("postmark", a.cfg.Email.Enabled()),
				slog.Bool("firebase", a.pusher.Ready() == nil),
			)
		}),
	}
	if a.limitStore != nil {
		opts = append(opts, httpserver.WithCloser("rate limiter", func(context.Context) error { return a.limitStore.Close() }))
	}
	opts = append(opts, httpserver.WithCloser("hub", func(context.Context) error { return a.hub.Close() }))
	return httpserver.NewFromConfig(a.cfg.HTTP, opts...)
}
