package notifications

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/notifier/binder"
	"github.com/dmitrymomot/notifier/handler"
	"github.com/dmitrymomot/notifier/pkg/auth"
	"github.com/dmitrymomot/notifier/pkg/dispatch"
	"github.com/dmitrymomot/notifier/pkg/push"
)

// Dispatcher is the part of dispatch.Service the routes call.
type Dispatcher interface {
	SendMail(ctx context.Context, req dispatch.MailRequest) (dispatch.MailReceipt, error)
	SendPush(ctx context.Context, req dispatch.PushRequest) (dispatch.PushReceipt, error)
	SubscribeTopic(ctx context.Context, tokens []string, topic string) (push.TopicReceipt, error)
	UnsubscribeTopic(ctx context.Context, tokens []string, topic string) (push.TopicReceipt, error)
	Broadcast(ctx context.Context, event string, payload json.RawMessage) dispatch.SocketReceipt
	EmitToRoom(ctx context.Context, room, event string, payload json.RawMessage) dispatch.SocketReceipt
	SendToast(ctx context.Context, userID string, toast dispatch.Toast) (dispatch.SocketReceipt, error)
	SendMetricsUpdate(ctx context.Context, userID string, data json.RawMessage) dispatch.SocketReceipt
}

// RouterOptions configures the notifications module.
type RouterOptions struct {
	Service Dispatcher
	Gate    *auth.Gate
	// Templates lists the accepted mail template names.
	Templates []string
	Logger    *slog.Logger
	// MaxBodySize overrides binder.DefaultMaxBodySize when positive.
	MaxBodySize int64
	// Middlewares run after authentication, so they can see the caller identity.
	Middlewares []func(http.Handler) http.Handler
}

type routes struct {
	svc       Dispatcher
	templates []string
}

// Router creates the notifications router. Mount it under /api/v1.
func Router(opts RouterOptions) chi.Router {
	if opts.Service == nil || opts.Gate == nil {
		panic("notifications: Service and Gate are required")
	}

	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	errCfg := handler.ErrorHandlerConfig{Mapper: MapError}
	respond := handler.NewErrorResponder(log, errCfg)
	onError := handler.NewErrorHandler(log, errCfg)
	bindJSON := binder.BindJSON(binder.WithMaxBodySize(opts.MaxBodySize))

	rt := &routes{svc: opts.Service, templates: opts.Templates}

	r := chi.NewRouter()
	r.Use(auth.Middleware(opts.Gate, respond))
	r.Use(opts.Middlewares...)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireMiddleware(respond, auth.PermissionSend))

		r.Post("/send-email", handler.Wrap(rt.sendEmail,
			handler.WithBinders[handler.Context, SendEmailRequest](bindJSON, rt.bindTemplates),
			handler.WithErrorHandler[handler.Context, SendEmailRequest](onError),
		))
		r.Post("/send-push", route(rt.sendPush, bindJSON, onError))
		r.Post("/ws/broadcast", route(rt.broadcast, bindJSON, onError))
		r.Post("/ws/emit", route(rt.emit, bindJSON, onError))
		r.Post("/ws/toast", route(rt.toast, bindJSON, onError))
		r.Post("/ws/metrics", route(rt.metrics, bindJSON, onError))
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireMiddleware(respond, auth.PermissionAdmin))

		r.Post("/push/topics/subscribe", route(rt.subscribe, bindJSON, onError))
		r.Post("/push/topics/unsubscribe", route(rt.unsubscribe, bindJSON, onError))
	})

	return r
}

func route[R any](h handler.HandlerFunc[handler.Context, R], bind handler.Bind, onError handler.ErrorHandler[handler.Context]) http.HandlerFunc {
	return handler.Wrap(h,
		handler.WithBinder[handler.Context, R](bind),
		handler.WithErrorHandler[handler.Context, R](onError),
	)
}

// bindTemplates hands the catalog names to the request for validation.
func (rt *routes) bindTemplates(_ http.ResponseWriter, _ *http.Request, v any) error {
	if req, ok := v.(*SendEmailRequest); ok {
		req.templates = rt.templates
	}
	return nil
}
