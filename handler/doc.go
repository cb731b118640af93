// Package handler provides type-safe JSON HTTP handlers.
//
// A HandlerFunc receives a bound request struct and returns a Response.
// Wrap turns it into an http.HandlerFunc: it runs the configured binders,
// calls Validate when the request type implements Validatable, invokes the
// handler and renders the result. Any error along the way goes to the
// route's ErrorHandler.
//
//	type SendPushRequest struct {
//		Token string `json:"token"`
//		Title string `json:"title"`
//		Body  string `json:"body"`
//	}
//
//	func (r SendPushRequest) Validate() error { ... }
//
//	func (h *handlers) sendPush(ctx handler.Context, req SendPushRequest) handler.Response {
//		receipt, err := h.svc.SendPush(ctx, req.toPush())
//		if err != nil {
//			return handler.Error(err)
//		}
//		return handler.Success("Push notification sent", receipt)
//	}
//
//	r.Post("/send-push", handler.Wrap(h.sendPush,
//		handler.WithBinder[handler.Context, SendPushRequest](binder.BindJSON()),
//		handler.WithErrorHandler[handler.Context, SendPushRequest](errorHandler),
//	))
//
// # Envelopes
//
// Successful responses use {"message": "...", "details": ...}. Errors use
// {"success": false, "error": {"message", "code", "details"}}.
//
// # Error Handling
//
// NewErrorHandler classifies errors in this order: validator.ValidationErrors
// become 400 VALIDATION_ERROR with field details, binder errors become
// 400/413/415, and *core.AppError values are rendered with their own status
// and code. Everything else is a 500 INTERNAL_ERROR whose message is replaced
// by a generic one unless the request context carries the development
// environment. Operational errors are logged at warn level, the rest at error.
//
// NewErrorResponder exposes the same behaviour as a plain
// func(w, r, err) for middleware such as authentication.
package handler
