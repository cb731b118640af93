package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/notifier/binder"
	"github.com/dmitrymomot/notifier/core"
	"github.com/dmitrymomot/notifier/pkg/environment"
	"github.com/dmitrymomot/notifier/pkg/logger"
	"github.com/dmitrymomot/notifier/pkg/validator"
)

// ErrorHandlerConfig configures the default error handler.
type ErrorHandlerConfig struct {
	// Mapper converts domain errors into *core.AppError values before the
	// response is classified. Errors it leaves alone are treated as internal.
	Mapper func(error) error
}

// ErrorInfo contains classified error information
type ErrorInfo struct {
	StatusCode  int
	Detail      ErrorDetail
	Operational bool
}

func classify(err error, exposeInternal bool) ErrorInfo {
	if ve := validator.ExtractValidationErrors(err); ve != nil {
		return ErrorInfo{
			StatusCode:  http.StatusBadRequest,
			Detail:      ErrorDetail{Message: "Validation failed", Code: core.CodeValidation, Details: ve},
			Operational: true,
		}
	}

	if status, ok := bindingStatus(err); ok {
		return ErrorInfo{
			StatusCode:  status,
			Detail:      ErrorDetail{Message: err.Error(), Code: core.CodeValidation},
			Operational: true,
		}
	}

	if appErr, ok := core.AsAppError(err); ok {
		return ErrorInfo{
			StatusCode:  appErr.Status,
			Detail:      ErrorDetail{Message: appErr.Message, Code: appErr.Code, Details: appErr.Details},
			Operational: true,
		}
	}

	message := core.ErrInternal.Message
	if exposeInternal {
		message = err.Error()
	}
	return ErrorInfo{
		StatusCode: http.StatusInternalServerError,
		Detail:     ErrorDetail{Message: message, Code: core.CodeInternal},
	}
}

func bindingStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, binder.ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge, true
	case errors.Is(err, binder.ErrUnsupportedMediaType), errors.Is(err, binder.ErrMissingContentType):
		return http.StatusUnsupportedMediaType, true
	case errors.Is(err, binder.ErrInvalidJSON):
		return http.StatusBadRequest, true
	}
	return 0, false
}

func writeError(w http.ResponseWriter, _ *http.Request, info ErrorInfo) error {
	return WriteJSON(w, info.StatusCode, ErrorBody{Success: false, Error: info.Detail})
}

// NewErrorResponder returns a plain http error writer sharing the classification
// and logging of NewErrorHandler. Middleware uses it where no handler Context
// exists.
func NewErrorResponder(log *slog.Logger, cfg ErrorHandlerConfig) func(w http.ResponseWriter, r *http.Request, err error) {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(logger.Component("error_handler"))

	return func(w http.ResponseWriter, r *http.Request, err error) {
		if cfg.Mapper != nil {
			err = cfg.Mapper(err)
		}
		ctx := r.Context()
		info := classify(err, environment.IsDevelopment(ctx))

		level := slog.LevelError
		if info.Operational {
			level = slog.LevelWarn
		}
		log.LogAttrs(ctx, level, "request error",
			logger.Error(err),
			slog.Int("status_code", info.StatusCode),
			slog.String("code", info.Detail.Code),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)

		if renderErr := writeError(w, r, info); renderErr != nil {
			log.ErrorContext(ctx, "failed to write error response", logger.Error(renderErr))
		}
	}
}

// NewErrorHandler creates the JSON error handler used by Wrap.
func NewErrorHandler(log *slog.Logger, cfg ErrorHandlerConfig) ErrorHandler[Context] {
	respond := NewErrorResponder(log, cfg)
	return func(ctx Context, err error) {
		respond(ctx.ResponseWriter(), ctx.Request(), err)
	}
}
