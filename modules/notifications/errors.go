package notifications

import (
	"errors"

	"github.com/dmitrymomot/notifier/core"
	"github.com/dmitrymomot/notifier/pkg/auth"
	"github.com/dmitrymomot/notifier/pkg/dispatch"
	"github.com/dmitrymomot/notifier/pkg/push"
	"github.com/dmitrymomot/notifier/pkg/ratelimiter"
)

var errorMap = []struct {
	err    error
	appErr *core.AppError
}{
	{auth.ErrMissingCredential, core.ErrMissingToken},
	{auth.ErrNotAuthenticated, core.ErrMissingToken},
	{auth.ErrExpiredCredential, core.ErrExpiredToken},
	{auth.ErrInvalidCredential, core.ErrInvalidToken},
	{auth.ErrUnauthorizedCaller, core.ErrUnauthorizedService},
	{auth.ErrInsufficientPermissions, core.ErrInsufficientPermission},
	{dispatch.ErrTemplateNotFound, core.ErrTemplateNotFound},
	{dispatch.ErrTemplateRender, core.ErrTemplateCompile},
	{dispatch.ErrInvalidPayload, core.ErrValidation},
	{dispatch.ErrMailDeliveryFailed, core.ErrSMTP},
	{push.ErrNotConfigured, core.ErrFirebase},
	{dispatch.ErrPushDeliveryFailed, core.ErrFirebase},
	{dispatch.ErrTopicUpdateFailed, core.ErrFirebase},
	{ratelimiter.ErrLimitExceeded, core.ErrRateLimited},
}

// MapError converts auth and dispatch errors into *core.AppError values for
// the response envelope. AppErrors and unknown errors pass through unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := core.AsAppError(err); ok {
		return err
	}
	for _, m := range errorMap {
		if errors.Is(err, m.err) {
			return m.appErr.Wrap(err)
		}
	}
	return err
}
