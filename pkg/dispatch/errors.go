package dispatch

import (
	"errors"

	"github.com/dmitrymomot/notifier/pkg/email/templates"
)

var (
	ErrMailDeliveryFailed = errors.New("email delivery failed")
	ErrPushDeliveryFailed = errors.New("push delivery failed")
	ErrTopicUpdateFailed  = errors.New("push topic update failed")
	ErrInvalidPayload     = errors.New("invalid notification payload")

	ErrTemplateNotFound = templates.ErrTemplateNotFound
	ErrTemplateRender   = templates.ErrTemplateRender
)
