package notifications

import (
	"encoding/json"

	"github.com/dmitrymomot/notifier/pkg/dispatch"
	"github.com/dmitrymomot/notifier/pkg/push"
	"github.com/dmitrymomot/notifier/pkg/validator"
)

// maxSubjectLength follows the RFC 5322 line limit.
const maxSubjectLength = 998

// maxTopicTokens is the FCM limit for one topic management call.
const maxTopicTokens = 1000

// ToastTypes are the accepted toast severities.
var ToastTypes = []string{"info", "success", "warning", "error"}

// SendEmailRequest is the body of POST /send-email.
type SendEmailRequest struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject"`
	Template string         `json:"template"`
	Context  map[string]any `json:"context"`

	templates []string
}

func (r SendEmailRequest) Validate() error {
	return validator.Apply(
		validator.ValidEmail("to", r.To),
		validator.MaxLenString("subject", r.Subject, maxSubjectLength),
		validator.RequiredString("template", r.Template),
		validator.When(r.Template != "", validator.InListString("template", r.Template, r.templates)),
		validator.RequiredMap("context", r.Context),
	)
}

func (r SendEmailRequest) toMail() dispatch.MailRequest {
	return dispatch.MailRequest{To: r.To, Subject: r.Subject, Template: r.Template, Context: r.Context}
}

// SendPushRequest is the body of POST /send-push. Exactly one of Token,
// Tokens and Topic must be set.
type SendPushRequest struct {
	Token  string         `json:"token"`
	Tokens []string       `json:"tokens"`
	Topic  string         `json:"topic"`
	Title  string         `json:"title"`
	Body   string         `json:"body"`
	Data   map[string]any `json:"data"`
}

func (r SendPushRequest) Validate() error {
	return validator.Apply(
		validator.ExactlyOne("target", r.Token != "", len(r.Tokens) > 0, r.Topic != ""),
		validator.MaxLenSlice("tokens", r.Tokens, push.MaxMulticastTokens),
		validator.NoEmptyStrings("tokens", r.Tokens),
		validator.When(r.Topic != "", validator.ValidTopic("topic", r.Topic)),
		validator.RequiredString("title", r.Title),
		validator.RequiredString("body", r.Body),
	)
}

func (r SendPushRequest) toPush() dispatch.PushRequest {
	return dispatch.PushRequest{
		Token:  r.Token,
		Tokens: r.Tokens,
		Topic:  r.Topic,
		Title:  r.Title,
		Body:   r.Body,
		Data:   r.Data,
	}
}

// TopicRequest is the body of the topic subscribe and unsubscribe routes.
type TopicRequest struct {
	Tokens []string `json:"tokens"`
	Topic  string   `json:"topic"`
}

func (r TopicRequest) Validate() error {
	return validator.Apply(
		validator.RequiredSlice("tokens", r.Tokens),
		validator.MaxLenSlice("tokens", r.Tokens, maxTopicTokens),
		validator.NoEmptyStrings("tokens", r.Tokens),
		validator.ValidTopic("topic", r.Topic),
	)
}

// BroadcastRequest is the body of POST /ws/broadcast.
type BroadcastRequest struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func (r BroadcastRequest) Validate() error {
	return validator.Apply(
		validator.RequiredString("event", r.Event),
		validator.RequiredJSON("data", r.Data),
	)
}

// EmitRequest is the body of POST /ws/emit.
type EmitRequest struct {
	Room  string          `json:"room"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func (r EmitRequest) Validate() error {
	return validator.Apply(
		validator.RequiredString("room", r.Room),
		validator.RequiredString("event", r.Event),
		validator.RequiredJSON("data", r.Data),
	)
}

// ToastRequest is the body of POST /ws/toast.
type ToastRequest struct {
	UserID  string `json:"userId"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (r ToastRequest) Validate() error {
	return validator.Apply(
		validator.RequiredString("userId", r.UserID),
		validator.InListString("type", r.Type, ToastTypes),
		validator.RequiredString("message", r.Message),
	)
}

// MetricsRequest is the body of POST /ws/metrics. Without UserID the update
// goes to the shared dashboard room.
type MetricsRequest struct {
	UserID string          `json:"userId"`
	Data   json.RawMessage `json:"data"`
}

func (r MetricsRequest) Validate() error {
	return validator.Apply(validator.RequiredJSON("data", r.Data))
}
