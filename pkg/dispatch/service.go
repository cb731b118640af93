package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/notifier/pkg/email"
	"github.com/dmitrymomot/notifier/pkg/email/templates"
	"github.com/dmitrymomot/notifier/pkg/logger"
	"github.com/dmitrymomot/notifier/pkg/push"
)

// Socket event names emitted by the helpers.
const (
	EventToast         = "new_toast"
	EventMetricsUpdate = "metrics_update"

	// MetricsDashboardRoom receives metrics updates not addressed to a user.
	MetricsDashboardRoom = "metrics_dashboard"
)

// Renderer turns a template name and data into a mail body.
type Renderer interface {
	Render(ctx context.Context, name string, data any) (templates.Rendered, error)
}

// Hub is the fan-out part of the connection hub.
type Hub interface {
	Broadcast(ctx context.Context, event string, payload []byte) int
	EmitToRoom(ctx context.Context, room, event string, payload []byte) int
}

// Service routes notifications to their transport.
type Service struct {
	mailer    email.EmailSender
	pusher    push.Sender
	hub       Hub
	templates Renderer
	recorder  Recorder
	log       *slog.Logger
}

// New builds a Service. Mail templates default to the built-in catalog.
func New(mailer email.EmailSender, pusher push.Sender, hub Hub, opts ...Option) *Service {
	s := &Service{
		mailer:   mailer,
		pusher:   pusher,
		hub:      hub,
		recorder: nopRecorder{},
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.templates == nil {
		s.templates = templates.MustDefault()
	}
	s.log = s.log.With(logger.Component("dispatch"))
	return s
}

// MailRequest asks for a templated e-mail.
type MailRequest struct {
	To       string
	Subject  string
	Template string
	Context  map[string]any
}

// MailReceipt is returned once the relay accepted the message.
type MailReceipt struct {
	MessageID string `json:"messageId"`
}

// SendMail renders the named template and hands it to the mail relay.
// An empty Subject falls back to the template default.
func (s *Service) SendMail(ctx context.Context, req MailRequest) (MailReceipt, error) {
	start := time.Now()
	log := s.log.With(logger.Channel(string(ChannelMail)), logger.Template(req.Template))

	data := req.Context
	if data == nil {
		data = map[string]any{}
	}

	rendered, err := s.templates.Render(ctx, req.Template, data)
	if err != nil {
		s.fail(ChannelMail, req.Template)
		log.ErrorContext(ctx, "email render failed", logger.Error(err))
		return MailReceipt{}, err
	}

	subject := req.Subject
	if subject == "" {
		subject = rendered.Subject
	}

	receipt, err := s.mailer.SendEmail(ctx, email.SendEmailParams{
		SendTo:   req.To,
		Subject:  subject,
		BodyHTML: rendered.HTML,
		Tag:      rendered.Tag,
	})
	if err == nil && receipt.MessageID == "" {
		err = errors.New("relay returned no receipt")
	}
	if err != nil {
		s.fail(ChannelMail, req.Template)
		log.ErrorContext(ctx, "email delivery failed", logger.Error(err), logger.Duration(time.Since(start)))
		return MailReceipt{}, errors.Join(ErrMailDeliveryFailed, err)
	}

	s.recorder.Record(Outcome{Channel: ChannelMail, Status: StatusSuccess, Label: req.Template})
	log.InfoContext(ctx, "email sent", logger.MessageID(receipt.MessageID), logger.Duration(time.Since(start)))
	return MailReceipt{MessageID: receipt.MessageID}, nil
}

// PushRequest addresses exactly one of Token, Tokens or Topic.
type PushRequest struct {
	Token  string
	Tokens []string
	Topic  string
	Title  string
	Body   string
	Data   map[string]any
}

// PushReceipt reports device-level results.
type PushReceipt struct {
	MessageID    string         `json:"messageId,omitempty"`
	SuccessCount int            `json:"successCount"`
	FailureCount int            `json:"failureCount"`
	Failures     []push.Failure `json:"-"`
}

// SendPush delivers a push notification. Zero successful deliveries is a
// failure; the receipt is still returned so callers can report counts.
func (s *Service) SendPush(ctx context.Context, req PushRequest) (PushReceipt, error) {
	start := time.Now()
	msg := push.Message{
		Token:  req.Token,
		Tokens: req.Tokens,
		Topic:  req.Topic,
		Title:  req.Title,
		Body:   req.Body,
	}
	label := pushLabel(msg)
	log := s.log.With(logger.Channel(string(ChannelPush)), slog.String("target", label))

	data, err := push.StringifyData(req.Data)
	if err != nil {
		s.fail(ChannelPush, label)
		return PushReceipt{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	msg.Data = data

	receipt, err := s.pusher.Send(ctx, msg)
	if err != nil {
		s.fail(ChannelPush, label)
		log.ErrorContext(ctx, "push delivery failed", logger.Error(err), logger.Duration(time.Since(start)))
		return PushReceipt{}, errors.Join(ErrPushDeliveryFailed, err)
	}

	out := PushReceipt{
		MessageID:    receipt.MessageID,
		SuccessCount: receipt.SuccessCount,
		FailureCount: receipt.FailureCount,
		Failures:     receipt.Failures,
	}
	outcome := Outcome{Channel: ChannelPush, Label: label}
	if len(msg.Tokens) > 0 {
		outcome.Delivered = receipt.SuccessCount
		outcome.Failed = receipt.FailureCount
	}

	if receipt.SuccessCount == 0 {
		outcome.Status = StatusFailure
		s.recorder.Record(outcome)
		log.ErrorContext(ctx, "push reached no device",
			slog.Int("failure_count", receipt.FailureCount),
			logger.Duration(time.Since(start)))
		return out, fmt.Errorf("%w: no device accepted the message", ErrPushDeliveryFailed)
	}

	outcome.Status = StatusSuccess
	s.recorder.Record(outcome)
	log.InfoContext(ctx, "push sent",
		logger.MessageID(receipt.MessageID),
		slog.Int("success_count", receipt.SuccessCount),
		slog.Int("failure_count", receipt.FailureCount),
		logger.Duration(time.Since(start)))
	return out, nil
}

// SubscribeTopic subscribes device tokens to a push topic.
func (s *Service) SubscribeTopic(ctx context.Context, tokens []string, topic string) (push.TopicReceipt, error) {
	receipt, err := s.pusher.SubscribeToTopic(ctx, tokens, topic)
	if err != nil {
		return receipt, errors.Join(ErrTopicUpdateFailed, err)
	}
	return receipt, nil
}

// UnsubscribeTopic removes device tokens from a push topic.
func (s *Service) UnsubscribeTopic(ctx context.Context, tokens []string, topic string) (push.TopicReceipt, error) {
	receipt, err := s.pusher.UnsubscribeFromTopic(ctx, tokens, topic)
	if err != nil {
		return receipt, errors.Join(ErrTopicUpdateFailed, err)
	}
	return receipt, nil
}

// SocketReceipt reports how many connections the event was queued for.
type SocketReceipt struct {
	Event      string `json:"event"`
	Room       string `json:"room,omitempty"`
	Recipients int    `json:"recipients"`
}

// Broadcast queues the event for every connected client.
func (s *Service) Broadcast(ctx context.Context, event string, payload json.RawMessage) SocketReceipt {
	n := s.hub.Broadcast(ctx, event, payload)
	s.recorder.Record(Outcome{Channel: ChannelSocket, Status: StatusSuccess, Label: event})
	s.log.DebugContext(ctx, "event broadcast", logger.Event(event), logger.Recipients(n))
	return SocketReceipt{Event: event, Recipients: n}
}

// EmitToRoom queues the event for the current members of room. An unknown
// room reaches nobody and is not an error.
func (s *Service) EmitToRoom(ctx context.Context, room, event string, payload json.RawMessage) SocketReceipt {
	n := s.hub.EmitToRoom(ctx, room, event, payload)
	s.recorder.Record(Outcome{Channel: ChannelSocket, Status: StatusSuccess, Label: event})
	s.log.DebugContext(ctx, "event emitted", logger.Room(room), logger.Event(event), logger.Recipients(n))
	return SocketReceipt{Event: event, Room: room, Recipients: n}
}

// Toast is a UI notification rendered by the client.
type Toast struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// SendToast emits a toast to the user's room.
func (s *Service) SendToast(ctx context.Context, userID string, toast Toast) (SocketReceipt, error) {
	payload, err := json.Marshal(toast)
	if err != nil {
		s.fail(ChannelSocket, EventToast)
		return SocketReceipt{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return s.EmitToRoom(ctx, userID, EventToast, payload), nil
}

// SendMetricsUpdate emits metrics data to the user's room, or to the shared
// dashboard room when userID is empty.
func (s *Service) SendMetricsUpdate(ctx context.Context, userID string, data json.RawMessage) SocketReceipt {
	room := userID
	if room == "" {
		room = MetricsDashboardRoom
	}
	return s.EmitToRoom(ctx, room, EventMetricsUpdate, data)
}

func (s *Service) fail(ch Channel, label string) {
	s.recorder.Record(Outcome{Channel: ch, Status: StatusFailure, Label: label})
}

func pushLabel(m push.Message) string {
	if m.Topic != "" {
		return m.Topic
	}
	return m.Kind()
}
