package push

import (
	"context"
	"errors"
	"log/slog"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"

	"github.com/dmitrymomot/notifier/pkg/logger"
)

// firebaseScopes are the OAuth scopes needed for FCM and topic management.
var firebaseScopes = []string{
	"https://www.googleapis.com/auth/cloud-platform",
	"https://www.googleapis.com/auth/firebase.messaging",
}

// FCMClient is the subset of *messaging.Client used by the sender.
type FCMClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
	SubscribeToTopic(ctx context.Context, tokens []string, topic string) (*messaging.TopicManagementResponse, error)
	UnsubscribeFromTopic(ctx context.Context, tokens []string, topic string) (*messaging.TopicManagementResponse, error)
}

// Option configures the FCM sender.
type Option func(*FCMSender)

// WithLogger sets the sender logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *FCMSender) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClient uses an existing messaging client instead of building one from
// credentials.
func WithClient(c FCMClient) Option {
	return func(s *FCMSender) {
		s.client = c
	}
}

// FCMSender delivers messages through Firebase Cloud Messaging.
type FCMSender struct {
	client FCMClient
	log    *slog.Logger
}

// New builds the FCM sender when credentials are configured and returns
// Disabled otherwise. A WithClient option bypasses credential loading.
func New(ctx context.Context, cfg Config, opts ...Option) (Sender, error) {
	s := &FCMSender{log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	if s.client != nil {
		return s, nil
	}
	if !cfg.Enabled() {
		s.log.WarnContext(ctx, "push delivery disabled: firebase credentials not configured")
		return Disabled{}, nil
	}

	client, err := newMessagingClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s.client = client
	return s, nil
}

// NewFCMSender wraps an existing messaging client.
func NewFCMSender(client FCMClient, opts ...Option) *FCMSender {
	s := &FCMSender{client: client, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newMessagingClient(ctx context.Context, cfg Config) (*messaging.Client, error) {
	raw := []byte(cfg.ServiceAccountJSON)
	if len(raw) == 0 {
		b, err := os.ReadFile(cfg.ServiceAccountFile)
		if err != nil {
			return nil, errors.Join(ErrInvalidConfig, err)
		}
		raw = b
	}

	creds, err := google.CredentialsFromJSON(ctx, raw, firebaseScopes...)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	projectID := cfg.ProjectID
	if projectID == "" {
		projectID = creds.ProjectID
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, option.WithCredentials(creds))
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	return client, nil
}

// Send delivers msg to its single target.
func (s *FCMSender) Send(ctx context.Context, msg Message) (Receipt, error) {
	if err := msg.Validate(); err != nil {
		return Receipt{}, err
	}

	notification := &messaging.Notification{Title: msg.Title, Body: msg.Body}

	if len(msg.Tokens) > 0 {
		return s.multicast(ctx, msg, notification)
	}

	id, err := s.client.Send(ctx, &messaging.Message{
		Token:        msg.Token,
		Topic:        msg.Topic,
		Notification: notification,
		Data:         msg.Data,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "push send failed",
			slog.String("kind", msg.Kind()),
			logger.Topic(msg.Topic),
			slog.String("reason", Reason(err)),
			logger.Error(err))
		return Receipt{}, errors.Join(ErrDeliveryFailed, err)
	}

	s.log.InfoContext(ctx, "push sent",
		slog.String("kind", msg.Kind()),
		logger.Topic(msg.Topic),
		logger.MessageID(id))
	return Receipt{MessageID: id, MessageIDs: []string{id}, SuccessCount: 1}, nil
}

func (s *FCMSender) multicast(ctx context.Context, msg Message, n *messaging.Notification) (Receipt, error) {
	resp, err := s.client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
		Tokens:       msg.Tokens,
		Notification: n,
		Data:         msg.Data,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "push multicast failed",
			logger.Recipients(len(msg.Tokens)),
			logger.Error(err))
		return Receipt{}, errors.Join(ErrDeliveryFailed, err)
	}

	receipt := Receipt{SuccessCount: resp.SuccessCount, FailureCount: resp.FailureCount}
	for i, r := range resp.Responses {
		if r == nil {
			continue
		}
		if r.Success {
			receipt.MessageIDs = append(receipt.MessageIDs, r.MessageID)
			continue
		}
		f := Failure{Reason: Reason(r.Error)}
		if i < len(msg.Tokens) {
			f.Token = msg.Tokens[i]
		}
		receipt.Failures = append(receipt.Failures, f)
	}
	if len(receipt.MessageIDs) > 0 {
		receipt.MessageID = receipt.MessageIDs[0]
	}

	s.log.InfoContext(ctx, "push multicast sent",
		logger.Recipients(len(msg.Tokens)),
		slog.Int("success_count", receipt.SuccessCount),
		slog.Int("failure_count", receipt.FailureCount))
	return receipt, nil
}

// SubscribeToTopic subscribes device tokens to topic.
func (s *FCMSender) SubscribeToTopic(ctx context.Context, tokens []string, topic string) (TopicReceipt, error) {
	return s.manageTopic(ctx, "subscribe", s.client.SubscribeToTopic, tokens, topic)
}

// UnsubscribeFromTopic removes device tokens from topic.
func (s *FCMSender) UnsubscribeFromTopic(ctx context.Context, tokens []string, topic string) (TopicReceipt, error) {
	return s.manageTopic(ctx, "unsubscribe", s.client.UnsubscribeFromTopic, tokens, topic)
}

type topicFunc func(ctx context.Context, tokens []string, topic string) (*messaging.TopicManagementResponse, error)

func (s *FCMSender) manageTopic(ctx context.Context, op string, fn topicFunc, tokens []string, topic string) (TopicReceipt, error) {
	if err := validateTopicRequest(tokens, topic); err != nil {
		return TopicReceipt{}, err
	}

	resp, err := fn(ctx, tokens, topic)
	if err != nil {
		s.log.ErrorContext(ctx, "push topic "+op+" failed",
			logger.Topic(topic),
			logger.Recipients(len(tokens)),
			logger.Error(err))
		return TopicReceipt{}, errors.Join(ErrTopicManagement, err)
	}

	receipt := TopicReceipt{SuccessCount: resp.SuccessCount, FailureCount: resp.FailureCount}
	for _, e := range resp.Errors {
		if e == nil {
			continue
		}
		f := Failure{Reason: e.Reason}
		if e.Index >= 0 && e.Index < len(tokens) {
			f.Token = tokens[e.Index]
		}
		receipt.Failures = append(receipt.Failures, f)
	}

	s.log.InfoContext(ctx, "push topic "+op,
		logger.Topic(topic),
		slog.Int("success_count", receipt.SuccessCount),
		slog.Int("failure_count", receipt.FailureCount))
	return receipt, nil
}

// Ready always succeeds once the client is built.
func (s *FCMSender) Ready() error { return nil }

// Reason classifies an FCM error into a short label for logs and metrics.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case messaging.IsUnregistered(err):
		return "unregistered"
	case messaging.IsInvalidArgument(err):
		return "invalid_argument"
	case messaging.IsSenderIDMismatch(err):
		return "sender_id_mismatch"
	case messaging.IsQuotaExceeded(err):
		return "quota_exceeded"
	case messaging.IsUnavailable(err):
		return "unavailable"
	case messaging.IsThirdPartyAuthError(err):
		return "third_party_auth"
	case messaging.IsInternal(err):
		return "internal"
	default:
		return "unknown"
	}
}
