package email

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/mrz1836/postmark"

	"github.com/dmitrymomot/notifier/pkg/validator"
)

// PostmarkAPI is the subset of *postmark.Client used by the sender.
type PostmarkAPI interface {
	SendEmail(ctx context.Context, email postmark.Email) (postmark.EmailResponse, error)
	GetCurrentServer(ctx context.Context) (postmark.Server, error)
}

// PostmarkOption configures the Postmark sender.
type PostmarkOption func(*PostmarkClient)

// WithPostmarkAPI replaces the HTTP client built from the configured tokens.
func WithPostmarkAPI(api PostmarkAPI) PostmarkOption {
	return func(c *PostmarkClient) {
		c.client = api
	}
}

// PostmarkClient sends mail through the Postmark transactional API.
type PostmarkClient struct {
	client PostmarkAPI
	config Config
	from   string
}

// NewPostmarkClient creates a Postmark-backed email sender.
func NewPostmarkClient(cfg Config, opts ...PostmarkOption) (*PostmarkClient, error) {
	if cfg.PostmarkServerToken == "" {
		return nil, fmt.Errorf("%w: PostmarkServerToken is required", ErrInvalidConfig)
	}
	if err := validateSender(cfg); err != nil {
		return nil, err
	}

	c := &PostmarkClient{
		client: postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken),
		config: cfg,
		from:   formatFrom(cfg),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// MustNewPostmarkClient creates a Postmark client that panics on invalid config.
func MustNewPostmarkClient(cfg Config, opts ...PostmarkOption) *PostmarkClient {
	client, err := NewPostmarkClient(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return client
}

// SendEmail implements EmailSender using Postmark's transactional API.
func (c *PostmarkClient) SendEmail(ctx context.Context, params SendEmailParams) (Receipt, error) {
	if err := params.Validate(); err != nil {
		return Receipt{}, err
	}

	msg := postmark.Email{
		From:       c.from,
		To:         params.SendTo,
		Subject:    params.Subject,
		Tag:        params.Tag,
		HTMLBody:   params.BodyHTML,
		TrackOpens: c.config.TrackOpens,
	}
	if c.config.TrackOpens {
		msg.TrackLinks = "HtmlOnly"
	}
	if c.config.SupportEmail != "" {
		msg.ReplyTo = c.config.SupportEmail
	}

	resp, err := c.client.SendEmail(ctx, msg)
	if err != nil {
		return Receipt{}, errors.Join(ErrFailedToSendEmail, err)
	}
	if resp.ErrorCode > 0 {
		return Receipt{}, errors.Join(
			ErrFailedToSendEmail,
			fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message),
		)
	}
	if resp.MessageID == "" {
		return Receipt{}, fmt.Errorf("%w: relay returned no message id", ErrFailedToSendEmail)
	}
	return Receipt{MessageID: resp.MessageID}, nil
}

// Ping verifies the server token against the Postmark API.
func (c *PostmarkClient) Ping(ctx context.Context) error {
	if _, err := c.client.GetCurrentServer(ctx); err != nil {
		return errors.Join(ErrRelayUnavailable, err)
	}
	return nil
}

func validateSender(cfg Config) error {
	err := validator.Apply(
		validator.RequiredString("SenderEmail", cfg.SenderEmail),
		validator.ValidEmail("SenderEmail", cfg.SenderEmail),
		validator.When(cfg.SupportEmail != "", validator.ValidEmail("SupportEmail", cfg.SupportEmail)),
	)
	if err != nil {
		return errors.Join(ErrInvalidConfig, err)
	}
	return nil
}

func formatFrom(cfg Config) string {
	if cfg.SenderName == "" {
		return cfg.SenderEmail
	}
	return (&mail.Address{Name: cfg.SenderName, Address: cfg.SenderEmail}).String()
}
