package email

import (
	"context"

	"github.com/dmitrymomot/notifier/pkg/validator"
)

// EmailSender represents an interface for sending emails.
type EmailSender interface {
	SendEmail(ctx context.Context, params SendEmailParams) (Receipt, error)
}

// Pinger is implemented by senders that can verify the relay is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SendEmailParams represents the parameters for sending an email.
type SendEmailParams struct {
	SendTo   string `json:"send_to"`
	Subject  string `json:"subject"`
	BodyHTML string `json:"body_html"`
	Tag      string `json:"tag,omitempty"`
}

// Validate checks that the message can be handed to a relay.
func (p SendEmailParams) Validate() error {
	return validator.Apply(
		validator.RequiredString("send_to", p.SendTo),
		validator.ValidEmail("send_to", p.SendTo),
		validator.RequiredString("subject", p.Subject),
		validator.MaxLenString("subject", p.Subject, 998),
		validator.RequiredString("body_html", p.BodyHTML),
	)
}

// Receipt is the relay acknowledgement of an accepted message.
type Receipt struct {
	MessageID string `json:"messageId"`
}

// New returns the Postmark client when it is configured and a DevSender otherwise.
func New(cfg Config) (EmailSender, error) {
	if cfg.Enabled() {
		client, err := NewPostmarkClient(cfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
	if err := validateSender(cfg); err != nil {
		return nil, err
	}
	return NewDevSender(cfg.DevDir), nil
}
