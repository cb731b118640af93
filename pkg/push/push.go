package push

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrymomot/notifier/pkg/validator"
)

// MaxMulticastTokens is the FCM limit for one multicast or topic batch.
const MaxMulticastTokens = 500

// Sender delivers push messages and manages topic subscriptions.
type Sender interface {
	Send(ctx context.Context, msg Message) (Receipt, error)
	SubscribeToTopic(ctx context.Context, tokens []string, topic string) (TopicReceipt, error)
	UnsubscribeFromTopic(ctx context.Context, tokens []string, topic string) (TopicReceipt, error)
	// Ready returns nil when the sender can deliver.
	Ready() error
}

// Message is a notification addressed to a token, a token list or a topic.
type Message struct {
	Token  string
	Tokens []string
	Topic  string
	Title  string
	Body   string
	Data   map[string]string
}

// Validate checks that exactly one target is set and the content is present.
func (m Message) Validate() error {
	return validator.Apply(
		validator.ExactlyOne("target", m.Token != "", len(m.Tokens) > 0, m.Topic != ""),
		validator.MaxLenSlice("tokens", m.Tokens, MaxMulticastTokens),
		validator.NoEmptyStrings("tokens", m.Tokens),
		validator.When(m.Topic != "", validator.ValidTopic("topic", m.Topic)),
		validator.RequiredString("title", m.Title),
		validator.RequiredString("body", m.Body),
	)
}

func validateTopicRequest(tokens []string, topic string) error {
	return validator.Apply(
		validator.RequiredSlice("tokens", tokens),
		validator.MaxLenSlice("tokens", tokens, MaxMulticastTokens),
		validator.NoEmptyStrings("tokens", tokens),
		validator.RequiredString("topic", topic),
		validator.ValidTopic("topic", topic),
	)
}

// Kind names the addressing mode of the message.
func (m Message) Kind() string {
	switch {
	case m.Topic != "":
		return "topic"
	case len(m.Tokens) > 0:
		return "multicast"
	default:
		return "device"
	}
}

// Receipt summarises a delivery attempt.
// MessageID is set for single-device and topic sends.
type Receipt struct {
	MessageID    string
	MessageIDs   []string
	SuccessCount int
	FailureCount int
	Failures     []Failure
}

// Failure is a rejected device within a multicast.
type Failure struct {
	Token  string `json:"token"`
	Reason string `json:"reason"`
}

// TopicReceipt summarises a subscribe or unsubscribe call.
type TopicReceipt struct {
	SuccessCount int       `json:"successCount"`
	FailureCount int       `json:"failureCount"`
	Failures     []Failure `json:"failures,omitempty"`
}

// StringifyData converts an arbitrary JSON object into the string map FCM
// accepts. Strings pass through, everything else is JSON encoded.
func StringifyData(data map[string]any) (map[string]string, error) {
	if len(data) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(data))
	for k, v := range data {
		switch val := v.(type) {
		case string:
			out[k] = val
		case nil:
			out[k] = ""
		default:
			raw, err := json.Marshal(val)
			if err != nil {
				return nil, fmt.Errorf("data field %q: %w", k, err)
			}
			out[k] = string(raw)
		}
	}
	return out, nil
}
