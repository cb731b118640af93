package push

import "context"

// Disabled is the Sender used when Firebase is not configured.
type Disabled struct{}

func (Disabled) Send(context.Context, Message) (Receipt, error) {
	return Receipt{}, ErrNotConfigured
}

func (Disabled) SubscribeToTopic(context.Context, []string, string) (TopicReceipt, error) {
	return TopicReceipt{}, ErrNotConfigured
}

func (Disabled) UnsubscribeFromTopic(context.Context, []string, string) (TopicReceipt, error) {
	return TopicReceipt{}, ErrNotConfigured
}

func (Disabled) Ready() error { return ErrNotConfigured }
