// Package push delivers mobile push notifications through Firebase Cloud
// Messaging.
//
// A Message addresses exactly one target: a single registration token, a list
// of up to 500 tokens (sent as one multicast), or a topic. Sender
// implementations report how many devices accepted the message in a Receipt;
// a multicast that reaches no device is not an error at this level, callers
// decide what zero deliveries means.
//
// New returns the FCM sender when service account credentials are configured
// and a disabled sender otherwise. The disabled sender fails every call with
// ErrNotConfigured and reports the same error from Ready, which lets health
// checks show the push channel as degraded without failing start-up.
//
//	sender, err := push.New(ctx, cfg, push.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	receipt, err := sender.Send(ctx, push.Message{
//		Tokens: []string{tokenA, tokenB},
//		Title:  "Build finished",
//		Body:   "main is green",
//	})
package push
