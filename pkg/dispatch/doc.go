// Package dispatch is the single entry point for sending notifications.
//
// Service accepts already-validated requests and forwards them to the mail
// adapter, the push adapter or the connection hub. Every delivery attempt is
// reported to a Recorder exactly once, as a success or a failure, which is
// how metrics observe the service without the adapters knowing about them.
//
// Mail and push calls block until the relay answers. Socket calls return as
// soon as the hub has queued the event for the current room members; there is
// no acknowledgement from clients.
//
//	svc := dispatch.New(mailer, pusher, h,
//		dispatch.WithLogger(log),
//		dispatch.WithRecorder(m),
//	)
//	receipt, err := svc.SendMail(ctx, dispatch.MailRequest{
//		To:       "user@example.com",
//		Subject:  "Welcome",
//		Template: "accountConfirmation",
//		Context:  map[string]any{"confirmation_link": link},
//	})
package dispatch
