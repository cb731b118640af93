// Package email delivers rendered HTML mail.
//
// Two EmailSender implementations are provided: a Postmark-backed client for
// real delivery and DevSender, which writes every message to disk as an HTML
// file plus a JSON metadata file so templates can be inspected locally.
//
// Both implementations validate SendEmailParams before doing any work and
// return a Receipt carrying the relay message id.
//
// Usage:
//
//	sender, err := email.NewPostmarkClient(cfg)
//	if err != nil {
//		return err
//	}
//	receipt, err := sender.SendEmail(ctx, email.SendEmailParams{
//		SendTo:   "user@example.com",
//		Subject:  "Confirm your account",
//		BodyHTML: html,
//		Tag:      "account-confirmation",
//	})
//
// Message rendering lives in the templates subpackage.
package email
