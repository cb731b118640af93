package email

// Config holds mail relay configuration.
// Postmark tokens are optional so development can run on DevSender.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL,required"`
	SenderName           string `env:"SENDER_NAME" envDefault:"Notifications"`
	SupportEmail         string `env:"SUPPORT_EMAIL"`
	DevDir               string `env:"EMAIL_DEV_DIR" envDefault:"./tmp/emails"`
	TrackOpens           bool   `env:"EMAIL_TRACK_OPENS" envDefault:"true"`
}

// Enabled reports whether the Postmark relay is configured.
func (c Config) Enabled() bool {
	return c.PostmarkServerToken != ""
}
