package push

// Config holds Firebase credentials. Either the inline JSON or the file path
// enables the FCM sender; with neither set push delivery is disabled.
type Config struct {
	ServiceAccountJSON string `env:"FIREBASE_SERVICE_ACCOUNT_JSON"`
	ServiceAccountFile string `env:"FIREBASE_SERVICE_ACCOUNT_FILE"`
	ProjectID          string `env:"FIREBASE_PROJECT_ID"`
}

// Enabled reports whether any credential source is configured.
func (c Config) Enabled() bool {
	return c.ServiceAccountJSON != "" || c.ServiceAccountFile != ""
}
