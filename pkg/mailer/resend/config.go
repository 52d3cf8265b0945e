package resend

// Config holds Resend credentials. Parse it with caarlos0/env.
type Config struct {
	APIKey      string `env:"RESEND_API_KEY"`
	SenderEmail string `env:"RESEND_FROM_EMAIL"`
}

// Configured reports whether both the key and the sender address are set.
func (c Config) Configured() bool {
	return c.APIKey != "" && c.SenderEmail != ""
}
