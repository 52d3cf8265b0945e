package mailer

// Config holds sender defaults. Embed it in the app config for caarlos0/env.
type Config struct {
	FromName string `env:"MAIL_FROM_NAME" envDefault:"Workout Form"`
	// FromAddress is usually filled from the transport account (SMTP_USER, RESEND_FROM_EMAIL).
	FromAddress string `env:"MAIL_FROM_ADDRESS"`
}

// From returns the formatted default sender.
func (c Config) From() string {
	return Address(c.FromName, c.FromAddress)
}
