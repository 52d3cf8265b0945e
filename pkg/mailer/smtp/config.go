package smtp

import "time"

// ImplicitTLSPort is the submission port that expects TLS from the first byte.
// Every other port starts in plain text and upgrades with STARTTLS when offered.
const ImplicitTLSPort = 465

// Config holds SMTP relay credentials. Parse it with caarlos0/env.
type Config struct {
	Host     string        `env:"SMTP_HOST"`
	Username string        `env:"SMTP_USER"`
	Password string        `env:"SMTP_PASS"`
	Port     int           `env:"SMTP_PORT" envDefault:"587"`
	Timeout  time.Duration `env:"SMTP_TIMEOUT" envDefault:"15s"`
}

// Missing lists the unset variables required to send mail.
func (c Config) Missing() []string {
	var missing []string
	if c.Host == "" {
		missing = append(missing, "SMTP_HOST")
	}
	if c.Username == "" {
		missing = append(missing, "SMTP_USER")
	}
	if c.Password == "" {
		missing = append(missing, "SMTP_PASS")
	}
	return missing
}

// ImplicitTLS reports whether the connection is secured before the SMTP greeting.
func (c Config) ImplicitTLS() bool {
	return c.Port == ImplicitTLSPort
}
