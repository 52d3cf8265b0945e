// Package config loads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // FORM_TIMEZONE must resolve in minimal containers

	"github.com/caarlos0/env/v11"

	"github.com/dmitrymomot/workoutmail/pkg/formspree"
	"github.com/dmitrymomot/workoutmail/pkg/logger"
	"github.com/dmitrymomot/workoutmail/pkg/mailer"
	"github.com/dmitrymomot/workoutmail/pkg/mailer/resend"
	"github.com/dmitrymomot/workoutmail/pkg/mailer/smtp"
	"github.com/dmitrymomot/workoutmail/pkg/storage"
)

// Transport names.
const (
	TransportSMTP   = "smtp"
	TransportResend = "resend"
	TransportRelay  = "relay"
)

// Relay image hosts.
const (
	ImageHostImgBB = "imgbb"
	ImageHostS3    = "s3"
	ImageHostNone  = "none"
)

// ErrInvalid is returned for values that can never work, as opposed to
// missing delivery credentials, which are reported by the dispatcher.
var ErrInvalid = errors.New("config: invalid value")

// Config is the whole service configuration.
type Config struct {
	Server ServerConfig
	Log    logger.Config
	Form   FormConfig

	Transport string `env:"MAIL_TRANSPORT" envDefault:"smtp"`
	// ToEmail receives every submission on the smtp and resend transports.
	ToEmail string `env:"TO_EMAIL"`

	Mail   mailer.Config
	SMTP   smtp.Config
	Resend resend.Config
	Relay  RelayConfig
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port            string        `env:"PORT" envDefault:"8888"`
	Host            string        `env:"HOST"`
	CORSOrigins     []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	// RequestTimeout bounds parsing plus dispatch of one submission.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"45s"`
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// FormConfig bounds and shapes incoming submissions.
type FormConfig struct {
	MaxFileSize int64  `env:"FORM_MAX_FILE_SIZE" envDefault:"10485760"`
	MaxFields   int    `env:"FORM_MAX_FIELDS" envDefault:"1000"`
	MaxSets     int    `env:"FORM_MAX_SETS"`
	Timezone    string `env:"FORM_TIMEZONE" envDefault:"UTC"`
	// TemplateDir replaces the built-in email templates when set.
	TemplateDir string `env:"MAIL_TEMPLATE_DIR"`
}

// SetLimit is the per-slot set cap. Unless MaxSets overrides it, it is half
// the part budget: any set count whose fields can all arrive is kept whole.
func (f FormConfig) SetLimit() int {
	if f.MaxSets > 0 {
		return f.MaxSets
	}
	return f.MaxFields / 2
}

// Location resolves Timezone.
func (f FormConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(f.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: FORM_TIMEZONE %q: %v", ErrInvalid, f.Timezone, err)
	}
	return loc, nil
}

// RelayConfig configures the hosted form relay transport.
type RelayConfig struct {
	Formspree formspree.Config

	ImageHost string `env:"RELAY_IMAGE_HOST" envDefault:"imgbb"`
	// RejectNonImage fails submissions whose attachment cannot be uploaded as an image.
	RejectNonImage bool `env:"RELAY_REJECT_NON_IMAGE" envDefault:"false"`
	// AttachFiles sends non-image attachments as file parts (paid relay plans only).
	AttachFiles bool `env:"RELAY_ATTACH_FILES" envDefault:"false"`

	ImgBB storage.ImgBBConfig
	S3    storage.Config
}

// Load parses the process environment.
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.Transport = strings.ToLower(strings.TrimSpace(c.Transport))
	switch c.Transport {
	case TransportSMTP, TransportResend, TransportRelay:
	default:
		return fmt.Errorf("%w: MAIL_TRANSPORT %q (want smtp, resend or relay)", ErrInvalid, c.Transport)
	}

	c.Relay.ImageHost = strings.ToLower(strings.TrimSpace(c.Relay.ImageHost))
	switch c.Relay.ImageHost {
	case ImageHostImgBB, ImageHostS3, ImageHostNone:
	default:
		return fmt.Errorf("%w: RELAY_IMAGE_HOST %q (want imgbb, s3 or none)", ErrInvalid, c.Relay.ImageHost)
	}

	if c.Form.MaxFileSize <= 0 {
		return fmt.Errorf("%w: FORM_MAX_FILE_SIZE must be positive", ErrInvalid)
	}
	if c.Form.MaxFields <= 0 {
		return fmt.Errorf("%w: FORM_MAX_FIELDS must be positive", ErrInvalid)
	}
	if c.Form.MaxSets < 0 {
		return fmt.Errorf("%w: FORM_MAX_SETS must not be negative", ErrInvalid)
	}
	if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		return fmt.Errorf("%w: SMTP_PORT %d", ErrInvalid, c.SMTP.Port)
	}
	if _, err := c.Form.Location(); err != nil {
		return err
	}
	return nil
}

// Missing lists the unset variables the selected transport needs to deliver.
func (c *Config) Missing() []string {
	var missing []string
	switch c.Transport {
	case TransportSMTP:
		missing = c.SMTP.Missing()
		if c.ToEmail == "" {
			missing = append(missing, "TO_EMAIL")
		}
	case TransportResend:
		if c.Resend.APIKey == "" {
			missing = append(missing, "RESEND_API_KEY")
		}
		if c.Resend.SenderEmail == "" {
			missing = append(missing, "RESEND_FROM_EMAIL")
		}
		if c.ToEmail == "" {
			missing = append(missing, "TO_EMAIL")
		}
	case TransportRelay:
		if c.Relay.Formspree.Endpoint == "" {
			missing = append(missing, "FORMSPREE_ENDPOINT")
		}
		switch c.Relay.ImageHost {
		case ImageHostImgBB:
			if c.Relay.ImgBB.APIKey == "" {
				missing = append(missing, "IMGBB_API_KEY")
			}
		case ImageHostS3:
			missing = append(missing, c.Relay.S3.Missing()...)
		}
	}
	return missing
}
