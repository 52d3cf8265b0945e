// Package dispatch delivers rendered submissions through the configured transport.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/workoutmail/internal/config"
	"github.com/dmitrymomot/workoutmail/internal/message"
	"github.com/dmitrymomot/workoutmail/internal/workout"
	"github.com/dmitrymomot/workoutmail/pkg/formspree"
	"github.com/dmitrymomot/workoutmail/pkg/logger"
	"github.com/dmitrymomot/workoutmail/pkg/mailer"
	"github.com/dmitrymomot/workoutmail/pkg/mailer/resend"
	"github.com/dmitrymomot/workoutmail/pkg/mailer/smtp"
	"github.com/dmitrymomot/workoutmail/pkg/storage"
)

// Dispatcher sends one submission. Implementations do not retry.
type Dispatcher interface {
	Dispatch(ctx context.Context, sub *workout.Submission, msg *message.Message) error
}

// Pinger is implemented by dispatchers that can probe their transport.
type Pinger interface {
	Ping(ctx context.Context) error
}

type options struct {
	logger *slog.Logger
}

// Option configures New.
type Option func(*options)

// WithLogger sets the logger used for degraded deliveries.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// New builds the dispatcher selected by cfg.Transport. When credentials are
// missing it returns an error wrapping ErrConfigMissing.
func New(cfg *config.Config, opts ...Option) (Dispatcher, error) {
	o := &options{logger: logger.NewNope()}
	for _, opt := range opts {
		opt(o)
	}

	if missing := cfg.Missing(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrConfigMissing, strings.Join(missing, ", "))
	}

	switch cfg.Transport {
	case config.TransportSMTP:
		mailCfg := cfg.Mail
		if mailCfg.FromAddress == "" {
			mailCfg.FromAddress = cfg.SMTP.Username
		}
		sender := smtp.New(cfg.SMTP)
		return NewMail(mailer.New(sender, mailCfg), cfg.ToEmail, WithPing(sender.Ping)), nil

	case config.TransportResend:
		mailCfg := cfg.Mail
		if mailCfg.FromAddress == "" {
			mailCfg.FromAddress = cfg.Resend.SenderEmail
		}
		return NewMail(mailer.New(resend.New(cfg.Resend), mailCfg), cfg.ToEmail), nil

	case config.TransportRelay:
		client, err := formspree.New(cfg.Relay.Formspree)
		if err != nil {
			return nil, err
		}
		images, err := newImageHost(cfg.Relay)
		if err != nil {
			return nil, err
		}
		return NewRelay(client,
			WithImageHost(images),
			WithRejectNonImage(cfg.Relay.RejectNonImage),
			WithAttachFiles(cfg.Relay.AttachFiles),
			WithRelayLogger(o.logger),
		), nil
	}

	return nil, fmt.Errorf("%w: unknown transport %q", config.ErrInvalid, cfg.Transport)
}

func newImageHost(cfg config.RelayConfig) (storage.Storage, error) {
	switch cfg.ImageHost {
	case config.ImageHostImgBB:
		s, err := storage.NewImgBB(cfg.ImgBB)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.ImageHostS3:
		s, err := storage.NewS3(cfg.S3)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, nil
}

// Unconfigured fails every dispatch with err. It lets the server start and
// answer requests while credentials are still missing.
func Unconfigured(err error) Dispatcher {
	if !errors.Is(err, ErrConfigMissing) {
		err = errors.Join(ErrConfigMissing, err)
	}
	return unconfigured{err: err}
}

type unconfigured struct{ err error }

func (u unconfigured) Dispatch(context.Context, *workout.Submission, *message.Message) error {
	return u.err
}

func (u unconfigured) Ping(context.Context) error {
	return u.err
}
