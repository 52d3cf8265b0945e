package smtp

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/dmitrymomot/workoutmail/pkg/mailer"
)

// Sender delivers mail through an SMTP relay. A new connection is opened per message.
type Sender struct {
	config Config
}

// New creates an SMTP sender. Config is not validated here; see Config.Missing.
func New(cfg Config) *Sender {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Sender{config: cfg}
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	msg, err := buildMessage(email)
	if err != nil {
		return err
	}

	client, err := s.client()
	if err != nil {
		return err
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp: send via %s:%d: %w", s.config.Host, s.config.Port, err)
	}
	return nil
}

// Ping opens and closes a session, authenticating when credentials are set.
func (s *Sender) Ping(ctx context.Context) error {
	client, err := s.client()
	if err != nil {
		return err
	}
	if err := client.DialWithContext(ctx); err != nil {
		return fmt.Errorf("smtp: dial %s:%d: %w", s.config.Host, s.config.Port, err)
	}
	return client.Close()
}

func (s *Sender) client() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(s.config.Port),
		mail.WithTimeout(s.config.Timeout),
	}
	if s.config.ImplicitTLS() {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	if s.config.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.config.Username),
			mail.WithPassword(s.config.Password),
		)
	}

	client, err := mail.NewClient(s.config.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp: client: %w", err)
	}
	return client, nil
}

func buildMessage(email *mailer.Email) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(email.From); err != nil {
		return nil, fmt.Errorf("smtp: from %q: %w", email.From, err)
	}
	if err := msg.To(email.To...); err != nil {
		return nil, fmt.Errorf("smtp: to: %w", err)
	}
	if email.ReplyTo != "" {
		if err := msg.ReplyTo(email.ReplyTo); err != nil {
			return nil, fmt.Errorf("smtp: reply-to %q: %w", email.ReplyTo, err)
		}
	}
	for k, v := range email.Headers {
		msg.SetGenHeader(mail.Header(k), v)
	}
	msg.Subject(email.Subject)
	msg.SetDate()
	msg.SetMessageID()

	switch {
	case email.Text != "" && email.HTML != "":
		msg.SetBodyString(mail.TypeTextPlain, email.Text)
		msg.AddAlternativeString(mail.TypeTextHTML, email.HTML)
	case email.HTML != "":
		msg.SetBodyString(mail.TypeTextHTML, email.HTML)
	default:
		msg.SetBodyString(mail.TypeTextPlain, email.Text)
	}

	for _, a := range email.Attachments {
		var opts []mail.FileOption
		if a.ContentType != "" {
			opts = append(opts, mail.WithFileContentType(mail.ContentType(a.ContentType)))
		}
		if err := msg.AttachReader(a.Filename, bytes.NewReader(a.Content), opts...); err != nil {
			return nil, fmt.Errorf("smtp: attach %q: %w", a.Filename, err)
		}
	}
	return msg, nil
}
