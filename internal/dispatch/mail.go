package dispatch

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/dmitrymomot/workoutmail/internal/message"
	"github.com/dmitrymomot/workoutmail/internal/workout"
	"github.com/dmitrymomot/workoutmail/pkg/mailer"
)

// EmailSender is satisfied by *mailer.Mailer.
type EmailSender interface {
	Send(ctx context.Context, email *mailer.Email) error
}

// MailDispatcher sends the rendered message as an email with the attachment inline.
type MailDispatcher struct {
	sender EmailSender
	ping   func(context.Context) error
	to     string
}

// MailOption configures a MailDispatcher.
type MailOption func(*MailDispatcher)

// WithPing sets the readiness probe for the underlying transport.
func WithPing(fn func(context.Context) error) MailOption {
	return func(d *MailDispatcher) { d.ping = fn }
}

// NewMail creates a dispatcher delivering to a single recipient.
func NewMail(sender EmailSender, to string, opts ...MailOption) *MailDispatcher {
	d := &MailDispatcher{sender: sender, to: to}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch implements Dispatcher.
func (d *MailDispatcher) Dispatch(ctx context.Context, sub *workout.Submission, msg *message.Message) error {
	email := &mailer.Email{
		To:      []string{d.to},
		Subject: msg.Subject,
		Text:    msg.Text,
		HTML:    msg.HTML,
		Tags:    map[string]string{"source": "workout-form"},
	}
	if sub.ID != "" {
		email.Headers = map[string]string{"X-Submission-ID": sub.ID}
	}
	// Reply goes to the athlete only when the address parses; a bad address must not block delivery.
	if addr, err := mail.ParseAddress(sub.Email); err == nil {
		email.ReplyTo = addr.Address
	}
	if a := sub.Attachment; a != nil {
		email.Attachments = []mailer.Attachment{{
			Filename:    a.Filename,
			ContentType: a.ContentType,
			Content:     a.Data,
		}}
	}

	if err := d.sender.Send(ctx, email); err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return nil
}

// Ping implements Pinger. Transports without a probe always report ready.
func (d *MailDispatcher) Ping(ctx context.Context) error {
	if d.ping == nil {
		return nil
	}
	return d.ping(ctx)
}
