package mailer

import (
	"context"
	"errors"
)

// Mailer validates outgoing email, applies sender defaults and hands it to a Sender.
type Mailer struct {
	sender Sender
	config Config
}

// New creates a Mailer around the given provider.
func New(sender Sender, cfg Config) *Mailer {
	return &Mailer{sender: sender, config: cfg}
}

// Send delivers email. Provider failures are wrapped in ErrSendFailed;
// validation failures are returned as is.
func (m *Mailer) Send(ctx context.Context, email *Email) error {
	if email.From == "" {
		email.From = m.config.From()
	}
	if err := email.Validate(); err != nil {
		return err
	}

	if err := m.sender.Send(ctx, email); err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	return nil
}
