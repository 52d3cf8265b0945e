package resend

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v3"

	"github.com/dmitrymomot/workoutmail/pkg/mailer"
)

// Sender delivers mail through the Resend API.
type Sender struct {
	client *resend.Client
}

// New creates a Resend sender.
func New(cfg Config) *Sender {
	return &Sender{client: resend.NewClient(cfg.APIKey)}
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	req := &resend.SendEmailRequest{
		From:        email.From,
		To:          email.To,
		Subject:     email.Subject,
		Html:        email.HTML,
		Text:        email.Text,
		ReplyTo:     email.ReplyTo,
		Headers:     email.Headers,
		Attachments: attachments(email.Attachments),
		Tags:        tags(email.Tags),
	}

	if _, err := s.client.Emails.SendWithContext(ctx, req); err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}

func attachments(in []mailer.Attachment) []*resend.Attachment {
	if len(in) == 0 {
		return nil
	}
	out := make([]*resend.Attachment, len(in))
	for i, a := range in {
		out[i] = &resend.Attachment{
			Filename:    a.Filename,
			Content:     a.Content,
			ContentType: a.ContentType,
		}
	}
	return out
}

func tags(in map[string]string) []resend.Tag {
	if len(in) == 0 {
		return nil
	}
	out := make([]resend.Tag, 0, len(in))
	for name, value := range in {
		out = append(out, resend.Tag{Name: name, Value: value})
	}
	return out
}
