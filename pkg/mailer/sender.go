package mailer

import "context"

// Sender delivers a prepared Email through a concrete provider.
type Sender interface {
	Send(ctx context.Context, email *Email) error
}

// SenderFunc adapts a plain function to Sender.
type SenderFunc func(ctx context.Context, email *Email) error

func (f SenderFunc) Send(ctx context.Context, email *Email) error { return f(ctx, email) }
