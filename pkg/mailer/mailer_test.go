package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSender is a testify mock for Sender.
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, email *Email) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func validEmail() *Email {
	return &Email{
		To:      []string{"coach@example.com"},
		Subject: "Daily Workout Tracking - Ali - 2026-10-17",
		Text:    "body",
		HTML:    "<p>body</p>",
	}
}

func TestMailer_Send(t *testing.T) {
	t.Parallel()

	cfg := Config{FromName: "Workout Form", FromAddress: "bot@example.com"}

	t.Run("applies default sender", func(t *testing.T) {
		t.Parallel()

		sender := &MockSender{}
		sender.On("Send", mock.Anything, mock.MatchedBy(func(e *Email) bool {
			return e.From == `"Workout Form" <bot@example.com>`
		})).Return(nil)

		require.NoError(t, New(sender, cfg).Send(context.Background(), validEmail()))
		sender.AssertExpectations(t)
	})

	t.Run("keeps explicit sender", func(t *testing.T) {
		t.Parallel()

		sender := &MockSender{}
		sender.On("Send", mock.Anything, mock.MatchedBy(func(e *Email) bool {
			return e.From == "other@example.com"
		})).Return(nil)

		email := validEmail()
		email.From = "other@example.com"
		require.NoError(t, New(sender, cfg).Send(context.Background(), email))
		sender.AssertExpectations(t)
	})

	t.Run("wraps provider errors", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("connection reset")
		sender := &MockSender{}
		sender.On("Send", mock.Anything, mock.Anything).Return(boom)

		err := New(sender, cfg).Send(context.Background(), validEmail())
		require.ErrorIs(t, err, ErrSendFailed)
		require.ErrorIs(t, err, boom)
	})

	t.Run("validates before sending", func(t *testing.T) {
		t.Parallel()

		tests := map[string]struct {
			mutate func(*Email)
			want   error
		}{
			"no recipient": {func(e *Email) { e.To = nil }, ErrNoRecipient},
			"no subject":   {func(e *Email) { e.Subject = "" }, ErrNoSubject},
			"no body":      {func(e *Email) { e.Text, e.HTML = "", "" }, ErrNoContent},
			"unnamed attachment": {func(e *Email) {
				e.Attachments = []Attachment{{Content: []byte("x")}}
			}, ErrInvalidAttachment},
		}
		for name, tt := range tests {
			t.Run(name, func(t *testing.T) {
				t.Parallel()

				sender := &MockSender{}
				email := validEmail()
				tt.mutate(email)

				err := New(sender, cfg).Send(context.Background(), email)
				require.ErrorIs(t, err, tt.want)
				sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("no sender configured", func(t *testing.T) {
		t.Parallel()

		err := New(&MockSender{}, Config{}).Send(context.Background(), validEmail())
		require.ErrorIs(t, err, ErrNoSender)
	})
}
