package smtp

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/workoutmail/pkg/mailer"
)

func TestBuildMessage(t *testing.T) {
	t.Parallel()

	email := &mailer.Email{
		From:    `"Workout Form" <bot@example.com>`,
		To:      []string{"coach@example.com"},
		ReplyTo: "ali@example.com",
		Subject: "Daily Workout Tracking - Ali - 2026-10-17",
		Text:    "Set 1: 10 reps x 20 kg",
		HTML:    "<p>Set 1: 10 reps x 20 kg</p>",
		Attachments: []mailer.Attachment{
			{Filename: "progress.png", ContentType: "image/png", Content: []byte("\x89PNG\r\n\x1a\n")},
		},
	}

	msg, err := buildMessage(email)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "From: \"Workout Form\" <bot@example.com>")
	require.Contains(t, out, "To: <coach@example.com>")
	require.Contains(t, out, "Reply-To: <ali@example.com>")
	require.Contains(t, out, "Subject: Daily Workout Tracking - Ali - 2026-10-17")
	require.Contains(t, out, "multipart/alternative")
	require.Contains(t, out, "text/plain")
	require.Contains(t, out, "text/html")
	require.Contains(t, out, `filename="progress.png"`)
	require.Contains(t, out, "Content-Type: image/png")
}

func TestBuildMessage_InvalidAddress(t *testing.T) {
	t.Parallel()

	_, err := buildMessage(&mailer.Email{From: "not an address", To: []string{"coach@example.com"}})
	require.Error(t, err)
}

func TestConfig(t *testing.T) {
	t.Parallel()

	require.ElementsMatch(t, []string{"SMTP_HOST", "SMTP_USER", "SMTP_PASS"}, Config{}.Missing())
	require.Empty(t, Config{Host: "smtp.example.com", Username: "u", Password: "p"}.Missing())

	require.True(t, Config{Port: 465}.ImplicitTLS())
	require.False(t, Config{Port: 587}.ImplicitTLS())
}

func TestPing_Unreachable(t *testing.T) {
	t.Parallel()

	s := New(Config{Host: "127.0.0.1", Port: 1, Timeout: time.Second})
	err := s.Ping(context.Background())
	require.Error(t, err)
	require.ErrorContains(t, err, "smtp: dial 127.0.0.1:1")
}
