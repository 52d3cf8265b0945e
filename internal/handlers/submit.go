// Package handlers exposes the form submission endpoint.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/workoutmail/internal/config"
	"github.com/dmitrymomot/workoutmail/internal/dispatch"
	"github.com/dmitrymomot/workoutmail/internal/formdata"
	"github.com/dmitrymomot/workoutmail/internal/message"
	"github.com/dmitrymomot/workoutmail/internal/web"
	"github.com/dmitrymomot/workoutmail/internal/workout"
	"github.com/dmitrymomot/workoutmail/pkg/logger"
)

// Paths the form posts to. The first is what the hosted form was built against.
const (
	NetlifyPath     = "/.netlify/functions/send-email"
	SubmissionsPath = "/api/submissions"
)

// Client-facing messages.
const (
	msgSuccess          = "Email sent successfully"
	msgMethodNotAllowed = "Method not allowed"
	msgConfigMissing    = "Email configuration is missing. Please set up the required environment variables."
	msgUploadsRefused   = "File uploads are not supported by the form relay plan. Please remove the file and try again, or switch to the SMTP transport."
	prefixProcessing    = "Error processing data: "
	prefixSending       = "Error sending email: "
)

// Renderer turns a submission into a message. *message.Renderer satisfies it.
type Renderer interface {
	Render(sub *workout.Submission) (*message.Message, error)
}

// Response is the success body.
type Response struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// Submit handles workout form posts: parse, normalize, render, dispatch.
type Submit struct {
	renderer   Renderer
	dispatcher dispatch.Dispatcher
	location   *time.Location
	now        func() time.Time
	newID      func() string
	form       config.FormConfig
}

// SubmitOption configures Submit.
type SubmitOption func(*Submit)

// WithClock overrides the clock used for the default date.
func WithClock(now func() time.Time) SubmitOption {
	return func(h *Submit) {
		if now != nil {
			h.now = now
		}
	}
}

// WithIDGenerator overrides submission ID generation.
func WithIDGenerator(gen func() string) SubmitOption {
	return func(h *Submit) {
		if gen != nil {
			h.newID = gen
		}
	}
}

// NewSubmit creates the handler. It fails only on an unknown FORM_TIMEZONE.
func NewSubmit(renderer Renderer, dispatcher dispatch.Dispatcher, form config.FormConfig, opts ...SubmitOption) (*Submit, error) {
	loc, err := form.Location()
	if err != nil {
		return nil, err
	}

	h := &Submit{
		renderer:   renderer,
		dispatcher: dispatcher,
		location:   loc,
		now:        time.Now,
		newID:      newSubmissionID,
		form:       form,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Routes implements web.Handler.
func (h *Submit) Routes(r web.Router) {
	r.POST(NetlifyPath, h.submit)
	r.POST(SubmissionsPath, h.submit)
}

func (h *Submit) submit(c web.Context) error {
	req := c.Request()
	body := http.MaxBytesReader(c.Response(), req.Body, h.bodyLimit())

	form, err := formdata.Read(c, body, req.Header.Get("Content-Type"),
		formdata.WithBase64(isBase64(req)),
		formdata.WithMaxFileSize(h.form.MaxFileSize),
		formdata.WithMaxFields(h.form.MaxFields),
	)
	if err != nil {
		return processingError(err)
	}

	sub := workout.Normalize(form.Fields,
		workout.WithClock(h.now),
		workout.WithLocation(h.location),
		workout.WithMaxSets(h.form.SetLimit()),
	)
	sub.ID = h.newID()
	if f := form.File; f != nil {
		sub.Attachment = &workout.Attachment{
			Filename:    f.Filename,
			ContentType: f.ContentType,
			Data:        f.Data,
		}
	}
	c.Set(submissionIDKey{}, sub.ID)

	attrs := []any{
		slog.String("date", sub.Date),
		slog.Bool("has_sets", sub.HasSets()),
		slog.Int("attachment_size", sub.Attachment.Size()),
	}
	if form.IgnoredFiles > 0 {
		attrs = append(attrs, slog.Int("ignored_files", form.IgnoredFiles))
	}
	c.LogInfo("submission parsed", attrs...)

	msg, err := h.renderer.Render(sub)
	if err != nil {
		return web.ErrInternal(prefixSending+detail(err), web.WithError(err))
	}

	if err := h.dispatcher.Dispatch(c, sub, msg); err != nil {
		return dispatchError(err)
	}

	c.LogInfo("submission dispatched")
	return c.JSON(http.StatusOK, Response{Message: msgSuccess, Success: true})
}

// bodyLimit allows the file twice over for base64 and multipart overhead.
func (h *Submit) bodyLimit() int64 {
	maxFile := h.form.MaxFileSize
	if maxFile <= 0 {
		maxFile = formdata.DefaultMaxFileSize
	}
	return maxFile*2 + 2<<20
}

// MethodNotAllowed answers every non-POST request to a known path.
func MethodNotAllowed(c web.Context) error {
	return c.JSON(http.StatusMethodNotAllowed, map[string]string{"error": msgMethodNotAllowed})
}

func isBase64(r *http.Request) bool {
	return strings.EqualFold(strings.TrimSpace(r.Header.Get("Content-Transfer-Encoding")), "base64")
}

func processingError(err error) error {
	msg := detail(err)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		msg = fmt.Sprintf("request body exceeds %s", formdata.FormatSize(tooLarge.Limit))
	}
	return web.ErrInternal(prefixProcessing+msg, web.WithError(err))
}

func dispatchError(err error) error {
	switch {
	case errors.Is(err, dispatch.ErrConfigMissing):
		return web.ErrInternal(msgConfigMissing, web.WithError(err))
	case errors.Is(err, dispatch.ErrFileUploadsUnsupported):
		return web.ErrInternal(msgUploadsRefused, web.WithError(err))
	}
	return web.ErrInternal(prefixSending+detail(err), web.WithError(err))
}

// detail flattens joined errors onto one line.
func detail(err error) string {
	return strings.ReplaceAll(err.Error(), "\n", ": ")
}

func newSubmissionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

type submissionIDKey struct{}

// SubmissionID returns the ID assigned to the submission in ctx, or "".
func SubmissionID(ctx context.Context) string {
	if v, ok := ctx.Value(submissionIDKey{}).(string); ok {
		return v
	}
	return ""
}

// SubmissionIDExtractor adds "submission_id" to log entries once the
// request has been parsed.
func SubmissionIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if v := SubmissionID(ctx); v != "" {
			return slog.String("submission_id", v), true
		}
		return slog.Attr{}, false
	}
}
