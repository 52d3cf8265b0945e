package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/workoutmail/internal/message"
	"github.com/dmitrymomot/workoutmail/internal/workout"
	"github.com/dmitrymomot/workoutmail/pkg/formspree"
	"github.com/dmitrymomot/workoutmail/pkg/logger"
	"github.com/dmitrymomot/workoutmail/pkg/storage"
)

const (
	noExercises    = "No exercises recorded"
	notAvailable   = "N/A"
	unknownType    = "Unknown"
	attachmentsDir = "attachments"
)

// Submitter posts flat fields to a hosted form relay. *formspree.Client satisfies it.
type Submitter interface {
	Submit(ctx context.Context, fields []formspree.Field, files ...formspree.File) error
}

// RelayDispatcher forwards the submission as form fields. Images go to an
// image host and only their URL travels through the relay.
type RelayDispatcher struct {
	relay          Submitter
	images         storage.Storage
	logger         *slog.Logger
	rejectNonImage bool
	attachFiles    bool
}

// RelayOption configures a RelayDispatcher.
type RelayOption func(*RelayDispatcher)

// WithImageHost sets where image attachments are uploaded. Nil disables uploads.
func WithImageHost(s storage.Storage) RelayOption {
	return func(d *RelayDispatcher) { d.images = s }
}

// WithRejectNonImage fails dispatches carrying a non-image attachment.
func WithRejectNonImage(reject bool) RelayOption {
	return func(d *RelayDispatcher) { d.rejectNonImage = reject }
}

// WithAttachFiles sends non-image attachments as file parts.
func WithAttachFiles(attach bool) RelayOption {
	return func(d *RelayDispatcher) { d.attachFiles = attach }
}

// WithRelayLogger sets the logger for degraded uploads.
func WithRelayLogger(l *slog.Logger) RelayOption {
	return func(d *RelayDispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewRelay creates a relay dispatcher.
func NewRelay(relay Submitter, opts ...RelayOption) *RelayDispatcher {
	d := &RelayDispatcher{relay: relay, logger: logger.NewNope()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch implements Dispatcher.
func (d *RelayDispatcher) Dispatch(ctx context.Context, sub *workout.Submission, msg *message.Message) error {
	fields := []formspree.Field{
		{Name: "name", Value: sub.Name},
		{Name: "email", Value: sub.Email},
	}
	if sub.Weight != "" {
		fields = append(fields, formspree.Field{Name: "weight", Value: sub.Weight + " kg"})
	}
	fields = append(fields,
		formspree.Field{Name: "date", Value: sub.Date},
		formspree.Field{Name: "exercises", Value: Exercises(sub)},
		formspree.Field{Name: "_subject", Value: msg.Subject},
	)
	if sub.Email != "" {
		fields = append(fields, formspree.Field{Name: "_replyto", Value: sub.Email})
	}

	var files []formspree.File
	if a := sub.Attachment; a != nil {
		attached, file, err := d.attachment(ctx, sub.ID, a)
		if err != nil {
			return err
		}
		fields = append(fields, attached...)
		if file != nil {
			files = append(files, *file)
		}
	}

	if err := d.relay.Submit(ctx, fields, files...); err != nil {
		if len(files) > 0 && errors.Is(err, formspree.ErrFileUploadsNotPermitted) {
			return fmt.Errorf("%w: %w", ErrFileUploadsUnsupported, err)
		}
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return nil
}

// attachment returns the fields describing a, plus a file part when the
// attachment must travel through the relay itself.
func (d *RelayDispatcher) attachment(ctx context.Context, id string, a *workout.Attachment) ([]formspree.Field, *formspree.File, error) {
	if !storage.IsImageMIME(a.ContentType) {
		switch {
		case d.attachFiles:
			return nil, &formspree.File{
				Field:       "attachment",
				Filename:    a.Filename,
				ContentType: a.ContentType,
				Data:        a.Data,
			}, nil
		case d.rejectNonImage:
			return nil, nil, fmt.Errorf("%w: %s (%s)", ErrUnsupportedAttachment, a.Filename, typeOrUnknown(a.ContentType))
		}
		info := fmt.Sprintf("File attached: %s (%s, Type: %s)\nNote: Only images can be uploaded. Other file types will be listed in the email.",
			a.Filename, kilobytes(a.Size()), typeOrUnknown(a.ContentType))
		return []formspree.Field{{Name: "attachment_info", Value: info}}, nil, nil
	}

	if d.images == nil {
		info := fmt.Sprintf("Image attached: %s (%s)\nNote: Image hosting is disabled.", a.Filename, kilobytes(a.Size()))
		return []formspree.Field{{Name: "attachment_info", Value: info}}, nil, nil
	}

	prefix := attachmentsDir
	if id != "" {
		prefix += "/" + id
	}
	file, err := storage.PutBytes(ctx, d.images, a.Data,
		storage.WithPrefix(prefix),
		storage.WithFilename(a.Filename),
		storage.WithContentType(a.ContentType),
		storage.WithValidation(storage.ImageOnly()),
	)
	if err != nil {
		// The submission still goes out; the recipient sees why the image is missing.
		d.logger.WarnContext(ctx, "image upload failed",
			slog.String("filename", a.Filename),
			slog.Int("size", a.Size()),
			slog.Any("error", err),
		)
		info := fmt.Sprintf("Image upload failed: %s (%s). Error: %s", a.Filename, kilobytes(a.Size()), err)
		return []formspree.Field{{Name: "attachment_info", Value: info}}, nil, nil
	}

	return []formspree.Field{
		{Name: "attachment_url", Value: file.URL},
		{Name: "attachment_info", Value: fmt.Sprintf("Image uploaded: %s\nView image: %s", a.Filename, file.URL)},
	}, nil, nil
}

// Exercises flattens the exercise slots into the relay's single text field.
func Exercises(sub *workout.Submission) string {
	var b strings.Builder
	for _, ex := range sub.Exercises {
		if ex.NumSets == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%d. %s:\nNumber of Sets: %d\n", ex.Slot, ex.Name, ex.NumSets)
		for j, set := range ex.Sets {
			fmt.Fprintf(&b, "  Set %d: %s reps × %s kg\n", j+1, orNA(set.Reps), orNA(set.Weight))
		}
	}
	if b.Len() == 0 {
		return noExercises
	}
	return b.String()
}

func kilobytes(n int) string {
	return fmt.Sprintf("%.2f KB", float64(n)/1024)
}

func typeOrUnknown(ct string) string {
	if ct == "" {
		return unknownType
	}
	return ct
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}
