// Package formdata reads a multipart/form-data body into text fields and at
// most one file.
package formdata

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"strings"

	"github.com/dmitrymomot/workoutmail/pkg/storage"
)

const (
	DefaultMaxFileSize  = 10 << 20
	DefaultMaxFieldSize = 1 << 20
	DefaultMaxFields    = 1000
)

// Form is the decoded body.
type Form struct {
	Fields map[string]string
	File   *File
	// IgnoredFiles counts file parts after the first one; they are read and dropped.
	IgnoredFiles int
}

// File is the retained file part.
type File struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

type options struct {
	maxFileSize  int64
	maxFieldSize int64
	maxFields    int
	base64       bool
}

// Option configures Read.
type Option func(*options)

// WithBase64 decodes the body from base64 before parsing.
func WithBase64(enabled bool) Option {
	return func(o *options) { o.base64 = enabled }
}

// WithMaxFileSize sets the per-file byte limit.
func WithMaxFileSize(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxFileSize = n
		}
	}
}

// WithMaxFieldSize sets the per-field byte limit.
func WithMaxFieldSize(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxFieldSize = n
		}
	}
}

// WithMaxFields limits the number of parts.
func WithMaxFields(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxFields = n
		}
	}
}

// Read consumes body, a multipart/form-data stream described by contentType.
//
// The first file part with a name and content is kept; later file parts are
// still size-checked, then discarded. A file over the limit fails the whole
// read with ErrFileTooLarge. Repeated text fields keep the last value.
// A file part without Content-Type gets one sniffed from its bytes.
func Read(ctx context.Context, body io.Reader, contentType string, opts ...Option) (*Form, error) {
	o := &options{
		maxFileSize:  DefaultMaxFileSize,
		maxFieldSize: DefaultMaxFieldSize,
		maxFields:    DefaultMaxFields,
	}
	for _, opt := range opts {
		opt(o)
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: content type: %v", ErrMalformed, err)
	}
	if mediaType != "multipart/form-data" {
		return nil, fmt.Errorf("%w: expected multipart/form-data, got %s", ErrMalformed, mediaType)
	}
	boundary := params["boundary"]
	if boundary == "" {
		return nil, fmt.Errorf("%w: missing boundary", ErrMalformed)
	}

	if o.base64 {
		body = base64.NewDecoder(base64.StdEncoding, body)
	}

	form := &Form{Fields: make(map[string]string)}
	mr := multipart.NewReader(body, boundary)

	for parts := 0; ; parts++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		if parts >= o.maxFields {
			part.Close()
			return nil, fmt.Errorf("%w: more than %d parts", ErrTooManyFields, o.maxFields)
		}

		if err := readPart(form, part, o); err != nil {
			part.Close()
			return nil, err
		}
		part.Close()
	}

	return form, nil
}

func readPart(form *Form, part *multipart.Part, o *options) error {
	name := part.FormName()
	filename := part.FileName()

	if filename == "" {
		value, err := readLimited(part, o.maxFieldSize)
		if err != nil {
			if errors.Is(err, errLimit) {
				return fmt.Errorf("%w: field %q exceeds %d bytes", ErrFieldTooLarge, name, o.maxFieldSize)
			}
			return fmt.Errorf("%w: field %q: %w", ErrMalformed, name, err)
		}
		if name != "" {
			form.Fields[name] = string(value)
		}
		return nil
	}

	data, err := readLimited(part, o.maxFileSize)
	if err != nil {
		if errors.Is(err, errLimit) {
			return fmt.Errorf("%w: %q exceeds the %s limit", ErrFileTooLarge, filename, FormatSize(o.maxFileSize))
		}
		return fmt.Errorf("%w: file %q: %w", ErrMalformed, filename, err)
	}
	if len(data) == 0 {
		return nil
	}

	if form.File != nil {
		form.IgnoredFiles++
		return nil
	}

	ct := strings.TrimSpace(part.Header.Get("Content-Type"))
	if ct == "" {
		ct = storage.DetectMIME(data)
	}
	form.File = &File{Field: name, Filename: filename, ContentType: ct, Data: data}
	return nil
}

var errLimit = errors.New("limit exceeded")

// readLimited reads at most limit bytes, failing with errLimit if more remain.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if n > limit {
		return nil, errLimit
	}
	return buf.Bytes(), nil
}

// FormatSize renders a byte count as "10 MiB", "512 KiB" or "12 bytes".
func FormatSize(n int64) string {
	switch {
	case n >= 1<<20 && n%(1<<20) == 0:
		return fmt.Sprintf("%d MiB", n>>20)
	case n >= 1<<10 && n%(1<<10) == 0:
		return fmt.Sprintf("%d KiB", n>>10)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}
