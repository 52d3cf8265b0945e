package formspree

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"
)

// Config holds the relay form endpoint. Parse it with caarlos0/env.
type Config struct {
	// Endpoint is the full form URL, e.g. https://formspree.io/f/xyzabcd.
	Endpoint string        `env:"FORMSPREE_ENDPOINT"`
	Timeout  time.Duration `env:"FORMSPREE_TIMEOUT" envDefault:"30s"`
}

// Field is one submitted form value. Order is preserved on the wire.
type Field struct {
	Name  string
	Value string
}

// File is an optional file part.
type File struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// Client submits forms to a Formspree-compatible endpoint.
type Client struct {
	http     *http.Client
	endpoint string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// New creates a relay client.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, ErrMissingEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	c := &Client{endpoint: cfg.Endpoint, http: &http.Client{Timeout: cfg.Timeout}}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type response struct {
	Error  string `json:"error"`
	Errors []struct {
		Code    string `json:"code"`
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
	OK bool `json:"ok"`
}

// Submit posts fields (and files, when given) as multipart/form-data.
func (c *Client) Submit(ctx context.Context, fields []Field, files ...File) error {
	body, contentType, err := encode(fields, files)
	if err != nil {
		return fmt.Errorf("formspree: encode form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return fmt.Errorf("formspree: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("formspree: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil
	}

	var out response
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		err = fmt.Errorf("read body: %w", err)
	} else if len(bytes.TrimSpace(raw)) > 0 {
		if jerr := json.Unmarshal(raw, &out); jerr != nil {
			err = fmt.Errorf("decode body %q: %w", snippet(raw), jerr)
		}
	}
	apiErr := newAPIError(resp.StatusCode, &out)
	apiErr.Err = err
	return apiErr
}

const maxBodySize = 1 << 20

func snippet(raw []byte) string {
	const limit = 120
	s := strings.TrimSpace(string(raw))
	if len(s) > limit {
		s = s[:limit] + "..."
	}
	return s
}

func newAPIError(status int, out *response) *APIError {
	e := &APIError{Status: status, Message: out.Error}
	for _, fe := range out.Errors {
		e.Codes = append(e.Codes, fe.Code)
		if fe.Message != "" {
			if e.Message != "" {
				e.Message += "; "
			}
			e.Message += fe.Message
		}
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

func encode(fields []Field, files []File) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, "", err
		}
	}
	for _, f := range files {
		part, err := w.CreatePart(fileHeader(f))
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func fileHeader(f File) textproto.MIMEHeader {
	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	return textproto.MIMEHeader{
		"Content-Disposition": {fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(f.Field), quoteEscaper.Replace(f.Filename))},
		"Content-Type": {ct},
	}
}
