package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"
)

// DefaultImgBBEndpoint is the ImgBB upload API.
const DefaultImgBBEndpoint = "https://api.imgbb.com/1/upload"

// ImgBBConfig holds ImgBB credentials. Parse it with caarlos0/env.
type ImgBBConfig struct {
	APIKey   string `env:"IMGBB_API_KEY"`
	Endpoint string `env:"IMGBB_ENDPOINT" envDefault:"https://api.imgbb.com/1/upload"`
	// Expiration deletes the image after the given time; zero keeps it forever.
	Expiration time.Duration `env:"IMGBB_EXPIRATION"`
	Timeout    time.Duration `env:"IMGBB_TIMEOUT" envDefault:"30s"`
}

// ImgBB uploads images to imgbb.com. Only images are accepted by the host,
// so every upload is validated with ImageOnly.
type ImgBB struct {
	client *http.Client
	cfg    ImgBBConfig
}

// ImgBBOption configures an ImgBB uploader.
type ImgBBOption func(*ImgBB)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) ImgBBOption {
	return func(s *ImgBB) {
		if c != nil {
			s.client = c
		}
	}
}

// NewImgBB creates an ImgBB uploader.
func NewImgBB(cfg ImgBBConfig, opts ...ImgBBOption) (*ImgBB, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: missing IMGBB_API_KEY", ErrInvalidConfig)
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultImgBBEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	s := &ImgBB{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

type imgbbResponse struct {
	Data struct {
		ID    string `json:"id"`
		URL   string `json:"url"`
		Thumb struct {
			URL string `json:"url"`
		} `json:"thumb"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
	Success bool `json:"success"`
}

// Put implements Storage. ACL and key options do not apply to ImgBB.
func (s *ImgBB) Put(ctx context.Context, r io.Reader, size int64, opts ...Option) (*FileInfo, error) {
	o := newPutOptions(ACLPublicRead, opts...)

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read input: %v", ErrUploadFailed, err)
	}

	contentType := o.contentType
	if contentType == "" {
		contentType = DetectMIME(data)
	}
	rules := append([]ValidationRule{NotEmpty(), ImageOnly()}, o.rules...)
	if err := Validate(size, contentType, rules...); err != nil {
		return nil, err
	}

	body, formType, err := s.form(data, o.filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	req.Header.Set("Content-Type", formType)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	var out imgbbResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: imgbb: status %d: decode response: %v", ErrUploadFailed, resp.StatusCode, err)
	}

	if !out.Success || out.Data.URL == "" {
		msg := out.Error.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: imgbb: %s", ErrAccessDenied, msg)
		}
		return nil, fmt.Errorf("%w: imgbb: %s", ErrUploadFailed, msg)
	}

	return &FileInfo{
		Key:         out.Data.ID,
		URL:         out.Data.URL,
		ThumbURL:    out.Data.Thumb.URL,
		ContentType: contentType,
		ACL:         ACLPublicRead,
		Size:        size,
	}, nil
}

func (s *ImgBB) form(data []byte, filename string) (io.Reader, string, error) {
	if filename == "" {
		filename = "image" + ExtFromMIME(DetectMIME(data))
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("key", s.cfg.APIKey); err != nil {
		return nil, "", err
	}
	if s.cfg.Expiration > 0 {
		secs := strconv.Itoa(int(s.cfg.Expiration / time.Second))
		if err := w.WriteField("expiration", secs); err != nil {
			return nil, "", err
		}
	}
	part, err := w.CreateFormFile("image", filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

var _ Storage = (*ImgBB)(nil)
