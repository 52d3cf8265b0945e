package storage

import (
	"bytes"
	"context"
	"io"
	"time"
)

// Storage uploads a file and reports where it can be fetched from.
type Storage interface {
	Put(ctx context.Context, r io.Reader, size int64, opts ...Option) (*FileInfo, error)
}

// FileInfo describes an uploaded file.
type FileInfo struct {
	Key         string
	URL         string // public or pre-signed download link
	ThumbURL    string // set by hosts that generate previews
	ContentType string
	ACL         ACL
	Size        int64
}

// ACL is the access level of an uploaded object.
type ACL string

const (
	ACLPrivate    ACL = "private"
	ACLPublicRead ACL = "public-read"
)

const (
	DefaultRegion    = "us-east-1"
	DefaultURLExpiry = 7 * 24 * time.Hour // longest SigV4 pre-signed lifetime
)

// Config holds S3-compatible storage settings. Parse it with caarlos0/env.
type Config struct {
	Bucket    string `env:"S3_BUCKET"`
	AccessKey string `env:"S3_ACCESS_KEY"`
	SecretKey string `env:"S3_SECRET_KEY"`
	// Endpoint is set for MinIO, R2 and other S3-compatible services.
	Endpoint string `env:"S3_ENDPOINT"`
	Region   string `env:"S3_REGION" envDefault:"us-east-1"`
	// PublicURL replaces the bucket URL in public links (CDN).
	PublicURL  string        `env:"S3_PUBLIC_URL"`
	DefaultACL ACL           `env:"S3_ACL" envDefault:"public-read"`
	URLExpiry  time.Duration `env:"S3_URL_EXPIRY" envDefault:"168h"`
	PathStyle  bool          `env:"S3_PATH_STYLE" envDefault:"false"`
}

func (c *Config) applyDefaults() {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.DefaultACL == "" {
		c.DefaultACL = ACLPrivate
	}
	if c.URLExpiry <= 0 || c.URLExpiry > DefaultURLExpiry {
		c.URLExpiry = DefaultURLExpiry
	}
}

// Missing lists the unset variables required to upload.
func (c Config) Missing() []string {
	var missing []string
	if c.Bucket == "" {
		missing = append(missing, "S3_BUCKET")
	}
	if c.AccessKey == "" {
		missing = append(missing, "S3_ACCESS_KEY")
	}
	if c.SecretKey == "" {
		missing = append(missing, "S3_SECRET_KEY")
	}
	return missing
}

// PutBytes uploads an in-memory file.
func PutBytes(ctx context.Context, s Storage, data []byte, opts ...Option) (*FileInfo, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	return s.Put(ctx, bytes.NewReader(data), int64(len(data)), opts...)
}
