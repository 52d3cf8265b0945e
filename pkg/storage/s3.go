package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// S3Storage uploads to S3-compatible object storage.
type S3Storage struct {
	client    *s3.Client
	presigner *s3.PresignClient
	cfg       Config
}

// NewS3 creates an S3 uploader with static credentials.
func NewS3(cfg Config) (*S3Storage, error) {
	cfg.applyDefaults()
	if missing := cfg.Missing(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidConfig, strings.Join(missing, ", "))
	}

	client := s3.New(s3.Options{}, func(o *s3.Options) {
		o.Region = cfg.Region
		o.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.PathStyle
		}
	})

	return &S3Storage{
		client:    client,
		presigner: s3.NewPresignClient(client),
		cfg:       cfg,
	}, nil
}

// Put uploads r and returns its key and download URL. Public objects get a
// plain URL; private ones a pre-signed link valid for Config.URLExpiry.
func (s *S3Storage) Put(ctx context.Context, r io.Reader, size int64, opts ...Option) (*FileInfo, error) {
	o := newPutOptions(s.cfg.DefaultACL, opts...)

	body, head, err := seekable(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read input: %v", ErrUploadFailed, err)
	}

	contentType := o.contentType
	if contentType == "" {
		contentType = DetectMIME(head)
	}

	if err := Validate(size, contentType, o.rules...); err != nil {
		return nil, err
	}

	key := o.key
	if key == "" {
		key = buildKey(o.prefix, contentType)
	}

	acl := types.ObjectCannedACLPrivate
	if o.acl == ACLPublicRead {
		acl = types.ObjectCannedACLPublicRead
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		ACL:           acl,
	}
	if o.filename != "" {
		input.ContentDisposition = aws.String(mime.FormatMediaType("inline", map[string]string{"filename": o.filename}))
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return nil, wrapS3Error(err, ErrUploadFailed)
	}

	link, err := s.url(ctx, key, o.acl)
	if err != nil {
		return nil, err
	}

	return &FileInfo{
		Key:         key,
		URL:         link,
		ContentType: contentType,
		ACL:         o.acl,
		Size:        size,
	}, nil
}

func (s *S3Storage) url(ctx context.Context, key string, acl ACL) (string, error) {
	if acl == ACLPublicRead {
		return s.publicURL(key), nil
	}

	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.cfg.URLExpiry))
	if err != nil {
		return "", wrapS3Error(err, ErrPresignFailed)
	}
	return req.URL, nil
}

func (s *S3Storage) publicURL(key string) string {
	if s.cfg.PublicURL != "" {
		return strings.TrimSuffix(s.cfg.PublicURL, "/") + "/" + key
	}
	if s.cfg.Endpoint != "" {
		endpoint := strings.TrimSuffix(s.cfg.Endpoint, "/")
		if s.cfg.PathStyle {
			return fmt.Sprintf("%s/%s/%s", endpoint, s.cfg.Bucket, key)
		}
		return fmt.Sprintf("%s/%s", endpoint, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}

// buildKey returns {prefix}/{uuidv7}{ext}.
func buildKey(prefix, contentType string) string {
	ext := ExtFromMIME(contentType)
	if ext == "" {
		ext = ".bin"
	}
	name := uuid.Must(uuid.NewV7()).String() + ext

	if prefix = sanitizePathSegment(prefix); prefix != "" {
		return prefix + "/" + name
	}
	return name
}

var unsafePathChars = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// sanitizePathSegment strips traversal and anything outside [A-Za-z0-9-_.].
func sanitizePathSegment(segment string) string {
	segment = strings.Trim(segment, " /\\")
	segment = strings.ReplaceAll(segment, "..", "")
	segment = unsafePathChars.ReplaceAllString(segment, "_")
	return url.PathEscape(segment)
}

// seekable returns a rewindable body (the SDK hashes the payload) and its first bytes.
func seekable(r io.Reader) (io.ReadSeeker, []byte, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		head := make([]byte, mimeDetectionBytes)
		n, err := io.ReadFull(rs, head)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			return nil, nil, err
		}
		if _, err := rs.Seek(0, io.SeekStart); err != nil {
			return nil, nil, err
		}
		return rs, head[:n], nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	return bytes.NewReader(data), data, nil
}

var _ Storage = (*S3Storage)(nil)
