package storage

import "fmt"

// FileValidationError describes why a file was refused before upload.
type FileValidationError struct {
	Details map[string]any
	Code    string
	Message string
}

func (e *FileValidationError) Error() string {
	return e.Message
}

const (
	ErrCodeFileTooLarge = "file_too_large"
	ErrCodeInvalidMIME  = "invalid_mime"
	ErrCodeEmptyFile    = "empty_file"
)

// ValidationRule checks a file before it is uploaded.
type ValidationRule interface {
	Validate(size int64, mimeType string) error
}

// ValidationFunc adapts a function to ValidationRule.
type ValidationFunc func(size int64, mimeType string) error

func (f ValidationFunc) Validate(size int64, mimeType string) error { return f(size, mimeType) }

// Validate returns the first failing rule's error.
func Validate(size int64, mimeType string, rules ...ValidationRule) error {
	for _, rule := range rules {
		if err := rule.Validate(size, mimeType); err != nil {
			return err
		}
	}
	return nil
}

// MaxSize rejects files larger than limit bytes.
func MaxSize(limit int64) ValidationRule {
	return ValidationFunc(func(size int64, _ string) error {
		if size <= limit {
			return nil
		}
		return &FileValidationError{
			Code:    ErrCodeFileTooLarge,
			Message: fmt.Sprintf("file size %d exceeds limit of %d bytes", size, limit),
			Details: map[string]any{"limit": limit, "got": size},
		}
	})
}

// NotEmpty rejects zero-length files.
func NotEmpty() ValidationRule {
	return ValidationFunc(func(size int64, _ string) error {
		if size > 0 {
			return nil
		}
		return &FileValidationError{Code: ErrCodeEmptyFile, Message: "file is empty", Details: map[string]any{}}
	})
}

// AllowedTypes accepts only media types matching patterns such as "image/*".
func AllowedTypes(patterns ...string) ValidationRule {
	return ValidationFunc(func(_ int64, mimeType string) error {
		if matchesMIME(mimeType, patterns) {
			return nil
		}
		return &FileValidationError{
			Code:    ErrCodeInvalidMIME,
			Message: fmt.Sprintf("file type %q is not allowed", mimeType),
			Details: map[string]any{"type": mimeType, "allowed": patterns},
		}
	})
}

// ImageOnly is AllowedTypes("image/*").
func ImageOnly() ValidationRule {
	return AllowedTypes("image/*")
}
