package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		size     int64
		mimeType string
		rules    []ValidationRule
		code     string
	}{
		{"passes", 10, "image/png", []ValidationRule{NotEmpty(), MaxSize(100), ImageOnly()}, ""},
		{"too large", 101, "image/png", []ValidationRule{MaxSize(100)}, ErrCodeFileTooLarge},
		{"empty", 0, "image/png", []ValidationRule{NotEmpty()}, ErrCodeEmptyFile},
		{"not image", 10, "application/pdf", []ValidationRule{ImageOnly()}, ErrCodeInvalidMIME},
		{"charset ignored", 10, "text/plain; charset=utf-8", []ValidationRule{AllowedTypes("text/plain")}, ""},
		{"bare wildcard", 10, "image/png", []ValidationRule{AllowedTypes("*")}, ErrCodeInvalidMIME},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Validate(tt.size, tt.mimeType, tt.rules...)
			if tt.code == "" {
				require.NoError(t, err)
				return
			}
			var verr *FileValidationError
			require.ErrorAs(t, err, &verr)
			require.Equal(t, tt.code, verr.Code)
		})
	}
}

func TestMIME(t *testing.T) {
	t.Parallel()

	require.Equal(t, "image/png", DetectMIME(pngBytes))
	require.Equal(t, MIMEOctetStream, DetectMIME(nil))
	require.True(t, IsImageMIME("IMAGE/JPEG"))
	require.False(t, IsImageMIME("application/pdf"))
	require.Equal(t, ".jpg", ExtFromMIME("image/jpeg; q=1"))
	require.Empty(t, ExtFromMIME("application/x-unknown"))
}
