package formdata

import (
	"bytes"
	"context"
	"encoding/base64"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type filePart struct {
	field, name, contentType string
	data                     []byte
}

func buildBody(t *testing.T, fields [][2]string, files ...filePart) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range fields {
		require.NoError(t, w.WriteField(f[0], f[1]))
	}
	for _, f := range files {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.name+`"`)
		if f.contentType != "" {
			h.Set("Content-Type", f.contentType)
		}
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestRead(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("fields and file", func(t *testing.T) {
		t.Parallel()

		body, ct := buildBody(t,
			[][2]string{{"name", "Ali"}, {"exercise1_sets", "2"}, {"name", "Ali K."}},
			filePart{"attachment", "progress.jpg", "image/jpeg", []byte("\xff\xd8\xff\xe0jpeg")},
		)

		form, err := Read(ctx, body, ct)
		require.NoError(t, err)
		require.Equal(t, "Ali K.", form.Fields["name"])
		require.Equal(t, "2", form.Fields["exercise1_sets"])
		require.NotNil(t, form.File)
		require.Equal(t, "attachment", form.File.Field)
		require.Equal(t, "progress.jpg", form.File.Filename)
		require.Equal(t, "image/jpeg", form.File.ContentType)
		require.Equal(t, []byte("\xff\xd8\xff\xe0jpeg"), form.File.Data)
		require.Zero(t, form.IgnoredFiles)
	})

	t.Run("no file selected", func(t *testing.T) {
		t.Parallel()

		body, ct := buildBody(t, [][2]string{{"name", "Ali"}},
			filePart{"attachment", "", "application/octet-stream", nil},
			filePart{"attachment", "empty.txt", "text/plain", nil},
		)

		form, err := Read(ctx, body, ct)
		require.NoError(t, err)
		require.Nil(t, form.File)
	})

	t.Run("first file wins", func(t *testing.T) {
		t.Parallel()

		body, ct := buildBody(t, nil,
			filePart{"attachment", "a.txt", "text/plain", []byte("a")},
			filePart{"attachment", "b.txt", "text/plain", []byte("b")},
		)

		form, err := Read(ctx, body, ct)
		require.NoError(t, err)
		require.Equal(t, "a.txt", form.File.Filename)
		require.Equal(t, 1, form.IgnoredFiles)
	})

	t.Run("sniffs missing content type", func(t *testing.T) {
		t.Parallel()

		body, ct := buildBody(t, nil, filePart{"attachment", "scan", "", []byte("%PDF-1.7\n")})

		form, err := Read(ctx, body, ct)
		require.NoError(t, err)
		require.Equal(t, "application/pdf", form.File.ContentType)
	})

	t.Run("file at the limit", func(t *testing.T) {
		t.Parallel()

		body, ct := buildBody(t, nil, filePart{"attachment", "a.bin", "application/octet-stream", bytes.Repeat([]byte{1}, 1024)})

		form, err := Read(ctx, body, ct, WithMaxFileSize(1024))
		require.NoError(t, err)
		require.Len(t, form.File.Data, 1024)
	})

	t.Run("file over the limit", func(t *testing.T) {
		t.Parallel()

		body, ct := buildBody(t, nil, filePart{"attachment", "big.bin", "application/octet-stream", bytes.Repeat([]byte{1}, 11<<20)})

		_, err := Read(ctx, body, ct)
		require.ErrorIs(t, err, ErrFileTooLarge)
		require.ErrorContains(t, err, "10 MiB")
	})

	t.Run("ignored file over the limit still fails", func(t *testing.T) {
		t.Parallel()

		body, ct := buildBody(t, nil,
			filePart{"attachment", "a.txt", "text/plain", []byte("a")},
			filePart{"attachment", "b.bin", "application/octet-stream", bytes.Repeat([]byte{1}, 2048)},
		)

		_, err := Read(ctx, body, ct, WithMaxFileSize(1024))
		require.ErrorIs(t, err, ErrFileTooLarge)
	})

	t.Run("field over the limit", func(t *testing.T) {
		t.Parallel()

		body, ct := buildBody(t, [][2]string{{"name", strings.Repeat("x", 65)}})

		_, err := Read(ctx, body, ct, WithMaxFieldSize(64))
		require.ErrorIs(t, err, ErrFieldTooLarge)
	})

	t.Run("too many parts", func(t *testing.T) {
		t.Parallel()

		body, ct := buildBody(t, [][2]string{{"a", "1"}, {"b", "2"}, {"c", "3"}})

		_, err := Read(ctx, body, ct, WithMaxFields(2))
		require.ErrorIs(t, err, ErrTooManyFields)
	})

	t.Run("base64 body", func(t *testing.T) {
		t.Parallel()

		body, ct := buildBody(t, [][2]string{{"name", "علي"}})
		encoded := base64.StdEncoding.EncodeToString(body.Bytes())

		form, err := Read(ctx, strings.NewReader(encoded), ct, WithBase64(true))
		require.NoError(t, err)
		require.Equal(t, "علي", form.Fields["name"])
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()

		tests := map[string]struct {
			body, contentType string
		}{
			"not multipart":    {"name=Ali", "application/x-www-form-urlencoded"},
			"missing boundary": {"", "multipart/form-data"},
			"bad content type": {"", ";;;"},
			"truncated":        {"--xyz\r\nContent-Disposition: form-data; name=\"a\"\r\n\r\nvalue", "multipart/form-data; boundary=xyz"},
		}
		for name, tt := range tests {
			_, err := Read(ctx, strings.NewReader(tt.body), tt.contentType)
			require.ErrorIs(t, err, ErrMalformed, name)
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()

		body, ct := buildBody(t, [][2]string{{"name", "Ali"}})
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := Read(cctx, body, ct)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestFormatSize(t *testing.T) {
	t.Parallel()

	require.Equal(t, "10 MiB", FormatSize(10<<20))
	require.Equal(t, "512 KiB", FormatSize(512<<10))
	require.Equal(t, "1000 bytes", FormatSize(1000))
}
