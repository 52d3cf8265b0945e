package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewImgBB(t *testing.T) {
	t.Parallel()

	_, err := NewImgBB(ImgBBConfig{})
	require.ErrorIs(t, err, ErrInvalidConfig)

	s, err := NewImgBB(ImgBBConfig{APIKey: "k"})
	require.NoError(t, err)
	require.Equal(t, DefaultImgBBEndpoint, s.cfg.Endpoint)
}

func TestImgBB_Put(t *testing.T) {
	t.Parallel()

	t.Run("uploads image", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseMultipartForm(1<<20))
			require.Equal(t, "secret", r.FormValue("key"))
			require.Equal(t, "600", r.FormValue("expiration"))

			f, fh, err := r.FormFile("image")
			require.NoError(t, err)
			defer f.Close()
			require.Equal(t, "progress.png", fh.Filename)
			data, _ := io.ReadAll(f)
			require.Equal(t, pngBytes, data)

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"data":{"id":"abc","url":"https://i.ibb.co/abc/progress.png","thumb":{"url":"https://i.ibb.co/abc/t.png"}},"success":true,"status":200}`))
		}))
		defer srv.Close()

		s, err := NewImgBB(ImgBBConfig{APIKey: "secret", Endpoint: srv.URL, Expiration: 10 * time.Minute})
		require.NoError(t, err)

		info, err := PutBytes(context.Background(), s, pngBytes, WithFilename("progress.png"))
		require.NoError(t, err)
		require.Equal(t, "abc", info.Key)
		require.Equal(t, "https://i.ibb.co/abc/progress.png", info.URL)
		require.Equal(t, "https://i.ibb.co/abc/t.png", info.ThumbURL)
		require.Equal(t, "image/png", info.ContentType)
	})

	t.Run("api error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"status_code":400,"error":{"message":"Invalid API v1 key.","code":100},"status_txt":"Bad Request"}`))
		}))
		defer srv.Close()

		s, err := NewImgBB(ImgBBConfig{APIKey: "bad", Endpoint: srv.URL})
		require.NoError(t, err)

		_, err = PutBytes(context.Background(), s, pngBytes)
		require.ErrorIs(t, err, ErrUploadFailed)
		require.ErrorContains(t, err, "Invalid API v1 key.")
	})

	t.Run("rejects non images without calling the api", func(t *testing.T) {
		t.Parallel()

		called := false
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
		defer srv.Close()

		s, err := NewImgBB(ImgBBConfig{APIKey: "k", Endpoint: srv.URL})
		require.NoError(t, err)

		_, err = PutBytes(context.Background(), s, []byte("%PDF-1.7 ..."), WithContentType("application/pdf"))
		var verr *FileValidationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, ErrCodeInvalidMIME, verr.Code)
		require.False(t, called)
	})
}
