package formspree

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := New(Config{})
	require.ErrorIs(t, err, ErrMissingEndpoint)
}

func TestClient_Submit(t *testing.T) {
	t.Parallel()

	t.Run("posts fields and files", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "application/json", r.Header.Get("Accept"))
			require.NoError(t, r.ParseMultipartForm(1<<20))
			require.Equal(t, "Ali", r.FormValue("name"))
			require.Equal(t, "80 kg", r.FormValue("weight"))

			f, fh, err := r.FormFile("attachment")
			require.NoError(t, err)
			defer f.Close()
			data, _ := io.ReadAll(f)
			require.Equal(t, "notes.txt", fh.Filename)
			require.Equal(t, "text/plain", fh.Header.Get("Content-Type"))
			require.Equal(t, "hello", string(data))

			_, _ = w.Write([]byte(`{"next":"/thanks","ok":true}`))
		}))
		defer srv.Close()

		c, err := New(Config{Endpoint: srv.URL})
		require.NoError(t, err)

		err = c.Submit(context.Background(),
			[]Field{{"name", "Ali"}, {"weight", "80 kg"}},
			File{Field: "attachment", Filename: "notes.txt", ContentType: "text/plain", Data: []byte("hello")},
		)
		require.NoError(t, err)
	})

	t.Run("field errors", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"error":"Validation errors","errors":[{"code":"TYPE_EMAIL","field":"email","message":"should be an email"}]}`))
		}))
		defer srv.Close()

		c, err := New(Config{Endpoint: srv.URL})
		require.NoError(t, err)

		err = c.Submit(context.Background(), []Field{{"email", "nope"}})
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
		require.Equal(t, []string{"TYPE_EMAIL"}, apiErr.Codes)
		require.Equal(t, "Validation errors; should be an email", apiErr.Message)
		require.NotErrorIs(t, err, ErrFileUploadsNotPermitted)
	})

	t.Run("file uploads refused", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"File Uploads Not Permitted"}`))
		}))
		defer srv.Close()

		c, err := New(Config{Endpoint: srv.URL})
		require.NoError(t, err)

		err = c.Submit(context.Background(), nil, File{Field: "attachment", Filename: "a.pdf", Data: []byte("x")})
		require.ErrorIs(t, err, ErrFileUploadsNotPermitted)
	})

	t.Run("non json error body", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("<html>bad gateway</html>"))
		}))
		defer srv.Close()

		c, err := New(Config{Endpoint: srv.URL})
		require.NoError(t, err)

		err = c.Submit(context.Background(), nil)
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, "Bad Gateway", apiErr.Message)
		require.Error(t, apiErr.Err)
		require.Contains(t, err.Error(), `decode body "<html>bad gateway</html>"`)
		require.NotErrorIs(t, err, ErrFileUploadsNotPermitted)
	})

	t.Run("empty error body", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		c, err := New(Config{Endpoint: srv.URL})
		require.NoError(t, err)

		err = c.Submit(context.Background(), nil)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, "Too Many Requests", apiErr.Message)
		require.NoError(t, apiErr.Err)
	})

	t.Run("truncated error body", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Length", "200")
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"error":"Validation`))
		}))
		defer srv.Close()

		c, err := New(Config{Endpoint: srv.URL})
		require.NoError(t, err)

		err = c.Submit(context.Background(), []Field{{"email", "nope"}})
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
		require.ErrorIs(t, err, io.ErrUnexpectedEOF)
		require.Contains(t, err.Error(), "read body")
	})
}
