package web_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/workoutmail/internal/web"
)

type routes func(r web.Router)

func (f routes) Routes(r web.Router) { f(r) }

type ctxKey struct{}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestApp(t *testing.T) {
	t.Parallel()

	app := web.New(
		web.WithMiddleware(func(next web.HandlerFunc) web.HandlerFunc {
			return func(c web.Context) error {
				c.Set(ctxKey{}, "from-middleware")
				c.SetHeader("X-Test", "1")
				return next(c)
			}
		}),
		web.WithMethodNotAllowedHandler(func(c web.Context) error {
			return c.JSON(http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
		}),
		web.WithHealthChecks(
			web.WithReadinessCheck("ok", func(context.Context) error { return nil }),
		),
		web.WithHandlers(routes(func(r web.Router) {
			r.POST("/value", func(c web.Context) error {
				v, _ := c.Get(ctxKey{}).(string)
				return c.JSON(http.StatusOK, map[string]string{"value": v})
			})
			r.POST("/http-error", func(c web.Context) error {
				return c.Error(http.StatusBadRequest, "bad input", web.WithError(errors.New("detail")))
			})
			r.POST("/plain-error", func(c web.Context) error {
				return errors.New("secret detail")
			})
			r.POST("/written", func(c web.Context) error {
				_ = c.String(http.StatusAccepted, "done")
				return errors.New("ignored")
			})
		})),
	)

	t.Run("middleware values reach handler", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/value", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "1", rec.Header().Get("X-Test"))
		require.Equal(t, "from-middleware", decode(t, rec)["value"])
	})

	t.Run("http error keeps code and message", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/http-error", nil))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "bad input", decode(t, rec)["error"])
	})

	t.Run("plain error hides detail", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/plain-error", nil))

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.NotContains(t, rec.Body.String(), "secret detail")
	})

	t.Run("error after write is dropped", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/written", nil))

		require.Equal(t, http.StatusAccepted, rec.Code)
		require.Equal(t, "done", rec.Body.String())
	})

	t.Run("method not allowed", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/value", nil))

		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		require.Equal(t, "Method not allowed", decode(t, rec)["error"])
	})

	t.Run("health endpoints", func(t *testing.T) {
		t.Parallel()

		for _, path := range []string{"/health/live", "/health/ready"} {
			rec := httptest.NewRecorder()
			app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			require.Equal(t, http.StatusOK, rec.Code, path)
		}
	})
}

func TestAppCustomHandlers(t *testing.T) {
	t.Parallel()

	app := web.New(
		web.WithErrorHandler(func(c web.Context, err error) error {
			return c.String(http.StatusTeapot, "custom: "+err.Error())
		}),
		web.WithNotFoundHandler(func(c web.Context) error {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
		}),
		web.WithHealthChecks(
			web.WithLivenessPath("/livez"),
			web.WithReadinessPath("/readyz"),
		),
		web.WithHandlers(routes(func(r web.Router) {
			r.Route("/api", func(r web.Router) {
				r.POST("/fail", func(c web.Context) error {
					return web.ErrBadRequest("bad")
				})
			})
			r.Mount("/static", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			}))
		})),
	)

	tests := []struct {
		name   string
		method string
		path   string
		code   int
	}{
		{name: "error handler", method: http.MethodPost, path: "/api/fail", code: http.StatusTeapot},
		{name: "not found handler", method: http.MethodGet, path: "/missing", code: http.StatusNotFound},
		{name: "mounted handler", method: http.MethodGet, path: "/static/x", code: http.StatusNoContent},
		{name: "liveness path", method: http.MethodGet, path: "/livez", code: http.StatusOK},
		{name: "readiness path", method: http.MethodGet, path: "/readyz", code: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			app.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			require.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestAsHTTPError(t *testing.T) {
	t.Parallel()

	inner := web.ErrInternal("Error sending email", web.WithError(errors.New("smtp down")))
	wrapped := errors.Join(errors.New("context"), inner)

	got := web.AsHTTPError(wrapped)
	require.NotNil(t, got)
	require.Equal(t, http.StatusInternalServerError, got.StatusCode())
	require.EqualError(t, got.Unwrap(), "smtp down")
	require.Nil(t, web.AsHTTPError(errors.New("plain")))
	require.Nil(t, web.AsHTTPError(nil))
}

func TestResponseWriter(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	rw := web.NewResponseWriter(rec)
	require.False(t, rw.Written())

	_, err := rw.Write([]byte("hello"))
	require.NoError(t, err)
	rw.WriteHeader(http.StatusTeapot)

	require.True(t, rw.Written())
	require.Equal(t, http.StatusOK, rw.Status())
	require.Equal(t, int64(5), rw.Size())
	require.Equal(t, http.StatusOK, rec.Code)
}
