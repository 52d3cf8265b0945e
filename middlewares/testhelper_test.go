package middlewares_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/workoutmail/internal/web"
)

type testContext struct {
	response *web.ResponseWriter
	request  *http.Request
	logger   *slog.Logger
}

func newTestContext(w http.ResponseWriter, r *http.Request) *testContext {
	return &testContext{
		response: web.NewResponseWriter(w),
		request:  r,
		logger:   slog.New(slog.DiscardHandler),
	}
}

func (c *testContext) Request() *http.Request         { return c.request }
func (c *testContext) Response() http.ResponseWriter  { return c.response }
func (c *testContext) Context() context.Context       { return c.request.Context() }
func (c *testContext) SetContext(ctx context.Context) { c.request = c.request.WithContext(ctx) }
func (c *testContext) Header(name string) string      { return c.request.Header.Get(name) }
func (c *testContext) SetHeader(name, value string)   { c.response.Header().Set(name, value) }

func (c *testContext) JSON(code int, v any) error {
	c.response.WriteHeader(code)
	return json.NewEncoder(c.response).Encode(v)
}

func (c *testContext) String(code int, s string) error {
	c.response.WriteHeader(code)
	_, err := c.response.Write([]byte(s))
	return err
}

func (c *testContext) NoContent(code int) error { c.response.WriteHeader(code); return nil }

func (c *testContext) Error(code int, message string, opts ...web.HTTPErrorOption) *web.HTTPError {
	return web.NewHTTPError(code, message, opts...)
}

func (c *testContext) Written() bool                     { return c.response.Written() }
func (c *testContext) Logger() *slog.Logger              { return c.logger }
func (c *testContext) LogDebug(msg string, attrs ...any) { c.logger.Debug(msg, attrs...) }
func (c *testContext) LogInfo(msg string, attrs ...any)  { c.logger.Info(msg, attrs...) }
func (c *testContext) LogWarn(msg string, attrs ...any)  { c.logger.Warn(msg, attrs...) }
func (c *testContext) LogError(msg string, attrs ...any) { c.logger.Error(msg, attrs...) }

func (c *testContext) Set(key, value any) {
	c.request = c.request.WithContext(context.WithValue(c.request.Context(), key, value))
}

func (c *testContext) Get(key any) any { return c.request.Context().Value(key) }

func (c *testContext) Deadline() (time.Time, bool) { return c.request.Context().Deadline() }
func (c *testContext) Done() <-chan struct{}       { return c.request.Context().Done() }
func (c *testContext) Err() error                  { return c.request.Context().Err() }
func (c *testContext) Value(key any) any           { return c.request.Context().Value(key) }
