package middlewares

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/workoutmail/internal/web"
)

// Logger returns middleware that logs one line per request with method,
// path, status and duration. 5xx responses log at error level.
// Place it after RequestID so entries carry the request ID.
func Logger() web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(c web.Context) error {
			start := time.Now()
			err := next(c)

			status := http.StatusOK
			if rw, ok := c.Response().(*web.ResponseWriter); ok {
				status = rw.Status()
			}
			if err != nil && !c.Written() {
				status = http.StatusInternalServerError
				if httpErr := web.AsHTTPError(err); httpErr != nil {
					status = httpErr.Code
				}
			}

			attrs := []any{
				slog.String("method", c.Request().Method),
				slog.String("path", c.Request().URL.Path),
				slog.Int("status", status),
				slog.Duration("duration", time.Since(start)),
			}
			if status >= http.StatusInternalServerError {
				c.LogError("request completed", attrs...)
			} else {
				c.LogInfo("request completed", attrs...)
			}
			return err
		}
	}
}
