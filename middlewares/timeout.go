package middlewares

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/workoutmail/internal/web"
)

// DefaultTimeout is the default request timeout.
const DefaultTimeout = 45 * time.Second

// Timeout returns middleware that puts a deadline on the request context.
// The handler runs on the calling goroutine; outbound calls that honor the
// context stop at the deadline. When the deadline passed and the handler
// failed without writing, the error becomes a TimeoutError unless it is
// already an HTTPError.
func Timeout(timeout time.Duration) web.Middleware {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(c web.Context) error {
			parent := c.Context()
			ctx, cancel := context.WithTimeout(parent, timeout)
			defer cancel()

			c.SetContext(ctx)
			err := next(c)
			c.SetContext(parent)

			if err == nil || c.Written() || web.AsHTTPError(err) != nil {
				return err
			}
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				c.LogWarn("request timeout", "timeout", timeout.String())
				return &TimeoutError{Duration: timeout, Err: err}
			}
			return err
		}
	}
}
