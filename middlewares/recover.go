package middlewares

import (
	"log/slog"
	"runtime"

	"github.com/dmitrymomot/workoutmail/internal/web"
)

// DefaultStackSize is the default maximum stack trace size in bytes.
const DefaultStackSize = 4096

// DefaultPanicMessage is the client-facing message for a recovered panic.
const DefaultPanicMessage = "Error processing data: unexpected internal failure"

// RecoverConfig configures the recover middleware.
type RecoverConfig struct {
	StackSize         int  // Max stack trace size (default: 4096)
	DisablePrintStack bool // Disable stack trace in logs
	Message           string
}

// RecoverOption configures RecoverConfig.
type RecoverOption func(*RecoverConfig)

// WithRecoverStackSize sets the maximum stack trace size.
func WithRecoverStackSize(size int) RecoverOption {
	return func(cfg *RecoverConfig) {
		if size > 0 {
			cfg.StackSize = size
		}
	}
}

// WithRecoverDisablePrintStack disables including stack trace in logs.
func WithRecoverDisablePrintStack() RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.DisablePrintStack = true
	}
}

// WithRecoverMessage replaces the message returned to the client.
func WithRecoverMessage(msg string) RecoverOption {
	return func(cfg *RecoverConfig) {
		if msg != "" {
			cfg.Message = msg
		}
	}
}

// Recover turns a panic in a handler into a 500 HTTPError wrapping a
// PanicError, so the client still gets the usual {"error": ...} body and the
// panic value stays reachable through AsPanicError.
func Recover(opts ...RecoverOption) web.Middleware {
	cfg := &RecoverConfig{
		StackSize: DefaultStackSize,
		Message:   DefaultPanicMessage,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(c web.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				pe := &PanicError{Value: r}
				attrs := []any{slog.Any("panic", r)}
				if !cfg.DisablePrintStack {
					buf := make([]byte, cfg.StackSize)
					pe.Stack = buf[:runtime.Stack(buf, false)]
					attrs = append(attrs, slog.String("stack", string(pe.Stack)))
				}
				c.LogError("panic recovered", attrs...)

				err = web.ErrInternal(cfg.Message, web.WithError(pe))
			}()

			return next(c)
		}
	}
}
