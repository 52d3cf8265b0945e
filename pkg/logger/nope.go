package logger

import "log/slog"

// NewNope returns a logger that drops everything. Handy as a default in tests.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
