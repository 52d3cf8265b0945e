package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config controls the stdout handler and the optional Sentry sink.
// Parse it with caarlos0/env.
type Config struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
	Sentry SentryConfig
}

// New builds the process logger. The returned flush function must be called
// before exit; it is a no-op when Sentry is disabled.
func New(cfg Config, extractors ...ContextExtractor) (*slog.Logger, func()) {
	return newLogger(os.Stdout, cfg, extractors...)
}

func newLogger(w io.Writer, cfg Config, extractors ...ContextExtractor) (*slog.Logger, func()) {
	level := ParseLevel(cfg.Level)
	base := newStdHandler(w, cfg.Format, level)

	sink, flush, err := newSentryHandler(cfg.Sentry)
	if err != nil {
		slog.New(base).Error("sentry disabled", slog.String("error", err.Error()))
	}

	var h slog.Handler = base
	if sink != nil {
		h = fanout{base, sink}
	}
	return slog.New(WithExtractors(h, extractors...)), flush
}

func newStdHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(format, "text") {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

// ParseLevel maps debug/info/warn/error to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return l
}
