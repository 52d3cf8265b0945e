// Package logger builds the service's slog logger.
//
// Records go to stdout as JSON (or text) and, when SENTRY_DSN is configured,
// to Sentry as well. Context extractors attach request-scoped attributes such
// as the request ID to every record logged with a context:
//
//	log, flush := logger.New(cfg.Log, middlewares.RequestIDExtractor())
//	defer flush()
//	log.InfoContext(ctx, "email dispatched", slog.String("transport", "smtp"))
//
// A failing Sentry initialization is reported once and logging continues on stdout.
package logger
