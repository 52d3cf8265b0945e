// Package middlewares provides HTTP middleware for web applications.
//
// # Request ID
//
// RequestID assigns an ID to each request, reusing an upstream one from
// X-Request-ID or the Netlify request header when present and generating a
// UUID otherwise. Use RequestIDExtractor with logger.New so every entry
// logged with the request context carries request_id:
//
//	log, flush := logger.New(cfg.Log, middlewares.RequestIDExtractor())
//	app := web.New(
//	    web.WithLogger(log),
//	    web.WithMiddleware(middlewares.RequestID()),
//	)
//
// # Recover
//
// Recover catches panics and returns a 500 *web.HTTPError wrapping a
// *PanicError, so clients get the regular JSON error body.
//
// # CORS
//
// CORS answers preflight requests and decorates responses for browser clients:
//
//	middlewares.CORS(middlewares.WithAllowOrigins(cfg.Server.CORSOrigins...))
//
// # Timeout
//
// Timeout puts a deadline on the request context. A handler that fails after
// the deadline without writing a response gets its error wrapped in
// *TimeoutError.
//
// # Logger
//
// Logger writes one entry per request with method, path, status and duration.
package middlewares
