package middlewares

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/workoutmail/internal/web"
)

// DefaultCORSMaxAge is the default preflight cache duration.
const DefaultCORSMaxAge = 12 * time.Hour

// DefaultCORSConfig lets any site post the workout form.
var DefaultCORSConfig = CORSConfig{
	AllowOrigins:  []string{"*"},
	AllowMethods:  []string{http.MethodPost, http.MethodOptions},
	AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Content-Transfer-Encoding", "X-Request-ID"},
	ExposeHeaders: []string{"X-Request-ID"},
	MaxAge:        DefaultCORSMaxAge,
}

// CORSConfig configures the CORS middleware.
//
// The form is posted without cookies, so credentials are never allowed and
// a "*" entry in AllowOrigins answers with a literal wildcard.
type CORSConfig struct {
	// AllowOrigins lists page origins that may post the form. Entries are
	// compared case-insensitively and without a trailing slash, so values
	// copied from a browser address bar work as configured.
	AllowOrigins  []string
	AllowMethods  []string
	AllowHeaders  []string
	ExposeHeaders []string
	MaxAge        time.Duration
}

// CORSOption configures CORSConfig.
type CORSOption func(*CORSConfig)

// WithAllowOrigins sets the allowed origins. Empty entries are ignored;
// an empty list falls back to the default.
func WithAllowOrigins(origins ...string) CORSOption {
	return func(cfg *CORSConfig) {
		list := make([]string, 0, len(origins))
		for _, o := range origins {
			if o = normalizeOrigin(o); o != "" {
				list = append(list, o)
			}
		}
		if len(list) > 0 {
			cfg.AllowOrigins = list
		}
	}
}

// WithAllowMethods sets the allowed HTTP methods.
func WithAllowMethods(methods ...string) CORSOption {
	return func(cfg *CORSConfig) {
		cfg.AllowMethods = methods
	}
}

// WithAllowHeaders sets the allowed request headers.
func WithAllowHeaders(headers ...string) CORSOption {
	return func(cfg *CORSConfig) {
		cfg.AllowHeaders = headers
	}
}

// WithExposeHeaders sets the response headers readable by page scripts.
func WithExposeHeaders(headers ...string) CORSOption {
	return func(cfg *CORSConfig) {
		cfg.ExposeHeaders = headers
	}
}

// WithMaxAge sets the preflight cache duration. Zero omits the header.
func WithMaxAge(duration time.Duration) CORSOption {
	return func(cfg *CORSConfig) {
		cfg.MaxAge = duration
	}
}

// CORS answers preflight requests for the submission endpoints and adds
// CORS headers to responses for allowed origins. Requests from other
// origins pass through untouched and are blocked by the browser.
func CORS(opts ...CORSOption) web.Middleware {
	cfg := DefaultCORSConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var (
		wildcard      = slices.Contains(cfg.AllowOrigins, "*")
		allowMethods  = strings.Join(cfg.AllowMethods, ", ")
		allowHeaders  = strings.Join(cfg.AllowHeaders, ", ")
		exposeHeaders = strings.Join(cfg.ExposeHeaders, ", ")
		maxAge        = strconv.Itoa(int(cfg.MaxAge.Seconds()))
	)

	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(c web.Context) error {
			origin := c.Header("Origin")
			if origin == "" {
				return next(c)
			}
			if !wildcard && !slices.Contains(cfg.AllowOrigins, normalizeOrigin(origin)) {
				return next(c)
			}

			h := c.Response().Header()
			h.Add("Vary", "Origin")
			if wildcard {
				h.Set("Access-Control-Allow-Origin", "*")
			} else {
				h.Set("Access-Control-Allow-Origin", origin)
			}
			if exposeHeaders != "" {
				h.Set("Access-Control-Expose-Headers", exposeHeaders)
			}

			if c.Request().Method != http.MethodOptions {
				return next(c)
			}

			h.Add("Vary", "Access-Control-Request-Method")
			h.Add("Vary", "Access-Control-Request-Headers")
			h.Set("Access-Control-Allow-Methods", allowMethods)
			h.Set("Access-Control-Allow-Headers", allowHeaders)
			if cfg.MaxAge > 0 {
				h.Set("Access-Control-Max-Age", maxAge)
			}
			return c.NoContent(http.StatusNoContent)
		}
	}
}

func normalizeOrigin(origin string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(origin), "/"))
}
