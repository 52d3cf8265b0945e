package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/workoutmail/internal/web"
	"github.com/dmitrymomot/workoutmail/middlewares"
)

func okHandler(c web.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestCORS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		opts       []middlewares.CORSOption
		method     string
		origin     string
		wantOrigin string
		wantStatus int
	}{
		{
			name:       "wildcard by default",
			method:     http.MethodPost,
			origin:     "https://gym.example.com",
			wantOrigin: "*",
			wantStatus: http.StatusOK,
		},
		{
			name:       "no origin header",
			method:     http.MethodPost,
			wantStatus: http.StatusOK,
		},
		{
			name:       "listed origin is echoed",
			opts:       []middlewares.CORSOption{middlewares.WithAllowOrigins("https://gym.example.com")},
			method:     http.MethodPost,
			origin:     "https://gym.example.com",
			wantOrigin: "https://gym.example.com",
			wantStatus: http.StatusOK,
		},
		{
			name:       "unlisted origin gets no headers",
			opts:       []middlewares.CORSOption{middlewares.WithAllowOrigins("https://gym.example.com")},
			method:     http.MethodPost,
			origin:     "https://evil.example.com",
			wantStatus: http.StatusOK,
		},
		{
			name:       "configured origin is normalized",
			opts:       []middlewares.CORSOption{middlewares.WithAllowOrigins(" https://Gym.Example.com/ ", "")},
			method:     http.MethodPost,
			origin:     "https://gym.example.com",
			wantOrigin: "https://gym.example.com",
			wantStatus: http.StatusOK,
		},
		{
			name:       "empty origin list keeps wildcard",
			opts:       []middlewares.CORSOption{middlewares.WithAllowOrigins("", " ")},
			method:     http.MethodPost,
			origin:     "https://gym.example.com",
			wantOrigin: "*",
			wantStatus: http.StatusOK,
		},
		{
			name:       "preflight short-circuits",
			method:     http.MethodOptions,
			origin:     "https://gym.example.com",
			wantOrigin: "*",
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(tt.method, "/.netlify/functions/send-email", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()

			require.NoError(t, middlewares.CORS(tt.opts...)(okHandler)(newTestContext(rec, req)))
			require.Equal(t, tt.wantStatus, rec.Code)
			require.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}

	t.Run("preflight headers", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "https://gym.example.com")
		rec := httptest.NewRecorder()

		mw := middlewares.CORS(
			middlewares.WithAllowMethods(http.MethodPost, http.MethodOptions),
			middlewares.WithAllowHeaders("Content-Type", "Content-Transfer-Encoding"),
			middlewares.WithExposeHeaders("X-Request-ID", "X-Submission-ID"),
			middlewares.WithMaxAge(time.Hour),
			middlewares.WithAllowOrigins("https://gym.example.com"),
		)
		require.NoError(t, mw(okHandler)(newTestContext(rec, req)))

		require.Equal(t, "POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
		require.Equal(t, "Content-Type, Content-Transfer-Encoding", rec.Header().Get("Access-Control-Allow-Headers"))
		require.Equal(t, "3600", rec.Header().Get("Access-Control-Max-Age"))
		require.Equal(t, "X-Request-ID, X-Submission-ID", rec.Header().Get("Access-Control-Expose-Headers"))
		require.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
		require.Equal(t, "https://gym.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}
