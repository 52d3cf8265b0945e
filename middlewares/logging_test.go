package middlewares_test

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/workoutmail/internal/web"
	"github.com/dmitrymomot/workoutmail/middlewares"
)

func TestLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler web.HandlerFunc
		want    []string
	}{
		{
			name:    "success",
			handler: func(c web.Context) error { return c.NoContent(http.StatusOK) },
			want:    []string{"level=INFO", "status=200", "method=POST", "path=/api/submissions"},
		},
		{
			name: "http error before write",
			handler: func(c web.Context) error {
				return web.ErrMethodNotAllowed("Method not allowed")
			},
			want: []string{"level=INFO", "status=405"},
		},
		{
			name:    "plain error",
			handler: func(c web.Context) error { return errors.New("boom") },
			want:    []string{"level=ERROR", "status=500"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			ctx := newTestContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/submissions", nil))
			ctx.logger = slog.New(slog.NewTextHandler(&buf, nil))

			_ = middlewares.Logger()(tt.handler)(ctx)

			for _, want := range tt.want {
				require.Contains(t, buf.String(), want)
			}
		})
	}
}
