package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/workoutmail/internal/config"
	"github.com/dmitrymomot/workoutmail/internal/dispatch"
	"github.com/dmitrymomot/workoutmail/internal/handlers"
	"github.com/dmitrymomot/workoutmail/internal/message"
	"github.com/dmitrymomot/workoutmail/internal/web"
	"github.com/dmitrymomot/workoutmail/middlewares"
	"github.com/dmitrymomot/workoutmail/pkg/logger"
)

var strict bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&strict, "strict", false, "refuse to start when delivery credentials are missing")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, flush := logger.New(cfg.Log, middlewares.RequestIDExtractor(), handlers.SubmissionIDExtractor())
	defer flush()

	renderer, err := newRenderer(cfg.Form)
	if err != nil {
		return err
	}

	dispatcher, err := dispatch.New(cfg, dispatch.WithLogger(log))
	if err != nil {
		if strict || !errors.Is(err, dispatch.ErrConfigMissing) {
			return err
		}
		log.Warn("delivery not configured, submissions will fail until it is",
			slog.String("transport", cfg.Transport),
			slog.Any("error", err),
		)
		dispatcher = dispatch.Unconfigured(err)
	}

	submit, err := handlers.NewSubmit(renderer, dispatcher, cfg.Form)
	if err != nil {
		return err
	}

	var health []web.HealthOption
	if p, ok := dispatcher.(dispatch.Pinger); ok {
		health = append(health, web.WithReadinessCheck(cfg.Transport, p.Ping))
	}

	app := web.New(
		web.WithLogger(log),
		web.WithMiddleware(
			middlewares.RequestID(),
			middlewares.Logger(),
			middlewares.Recover(),
			middlewares.CORS(middlewares.WithAllowOrigins(cfg.Server.CORSOrigins...)),
			middlewares.Timeout(cfg.Server.RequestTimeout),
		),
		web.WithMethodNotAllowedHandler(handlers.MethodNotAllowed),
		web.WithHealthChecks(health...),
		web.WithHandlers(submit),
	)

	log.Info("delivery configured", slog.String("transport", cfg.Transport))

	return app.Run(cmd.Context(), cfg.Server.Addr(),
		web.ReadTimeout(cfg.Server.ReadTimeout),
		web.WriteTimeout(cfg.Server.WriteTimeout),
		web.ShutdownTimeout(cfg.Server.ShutdownTimeout),
		web.ShutdownHook(func(context.Context) error {
			flush()
			return nil
		}),
	)
}

func newRenderer(form config.FormConfig) (*message.Renderer, error) {
	var opts []message.Option
	if form.TemplateDir != "" {
		if _, err := os.Stat(form.TemplateDir); err != nil {
			return nil, fmt.Errorf("MAIL_TEMPLATE_DIR: %w", err)
		}
		opts = append(opts, message.WithTemplates(os.DirFS(form.TemplateDir)))
	}
	return message.NewRenderer(opts...)
}
