package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/workoutmail/internal/config"
	"github.com/dmitrymomot/workoutmail/internal/dispatch"
	"github.com/dmitrymomot/workoutmail/pkg/health"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate configuration and probe the delivery transport",
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if _, err := newRenderer(cfg.Form); err != nil {
		return fmt.Errorf("templates: %w", err)
	}

	dispatcher, err := dispatch.New(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	p, ok := dispatcher.(dispatch.Pinger)
	if !ok {
		fmt.Fprintf(out, "%s: configured (no probe available)\n", cfg.Transport)
		return nil
	}

	checks := health.Checks{cfg.Transport: p.Ping}
	if err := health.Verify(cmd.Context(), checks, health.WithTimeout(15*time.Second)); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s: ok\n", cfg.Transport)
	return nil
}
