package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/workoutmail/internal/config"
	"github.com/dmitrymomot/workoutmail/internal/workout"
)

var previewFormat string

var previewCmd = &cobra.Command{
	Use:   "preview [key=value...]",
	Short: "Render a submission from form fields and print the email",
	Example: `  workoutmail preview name=Ali exercise1_sets=2 exercise1_set1_reps=10 exercise1_set1_weight=20
  workoutmail preview --format html name=Ali > preview.html`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().StringVar(&previewFormat, "format", "text", "output format: text or html")
}

func runPreview(cmd *cobra.Command, args []string) error {
	if previewFormat != "text" && previewFormat != "html" {
		return fmt.Errorf("unknown format %q (want text or html)", previewFormat)
	}

	fields, err := parseFields(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	loc, err := cfg.Form.Location()
	if err != nil {
		return err
	}

	renderer, err := newRenderer(cfg.Form)
	if err != nil {
		return err
	}

	sub := workout.Normalize(fields, workout.WithLocation(loc), workout.WithMaxSets(cfg.Form.SetLimit()))
	msg, err := renderer.Render(sub)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if previewFormat == "html" {
		_, err = fmt.Fprintln(out, msg.HTML)
		return err
	}
	_, err = fmt.Fprintf(out, "Subject: %s\n\n%s\n", msg.Subject, msg.Text)
	return err
}

func parseFields(args []string) (map[string]string, error) {
	fields := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid field %q (want key=value)", arg)
		}
		fields[key] = value
	}
	return fields, nil
}
