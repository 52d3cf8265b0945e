// Package message renders a workout submission into an email subject and bodies.
package message

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/dmitrymomot/workoutmail/internal/workout"
	"github.com/dmitrymomot/workoutmail/pkg/mailer"
)

//go:embed templates
var embedded embed.FS

const (
	defaultLayout   = "base.html"
	defaultTemplate = "workout.md"
	fallbackSubject = "Daily Workout Tracking"
	notAvailable    = "N/A"
)

// Message is the transport-neutral rendering of one submission.
type Message struct {
	Subject        string
	Text           string
	HTML           string
	AttachmentName string
	AttachmentType string
}

// Renderer produces Messages. It is safe for concurrent use.
type Renderer struct {
	renderer *mailer.Renderer
	layout   string
	template string
}

// Option configures a Renderer.
type Option func(*config)

type config struct {
	fsys     fs.FS
	layout   string
	template string
}

// WithTemplates renders from fsys instead of the built-in templates.
// fsys must contain the template at its root and the layout under layouts/.
func WithTemplates(fsys fs.FS) Option {
	return func(c *config) {
		if fsys != nil {
			c.fsys = fsys
		}
	}
}

// WithTemplateNames overrides the template and layout file names.
func WithTemplateNames(template, layout string) Option {
	return func(c *config) {
		if template != "" {
			c.template = template
		}
		if layout != "" {
			c.layout = layout
		}
	}
}

// NewRenderer creates a Renderer backed by the embedded templates by default.
func NewRenderer(opts ...Option) (*Renderer, error) {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		return nil, fmt.Errorf("message: templates: %w", err)
	}

	c := &config{fsys: sub, layout: defaultLayout, template: defaultTemplate}
	for _, opt := range opts {
		opt(c)
	}

	return &Renderer{
		renderer: mailer.NewRendererWithConfig(c.fsys, mailer.RendererConfig{
			FallbackSubject: fallbackSubject,
		}),
		layout:   c.layout,
		template: c.template,
	}, nil
}

// Render builds the subject, plain-text body and HTML body for sub.
// Output depends only on sub.
func (r *Renderer) Render(sub *workout.Submission) (*Message, error) {
	res, err := r.renderer.Render(r.layout, r.template, newView(sub))
	if err != nil {
		return nil, err
	}

	msg := &Message{Subject: res.Subject, Text: res.Text, HTML: res.HTML}
	if sub.Attachment != nil {
		msg.AttachmentName = sub.Attachment.Filename
		msg.AttachmentType = sub.Attachment.ContentType
	}
	return msg, nil
}

type view struct {
	Name       string
	Email      string
	Weight     string
	Date       string
	Attachment string
	Exercises  []exerciseView
}

type exerciseView struct {
	Name    string
	Sets    []setView
	Slot    int
	NumSets int
}

type setView struct {
	Reps   string
	Weight string
	N      int
}

func newView(sub *workout.Submission) view {
	v := view{
		Name:      sub.Name,
		Email:     sub.Email,
		Weight:    sub.Weight,
		Date:      sub.Date,
		Exercises: make([]exerciseView, 0, len(sub.Exercises)),
	}
	if sub.Attachment != nil {
		v.Attachment = sub.Attachment.Filename
	}

	for _, ex := range sub.Exercises {
		ev := exerciseView{Slot: ex.Slot, Name: ex.Name, NumSets: ex.NumSets, Sets: make([]setView, len(ex.Sets))}
		for j, s := range ex.Sets {
			ev.Sets[j] = setView{N: j + 1, Reps: orNA(s.Reps), Weight: orNA(s.Weight)}
		}
		v.Exercises = append(v.Exercises, ev)
	}
	return v
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}
