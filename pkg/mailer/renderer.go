package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sync"
	texttemplate "text/template"

	"github.com/yuin/goldmark"

	"github.com/dmitrymomot/workoutmail/pkg/sanitizer"
)

// Renderer turns a markdown template with YAML frontmatter into a subject,
// a plain-text body and an HTML body wrapped in a layout.
//
// Each template is parsed twice. The text variant binds the "md" template
// function to EscapeText, the HTML variant binds it to EscapeMarkdown, so
// values piped through md read the same in both bodies and stay on one line.
type Renderer struct {
	fs     fs.FS
	md     goldmark.Markdown
	config RendererConfig

	templates map[string]*cachedTemplate
	layouts   map[string]*template.Template

	mu sync.RWMutex
}

type cachedTemplate struct {
	metadata map[string]any
	subject  *texttemplate.Template // nil when the frontmatter has no Subject
	text     *texttemplate.Template
	markdown *texttemplate.Template
}

// RendererConfig configures template lookup.
type RendererConfig struct {
	Funcs           texttemplate.FuncMap // extra functions for templates and subjects
	TemplateDir     string               // default "."
	LayoutDir       string               // default "layouts"
	FallbackSubject string               // used when a template has no Subject
}

// RenderResult holds everything produced from one template execution.
type RenderResult struct {
	Metadata map[string]any
	Subject  string
	HTML     string
	Text     string
}

// NewRenderer creates a renderer with default directories.
func NewRenderer(fsys fs.FS) *Renderer {
	return NewRendererWithConfig(fsys, RendererConfig{})
}

// NewRendererWithConfig creates a renderer with custom directories and functions.
func NewRendererWithConfig(fsys fs.FS, cfg RendererConfig) *Renderer {
	if cfg.TemplateDir == "" {
		cfg.TemplateDir = "."
	}
	if cfg.LayoutDir == "" {
		cfg.LayoutDir = "layouts"
	}

	return &Renderer{
		fs:        fsys,
		md:        goldmark.New(),
		config:    cfg,
		templates: make(map[string]*cachedTemplate),
		layouts:   make(map[string]*template.Template),
	}
}

// Render executes templateName with data and wraps the HTML in layout.
func (r *Renderer) Render(layout, templateName string, data any) (*RenderResult, error) {
	cached, err := r.template(templateName)
	if err != nil {
		return nil, err
	}

	var text, markdown bytes.Buffer
	if err := cached.text.Execute(&text, data); err != nil {
		return nil, fmt.Errorf("%w: execute %s: %v", ErrRenderFailed, templateName, err)
	}
	if err := cached.markdown.Execute(&markdown, data); err != nil {
		return nil, fmt.Errorf("%w: execute %s: %v", ErrRenderFailed, templateName, err)
	}

	var fragment bytes.Buffer
	if err := r.md.Convert(markdown.Bytes(), &fragment); err != nil {
		return nil, fmt.Errorf("%w: convert markdown: %v", ErrRenderFailed, err)
	}

	subject := r.config.FallbackSubject
	if cached.subject != nil {
		var buf bytes.Buffer
		if err := cached.subject.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("%w: execute subject: %v", ErrRenderFailed, err)
		}
		subject = sanitizer.SingleLine(buf.String())
	}

	layoutTmpl, err := r.layout(layout)
	if err != nil {
		return nil, err
	}

	var html bytes.Buffer
	err = layoutTmpl.Execute(&html, map[string]any{
		"Content":  template.HTML(sanitizer.EmailHTML(fragment.String())), //nolint:gosec // sanitized
		"Subject":  subject,
		"Metadata": cached.metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: execute layout %s: %v", ErrRenderFailed, layout, err)
	}

	return &RenderResult{
		Metadata: cached.metadata,
		Subject:  subject,
		HTML:     html.String(),
		Text:     text.String(),
	}, nil
}

func (r *Renderer) funcs(escape func(string) string) texttemplate.FuncMap {
	fm := texttemplate.FuncMap{
		"md": escape,
		"default": func(def, v string) string {
			if v == "" {
				return def
			}
			return v
		},
	}
	for k, v := range r.config.Funcs {
		fm[k] = v
	}
	return fm
}

func (r *Renderer) template(name string) (*cachedTemplate, error) {
	r.mu.RLock()
	cached, ok := r.templates[name]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if cached, ok := r.templates[name]; ok {
		return cached, nil
	}

	content, err := fs.ReadFile(r.fs, path.Join(r.config.TemplateDir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateNotFound, name, err)
	}

	parsed, err := ParseTemplate(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, name, err)
	}

	cached = &cachedTemplate{metadata: parsed.Metadata}
	if cached.text, err = texttemplate.New(name).Funcs(r.funcs(EscapeText)).Parse(parsed.Body); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrRenderFailed, name, err)
	}
	if cached.markdown, err = texttemplate.New(name).Funcs(r.funcs(EscapeMarkdown)).Parse(parsed.Body); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrRenderFailed, name, err)
	}
	if subject, ok := parsed.Subject(); ok {
		if cached.subject, err = texttemplate.New(name + ":subject").Funcs(r.funcs(EscapeText)).Parse(subject); err != nil {
			return nil, fmt.Errorf("%w: parse subject of %s: %v", ErrRenderFailed, name, err)
		}
	}

	r.templates[name] = cached
	return cached, nil
}

func (r *Renderer) layout(name string) (*template.Template, error) {
	r.mu.RLock()
	cached, ok := r.layouts[name]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if cached, ok := r.layouts[name]; ok {
		return cached, nil
	}

	content, err := fs.ReadFile(r.fs, path.Join(r.config.LayoutDir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLayoutNotFound, name, err)
	}

	tmpl, err := template.New(name).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: parse layout %s: %v", ErrRenderFailed, name, err)
	}

	r.layouts[name] = tmpl
	return tmpl, nil
}
