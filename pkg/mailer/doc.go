// Package mailer renders and delivers email.
//
// Rendering and delivery are separate. A Renderer turns a markdown template
// with YAML frontmatter into a subject, a plain-text body and an HTML body:
//
//	---
//	Subject: Daily Workout Tracking - {{default "Client" .Name}} - {{.Date}}
//	---
//	# Daily Workout Tracking Form
//
//	- **Name:** {{md .Name}}
//
// User-supplied values should go through the md function. In the plain-text
// body it only folds line breaks; in the HTML body it also escapes markdown so
// the value renders literally. The generated HTML is sanitized with bluemonday and placed
// into a html/template layout as {{.Content}}.
//
// A Mailer validates an Email, applies the default sender and passes it to a
// Sender. Providers live in subpackages: smtp (any SMTP relay) and resend
// (Resend HTTP API).
//
//	m := mailer.New(smtp.New(cfg.SMTP), mailer.Config{FromName: "Workout Form", FromAddress: cfg.SMTP.Username})
//	err := m.Send(ctx, &mailer.Email{To: []string{to}, Subject: res.Subject, HTML: res.HTML, Text: res.Text})
package mailer
