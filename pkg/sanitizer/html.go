// Package sanitizer cleans untrusted strings before they reach an email.
package sanitizer

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	emailPolicy *bluemonday.Policy
	initOnce    sync.Once
)

func initPolicies() {
	initOnce.Do(func() {
		// Markdown output: headings, lists, emphasis, tables, links.
		emailPolicy = bluemonday.UGCPolicy()
		emailPolicy.RequireNoFollowOnLinks(true)
		emailPolicy.AddTargetBlankToFullyQualifiedLinks(true)
	})
}

// EmailHTML keeps the formatting markdown produces and removes scripts,
// event handlers, styles and javascript: URLs.
func EmailHTML(s string) string {
	initPolicies()
	return emailPolicy.Sanitize(s)
}
