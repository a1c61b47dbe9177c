// Package content renders user-submitted markdown and strips markup from
// plain-text fields.
package content

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

var (
	md = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
			gmhtml.WithXHTML(),
		),
	)
	ugc    = bluemonday.UGCPolicy()
	strict = bluemonday.StrictPolicy()
)

func init() {
	ugc.AddTargetBlankToFullyQualifiedLinks(true)
	ugc.RequireNoReferrerOnLinks(true)
	ugc.RequireNoFollowOnLinks(true)
}

// RenderMarkdown converts an idea description to sanitized HTML. On a
// conversion failure the escaped source is returned.
func RenderMarkdown(source string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return html.EscapeString(source)
	}
	return string(ugc.SanitizeBytes(buf.Bytes()))
}

// PlainText removes every tag from s and trims it. Entities are decoded so
// the stored value is the text the user typed.
func PlainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
