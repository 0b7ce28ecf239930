package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strict = bluemonday.StrictPolicy()
	ugc    = bluemonday.UGCPolicy()
)

// PlainText strips markup and returns the trimmed text unescaped, ready to store.
// "Node.js &amp; Deno <b>x</b>" -> "Node.js & Deno x"
func PlainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// HTML keeps the user-content subset of HTML. The result is markup and must be rendered as such.
func HTML(s string) string {
	return ugc.Sanitize(s)
}
