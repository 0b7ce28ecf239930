package slug

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	spaces  = regexp.MustCompile(`\s+`)
	invalid = regexp.MustCompile(`[^a-z0-9_-]+`)
	hyphens = regexp.MustCompile(`-{2,}`)
)

// Make turns a display name into a URL slug: "Node.js & Deno" -> "nodejs-deno".
func Make(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = spaces.ReplaceAllString(s, "-")
	s = invalid.ReplaceAllString(s, "")
	s = hyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-_")
}

// WithSuffix appends a short random suffix, used when the plain slug is taken.
func WithSuffix(s string) string {
	return s + "-" + uuid.New().String()[:8]
}
