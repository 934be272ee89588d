package pipeline

import (
	"regexp"
	"strings"
)

const maxSlugLen = 80

var (
	slugDropPattern     = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpacePattern    = regexp.MustCompile(`\s+`)
	slugRepeatedHyphens = regexp.MustCompile(`-{2,}`)
)

// Slugify derives a URL-safe identifier from a title: lowercase, letters,
// digits, and hyphens only, capped at 80 characters. Total function — a
// title with no usable characters slugs to "".
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = slugDropPattern.ReplaceAllString(s, "")
	s = slugSpacePattern.ReplaceAllString(s, "-")
	s = slugRepeatedHyphens.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLen {
		s = strings.Trim(s[:maxSlugLen], "-")
	}
	return s
}
