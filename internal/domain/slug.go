package domain

import (
	"regexp"
	"strings"
	"unicode"
)

var hyphenRuns = regexp.MustCompile(`-+`)

// Slugify turns a display name into a URL-friendly slug
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var builder strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			builder.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			builder.WriteRune('-')
		}
	}

	slug := hyphenRuns.ReplaceAllString(builder.String(), "-")
	return strings.Trim(slug, "-")
}
