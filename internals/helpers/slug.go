package helper

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	reSlug = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	reDash = regexp.MustCompile(`-+`)
)

// IsValidSlug reports whether s is a lower-case URL slug (a-z0-9, hyphen-separated).
func IsValidSlug(s string) bool {
	return reSlug.MatchString(s)
}

// Slugify normalizes free text into a slug:
// - lower-case
// - spaces & non-alnum become "-"
// - collapse repeated "-" and trim the ends
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	lastDash := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastDash = false
		} else if !lastDash {
			b.WriteRune('-')
			lastDash = true
		}
	}
	out := strings.Trim(b.String(), "-")
	return reDash.ReplaceAllString(out, "-")
}
