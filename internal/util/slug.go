package util

import (
	"fmt"
	"strings"
	"unicode"
)

// Slugify lowercases the title and replaces runs of non-alphanumerics
// with single hyphens.
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true // swallow leading separators
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteRune('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// UniqueSlug appends a numeric suffix until exists reports the slug free.
func UniqueSlug(base string, exists func(string) bool) string {
	slug := base
	for n := 1; exists(slug); n++ {
		slug = fmt.Sprintf("%s-%d", base, n)
	}
	return slug
}
