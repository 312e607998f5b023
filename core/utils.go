package core

import (
	"strings"

	"github.com/gosimple/slug"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// Slugify folds free text into its canonical identifier form: lower-cased,
// punctuation and spacing collapsed to single dashes. Idempotent.
func Slugify(s string) string {
	return slug.Make(s)
}

// SplitList splits a comma-separated text column into trimmed elements,
// dropping empties.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	elems := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			elems = append(elems, p)
		}
	}
	return elems
}
