// Package content holds the pure helpers that derive article fields from
// user-submitted rich text: slugs, sanitized HTML, plain text, cover image
// and reading time.
package content

import (
	"fmt"

	"github.com/gosimple/slug"
)

// FallbackSlugBase is used when a title normalizes to nothing URL-safe.
const FallbackSlugBase = "article"

// Slugify normalizes a title into a lowercase hyphenated URL-safe token.
func Slugify(title string) string {
	s := slug.Make(title)
	if s == "" {
		return FallbackSlugBase
	}
	return s
}

// UniqueSlug derives a slug from title and appends -1, -2, ... until taken
// reports it free. The suffix space is unbounded, so the loop always
// terminates with a free slug; the only failure mode is a storage error from
// the taken callback.
func UniqueSlug(title string, taken func(slug string) (bool, error)) (string, error) {
	base := Slugify(title)
	candidate := base
	for i := 1; ; i++ {
		exists, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
