// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings.
// Posts and categories derive their slugs through the same function so the
// two can never drift apart.
package slug

import (
	"strings"
	"unicode"
)

// Generate creates a URL-friendly slug from the given string: lowercase
// ASCII letters, digits, and single hyphens. Everything else is dropped.
// Example: "Health & Wellness" → "health-wellness"
func Generate(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	// pending is true while a separator run is open; the hyphen is only
	// written when another keepable character follows, which also trims
	// leading and trailing hyphens.
	pending := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			pending = true
		}
	}
	return b.String()
}
