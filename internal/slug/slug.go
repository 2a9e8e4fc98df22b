// Copyright (c) 2026 Marquee Theater Collective <dev@marquee.nyc>
// All rights reserved. See LICENSE for details.

// Package slug derives URL- and object-key-safe names from titles and
// upload filenames: show names become page slugs, image filenames become
// the stem of their storage key.
package slug

import "strings"

// maxLen bounds generated slugs so storage keys built from long show
// titles stay manageable.
const maxLen = 64

// Generate lowercases s and reduces it to hyphen-separated runs of
// ASCII letters and digits. Anything else is either a separator (spaces,
// hyphens, underscores) or dropped.
// Example: "Improv Night! (Spring 2026)" → "improv-night-spring-2026"
func Generate(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pendingSep := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
		case r == ' ', r == '\t', r == '-', r == '_':
			pendingSep = true
		}
		if b.Len() > maxLen {
			break
		}
	}

	// Only ASCII is ever written, so byte slicing is safe.
	out := b.String()
	if len(out) > maxLen {
		out = out[:maxLen]
	}
	return strings.TrimRight(out, "-")
}
