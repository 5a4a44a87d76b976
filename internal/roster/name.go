// Package roster holds the pure derivations behind the roster view: display
// names and avatar initials from emails, spots left, and the card shapes the
// surfaces render. Nothing here performs I/O.
package roster

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FormatName turns an email into a display name built from its local part.
// "jane.doe@example.com" becomes "Jane Doe". Segments are split on runs of
// '.', '_', '-' and whitespace, and only the first letter of each is changed.
//
// When the local part has no segments the raw local part is returned, and when
// the local part itself is empty the whole input is returned, so any non-empty
// input yields a non-empty name.
func FormatName(email string) string {
	local, _, _ := strings.Cut(email, "@")

	parts := strings.FieldsFunc(local, isNameSeparator)
	if len(parts) == 0 {
		if local == "" {
			return email
		}
		return local
	}

	upper := cases.Upper(language.Und)
	for i, p := range parts {
		first, size := utf8.DecodeRuneInString(p)
		parts[i] = upper.String(string(first)) + p[size:]
	}
	return strings.Join(parts, " ")
}

// Initials returns the avatar text for an email: the first letters of the
// first two name segments, or a single letter when the name has one segment.
// The result is upper-cased and never longer than two characters.
func Initials(email string) string {
	name := FormatName(email)

	var segs []string
	for _, s := range strings.Split(name, " ") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	if len(segs) >= 2 {
		return upperFirst(segs[0]) + upperFirst(segs[1])
	}
	if name != "" {
		return upperFirst(name)
	}
	return upperFirst(email)
}

func isNameSeparator(r rune) bool {
	return r == '.' || r == '_' || r == '-' || unicode.IsSpace(r)
}

// upperFirst upper-cases the first rune of s and keeps one rune of the result.
// Full case mapping can expand a rune ("ß" to "SS"), which would break the
// two-character limit on initials.
func upperFirst(s string) string {
	if s == "" {
		return ""
	}
	first, _ := utf8.DecodeRuneInString(s)
	mapped := cases.Upper(language.Und).String(string(first))
	r, _ := utf8.DecodeRuneInString(mapped)
	return string(r)
}
