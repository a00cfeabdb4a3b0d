package extractor

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Clean normalises the text of one extracted word.
//
// Whitespace of any kind (newlines included) separates fields, non-printable
// runes are dropped from each field, empty fields are discarded and the rest
// are joined with a single space. The result is NFC-normalised. Clean is
// idempotent.
func Clean(text string) string {
	fields := strings.FieldsFunc(text, unicode.IsSpace)

	kept := fields[:0]
	for _, field := range fields {
		field = strings.Map(func(r rune) rune {
			if !unicode.IsPrint(r) {
				return -1
			}
			return r
		}, field)
		if field != "" {
			kept = append(kept, field)
		}
	}

	return norm.NFC.String(strings.Join(kept, " "))
}
