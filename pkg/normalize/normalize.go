// Package normalize canonicalizes the identifiers that three independently
// authored sheets use for the same geography, season or variable.
package normalize

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// geographyStripper removes the punctuation that varies between sheets.
var geographyStripper = strings.NewReplacer(".", "", "_", "", " ", "")

// Upper upper-cases s using full Unicode case mapping.
func Upper(s string) string {
	return cases.Upper(language.Und).String(s)
}

// Key trims surrounding whitespace and upper-cases s. Seasons, variables and
// map codes are compared in this form.
func Key(s string) string {
	return Upper(strings.TrimSpace(s))
}

// Geography returns the comparison form of a geography name:
// "BOSE.COM", "bose_com" and " Bose Com " all become "BOSECOM".
func Geography(s string) string {
	return geographyStripper.Replace(Key(s))
}

// String stringifies an arbitrary cell value so the normalizers stay total.
func String(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}
