package services

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	footnoteRegexp = regexp.MustCompile(`\[\s*\d+\s*\]`)
	disallowedRe   = regexp.MustCompile(`[^a-z0-9 \-]`)

	germanFolds = strings.NewReplacer(
		"–", "-", "—", "-",
		"ß", "ss",
		"ä", "ae", "ö", "oe", "ü", "ue",
		"Ä", "Ae", "Ö", "Oe", "Ü", "Ue",
	)
)

// StripFootnotes removes Wikipedia reference markers such as "[1]" or "[ 12 ]".
func StripFootnotes(s string) string {
	return footnoteRegexp.ReplaceAllString(s, "")
}

// NormalizeName folds a bridge name into a lookup key: German letters are
// transliterated, other diacritics dropped, and only [a-z0-9 -] survive.
//
//	"Mühlendammbrücke [3]" → "muehlendammbruecke"
//	"Straße des 17. Juni"  → "strasse des 17 juni"
func NormalizeName(s string) string {
	s = StripFootnotes(s)
	s = germanFolds.Replace(s)
	s = collapseSpaces(strings.ToLower(s))
	s = stripMarks(s)
	s = disallowedRe.ReplaceAllString(s, "")
	return collapseSpaces(s)
}

func stripMarks(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// collapseSpaces trims s and collapses internal whitespace to single spaces.
func collapseSpaces(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}
