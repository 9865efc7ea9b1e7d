package dict

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalizer transforms a term before lookup.
type Normalizer func(string) string

var (
	stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	dropSpaces   = runes.Remove(runes.In(unicode.White_Space))
)

// NormalizeLowercaseASCII lowercases and strips accents (e.g. FAÏENCE -> faience).
func NormalizeLowercaseASCII(s string) string {
	result, _, _ := transform.String(stripAccents, strings.ToLower(strings.TrimSpace(s)))
	return result
}

// NormalizeLowercaseUTF8 trims and lowercases but preserves accents.
func NormalizeLowercaseUTF8(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeCompact lowercases and removes every whitespace rune, including
// newlines embedded in spreadsheet headers ("% \nlacunaire" -> "%lacunaire").
func NormalizeCompact(s string) string {
	result, _, _ := transform.String(dropSpaces, strings.ToLower(s))
	return result
}

// NormalizeNone returns the term unchanged.
func NormalizeNone(s string) string {
	return s
}

// GetNormalizer returns the normalizer for the given mode.
// Default is lowercase_utf8: material names such as "grés" and "grès" are
// distinct entries in the source tables.
func GetNormalizer(mode string) Normalizer {
	switch mode {
	case "lowercase_ascii":
		return NormalizeLowercaseASCII
	case "lowercase_utf8":
		return NormalizeLowercaseUTF8
	case "compact":
		return NormalizeCompact
	case "none":
		return NormalizeNone
	default:
		return NormalizeLowercaseUTF8
	}
}
