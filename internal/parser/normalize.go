package parser

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/anyascii/go"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	reLineEndings    = regexp.MustCompile(`\r\n?`)
	reHorizontalRuns = regexp.MustCompile(`[ \t\f\v\x{00A0}\x{2007}\x{202F}]+`)
	reAnyWhitespace  = regexp.MustCompile(`\s+`)
)

// Normalize transliterates text to ASCII ("Mércado" -> "Mercado", "Straße" ->
// "Strasse") and collapses runs of horizontal whitespace to a single space.
// Line breaks are kept. Case is preserved so numeric tokens stay untouched.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	// transform.Chain keeps internal state, so it is built per call.
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, text)
	if err != nil {
		folded = text
	}
	// Letters without a decomposition ("ß", "Ø", "Ł") still need an ASCII form.
	folded = anyascii.Transliterate(folded)

	folded = reLineEndings.ReplaceAllString(folded, "\n")
	folded = reHorizontalRuns.ReplaceAllString(folded, " ")
	return strings.TrimSpace(folded)
}

// NormalizeLower is Normalize followed by lower-casing, for keyword matching.
func NormalizeLower(text string) string {
	return strings.ToLower(Normalize(text))
}

// foldLines turns every whitespace run, newlines included, into one space so
// context patterns can span line breaks.
func foldLines(text string) string {
	return reAnyWhitespace.ReplaceAllString(text, " ")
}

// stripSpaces removes whitespace inside a captured token.
func stripSpaces(token string) string {
	return strings.Join(strings.Fields(token), "")
}
