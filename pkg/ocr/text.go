package ocr

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CleanText folds compatibility forms (full-width digits, ligatures) to their
// plain equivalents, drops combining marks and turns control characters such as
// the newlines and form feeds Tesseract emits into spaces. Punctuation is kept
// because the NIK corrector and the date parser depend on it.
func CleanText(text string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, text)
	if err != nil {
		result = text
	}

	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, result)
}
