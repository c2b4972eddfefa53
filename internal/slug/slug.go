// Package slug encodes catalog entities into storefront URL fragments and decodes them back.
//
// Decoding never fails: malformed input yields a best-effort result tagged as Fallback.
package slug

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Letters that have no canonical decomposition and would be dropped by mark stripping
var transliterate = strings.NewReplacer(
	"đ", "d", "Đ", "D",
	"ø", "o", "Ø", "O",
	"ł", "l", "Ł", "L",
	"ß", "ss",
	"æ", "ae", "Æ", "AE",
	"œ", "oe", "Œ", "OE",
	"&", " and ",
)

// Transformers keep state, so a fresh chain is built for every call
func stripMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// Make converts free text into a lowercase ASCII slug.
// Diacritics are stripped and every run of other characters becomes a single hyphen.
func Make(text string) string {
	if text == "" {
		return ""
	}

	text = transliterate.Replace(text)
	if stripped, _, err := transform.String(stripMarks(), text); err == nil {
		text = stripped
	}
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))

	pending := false
	for _, r := range text {
		if r < utf8.RuneSelf && (r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}

	return b.String()
}

// WithID returns "{slug}-{id}"
func WithID(text string, id int64) string {
	return Make(text) + "-" + strconv.FormatInt(id, 10)
}

// HTML returns "{slug}-{id}.html"
func HTML(text string, id int64) string {
	return WithID(text, id) + htmlSuffix
}

// TitleCase turns a slug fragment back into display text: hyphens become spaces
// and the first letter of every word is upper-cased.
func TitleCase(fragment string) string {
	words := strings.Split(fragment, "-")
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if size == 0 {
			continue
		}
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
