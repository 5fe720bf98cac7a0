// Package textutil provides the normalisation, tokenisation and
// string-distance primitives shared by mention construction, clustering and
// feature extraction.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// diacriticStripper decomposes Latin text to NFD and drops combining marks,
// so "é"/"ë"/"ü" normalize to their plain-ASCII letters.
var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases s, strips diacritics, replaces every non-alphanumeric
// rune with a space, and collapses runs of whitespace to single spaces. It
// is idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(s string) string {
	stripped, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		stripped = s
	}
	stripped = strings.ToLower(stripped)

	var b strings.Builder
	b.Grow(len(stripped))
	prevSpace := false
	for _, r := range stripped {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			prevSpace = false
			continue
		}
		if !prevSpace {
			b.WriteByte(' ')
			prevSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

// Tokenize splits s on whitespace. s is expected to already be normalized,
// but Tokenize itself makes no assumption about case or punctuation.
func Tokenize(s string) []string {
	return strings.Fields(s)
}

// LastPart returns the last whitespace-delimited word of s whose length is
// at least 2 runes; "" if no such word exists.
func LastPart(s string) string {
	words := Tokenize(s)
	for i := len(words) - 1; i >= 0; i-- {
		if len([]rune(words[i])) >= 2 {
			return words[i]
		}
	}
	return ""
}

// FirstWord returns the first token of s, or "" if s is empty.
func FirstWord(s string) string {
	words := Tokenize(s)
	if len(words) == 0 {
		return ""
	}
	return words[0]
}
