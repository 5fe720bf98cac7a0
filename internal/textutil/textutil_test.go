package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeIdempotent(t *testing.T) {
	in := "Jan  de-Vries, Nr. 3 (Köln)"
	once := Normalize(in)
	twice := Normalize(once)
	assert.Equal(t, once, twice)
}

func TestNormalizeStripsDiacriticsAndPunctuation(t *testing.T) {
	assert.Equal(t, "koln", Normalize("Köln"))
	assert.Equal(t, "jan de vries", Normalize("Jan, de Vries!"))
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"jan", "de", "vries"}, Tokenize("jan de vries"))
}

func TestLastPart(t *testing.T) {
	assert.Equal(t, "vries", LastPart("jan de vries"))
	assert.Equal(t, "", LastPart("a b"))
	assert.Equal(t, "", LastPart(""))
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, Levenshtein("kat", "kat"))
	assert.Equal(t, 1, Levenshtein("kat", "kad"))
	assert.Equal(t, 3, Levenshtein("kitten", "sitting"))
}

func TestLevenshteinRatio(t *testing.T) {
	assert.Equal(t, 1.0, LevenshteinRatio("kat", "kat"))
	assert.Less(t, LevenshteinRatio("kat", "hond"), 1.0)
}
