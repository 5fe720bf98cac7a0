package linking

import (
	gocontext "context"
	"fmt"
	"path"
	"strings"

	"github.com/jlonij/dac/internal/clients"
	"github.com/jlonij/dac/internal/dictionary"
	"github.com/jlonij/dac/internal/textutil"
)

// Context is the per-request, request-scoped view of one article: its OCR
// text and recognised mentions, plus lazily-derived publication year,
// subject tags, normalised OCR and bag-of-words OCR (spec §3).
type Context struct {
	URL      string
	OCR      string
	Mentions []*Mention

	sru *clients.SRUClient

	publYear    int
	publYearSet bool

	subjects    []string
	subjectsSet bool

	ocrNorm    string
	ocrNormSet bool

	ocrBow    map[string]struct{}
	ocrBowSet bool
}

// NewContext fetches OCR and NER spans for url and builds the resulting
// Mentions. Only spans returned by the NER service become mentions; no
// caller-supplied mention text is added.
func NewContext(ctx gocontext.Context, url string, ocrClient *clients.OCRClient, nerClient *clients.NERClient, sru *clients.SRUClient) (*Context, error) {
	ocr, err := ocrClient.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("acquiring ocr: %w", err)
	}

	spans, err := nerClient.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("acquiring entities: %w", err)
	}

	c := &Context{URL: url, OCR: ocr, sru: sru}

	pos := 0
	for _, s := range spans {
		m := NewMention(s.Text, s.Tag, ocr, pos)
		if m.Start >= 0 {
			pos = m.Start
		}
		c.Mentions = append(c.Mentions, m)
	}
	return c, nil
}

// PublicationYear returns the article's publication year, fetched from the
// SRU metadata service on first access and cached thereafter. Returns
// (0, false) if it cannot be determined; callers degrade gracefully.
func (c *Context) PublicationYear(ctx gocontext.Context) (int, bool) {
	if c.publYearSet {
		return c.publYear, c.publYear != 0
	}
	c.publYearSet = true
	if c.sru == nil {
		return 0, false
	}
	id := uniqueKeyFromURL(c.URL)
	year, err := c.sru.PublicationYear(ctx, id)
	if err != nil {
		return 0, false
	}
	c.publYear = year
	return year, true
}

// uniqueKeyFromURL extracts the SRU uniqueKey from an article URL: the last
// path segment, which is how the KB's article identifiers are conventionally
// embedded in resolvable article URLs.
func uniqueKeyFromURL(articleURL string) string {
	return path.Base(strings.TrimRight(articleURL, "/"))
}

// NormalizedOCR returns the normalised OCR text, computed once.
func (c *Context) NormalizedOCR() string {
	if !c.ocrNormSet {
		c.ocrNorm = textutil.Normalize(c.OCR)
		c.ocrNormSet = true
	}
	return c.ocrNorm
}

// BagOfWords returns the set of distinct tokens in the normalised OCR,
// computed once.
func (c *Context) BagOfWords() map[string]struct{} {
	if !c.ocrBowSet {
		bow := make(map[string]struct{})
		for _, w := range textutil.Tokenize(c.NormalizedOCR()) {
			bow[w] = struct{}{}
		}
		c.ocrBow = bow
		c.ocrBowSet = true
	}
	return c.ocrBow
}

// Subjects returns the topical subject tags inferred from the article's
// bag-of-words against the subject vocabularies, computed once.
func (c *Context) Subjects() []string {
	if c.subjectsSet {
		return c.subjects
	}
	c.subjectsSet = true
	bow := c.BagOfWords()
	var found []string
	for _, name := range dictionary.SubjectNames() {
		for _, phrase := range dictionary.Subjects[name] {
			if phraseInBow(phrase, bow) {
				found = append(found, name)
				break
			}
		}
	}
	c.subjects = found
	return found
}

func phraseInBow(phrase string, bow map[string]struct{}) bool {
	words := strings.Fields(phrase)
	for _, w := range words {
		if _, ok := bow[w]; !ok {
			return false
		}
	}
	return true
}
