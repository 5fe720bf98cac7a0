// Package linking implements the entity-linking pipeline: mention
// construction, cluster building, candidate retrieval, feature extraction,
// classification and the cluster-splitting control loop.
package linking

import (
	"regexp"
	"strings"

	"github.com/jlonij/dac/internal/dictionary"
	"github.com/jlonij/dac/internal/textutil"
)

// Quote runes counted immediately around a mention span.
var quoteRunes = map[rune]struct{}{
	'"': {}, '\'': {}, '„': {}, '”': {}, '‚': {}, '’': {},
}

const maxWindow = 20

// Mention represents one recognised NER span, together with every field
// derived from it during construction (spec §3/§4.2).
type Mention struct {
	Text   string
	NERTag string // "person", "location", "organisation", or "" (unknown)
	Start  int
	End    int

	LeftWindow  []string
	RightWindow []string

	Norm     string
	Stripped string
	LastPart string

	Quotes int

	HasTitle  bool
	TitleForm string

	RoleTag  string
	RoleForm string

	AltType string
	Valid   bool

	Substituted bool
}

// NewMention builds a Mention for (text, nerTag) found in ocr at or after
// docPosHint.
func NewMention(text, nerTag, ocr string, docPosHint int) *Mention {
	m := &Mention{Text: text, NERTag: nerTag}

	m.Start, m.End = findSpan(ocr, text, docPosHint)
	m.LeftWindow, m.RightWindow = windows(ocr, m.Start, m.End)
	m.Quotes = countQuotes(ocr, m.Start, m.End)

	m.Norm = textutil.Normalize(text)
	m.detectTitle()
	m.detectRole(ocr)
	m.strip()
	m.LastPart = textutil.LastPart(m.Stripped)
	m.Valid = m.isValid()
	m.AltType = m.inferAltType()

	return m
}

func findSpan(ocr, text string, hint int) (int, int) {
	if hint < 0 {
		hint = 0
	}
	if hint > len(ocr) {
		return -1, -1
	}
	idx := strings.Index(ocr[hint:], text)
	if idx < 0 {
		return -1, -1
	}
	start := hint + idx
	return start, start + len(text)
}

func windows(ocr string, start, end int) (left, right []string) {
	if start < 0 || end < 0 || start > len(ocr) || end > len(ocr) {
		return nil, nil
	}
	leftTokens := textutil.Tokenize(ocr[:start])
	if len(leftTokens) > maxWindow {
		leftTokens = leftTokens[len(leftTokens)-maxWindow:]
	}
	rightTokens := textutil.Tokenize(ocr[end:])
	if len(rightTokens) > maxWindow {
		rightTokens = rightTokens[:maxWindow]
	}
	return leftTokens, rightTokens
}

func countQuotes(ocr string, start, end int) int {
	if start < 0 || end < 0 {
		return 0
	}
	runes := []rune(ocr)
	positions := []int{start - 1, start, end - 1, end}
	count := 0
	for _, p := range positions {
		if p < 0 || p >= len(runes) {
			continue
		}
		if _, ok := quoteRunes[runes[p]]; ok {
			count++
		}
	}
	return count
}

func (m *Mention) detectTitle() {
	first := textutil.FirstWord(m.Norm)
	if dictionary.IsTitle(first) {
		m.HasTitle = true
		m.TitleForm = first
		return
	}
	if len(m.LeftWindow) > 0 {
		last := textutil.Normalize(m.LeftWindow[len(m.LeftWindow)-1])
		if dictionary.IsTitle(last) {
			m.HasTitle = true
			m.TitleForm = last
		}
	}
}

func (m *Mention) detectRole(ocr string) {
	if roles, ok := dictionary.RoleWordIndex[textutil.FirstWord(m.Norm)]; ok && len(roles) > 0 {
		m.RoleTag = roles[0]
		m.RoleForm = textutil.FirstWord(m.Norm)
		return
	}
	if len(m.LeftWindow) > 0 {
		last := textutil.Normalize(m.LeftWindow[len(m.LeftWindow)-1])
		if roles, ok := dictionary.RoleWordIndex[last]; ok && len(roles) > 0 {
			m.RoleTag = roles[0]
			m.RoleForm = last
			return
		}
	}
	if len(m.RightWindow) > 0 && m.End >= 0 && m.End < len(ocr) && ocr[m.End] == ',' {
		first := textutil.Normalize(m.RightWindow[0])
		if roles, ok := dictionary.RoleWordIndex[first]; ok && len(roles) > 0 {
			m.RoleTag = roles[0]
			m.RoleForm = first
		}
	}
}

func (m *Mention) strip() {
	words := textutil.Tokenize(m.Norm)
	if len(words) == 0 {
		m.Stripped = m.Norm
		return
	}
	leading := words[0]
	if (m.HasTitle && leading == m.TitleForm) || (m.RoleForm != "" && leading == m.RoleForm) {
		m.Stripped = strings.Join(words[1:], " ")
		return
	}
	m.Stripped = m.Norm
}

func (m *Mention) isValid() bool {
	words := textutil.Tokenize(m.Stripped)
	hasSignificant := false
	for _, w := range words {
		if len([]rune(w)) >= 2 {
			hasSignificant = true
			break
		}
	}
	if !hasSignificant || m.LastPart == "" {
		return false
	}
	return !m.isDate()
}

func (m *Mention) isDate() bool {
	hasMonth, hasDigit := false, false
	for _, w := range textutil.Tokenize(m.Norm) {
		if dictionary.IsMonth(w) {
			hasMonth = true
		}
		if containsDigit(w) {
			hasDigit = true
		}
	}
	return hasMonth && hasDigit
}

func containsDigit(w string) bool {
	for _, r := range w {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

var locationPrecedingWords = map[string]struct{}{"in": {}, "te": {}, "uit": {}}

func (m *Mention) inferAltType() string {
	if m.HasTitle {
		return "person"
	}
	if m.RoleTag != "" {
		if role, ok := dictionary.Roles[m.RoleTag]; ok && len(role.Types) == 1 {
			return role.Types[0]
		}
	}
	if len(m.LeftWindow) > 0 {
		last := textutil.Normalize(m.LeftWindow[len(m.LeftWindow)-1])
		if _, ok := locationPrecedingWords[last]; ok {
			return "location"
		}
	}
	return ""
}

var (
	schSuffixRE = regexp.MustCompile(`sch(e?)$`)
)

// Substitute attempts at most one spelling regularisation on Stripped, per
// spec §4.2. It succeeds only if exactly one of the candidate rules
// applies; on success Norm, Stripped and LastPart are updated in place and
// Substitute returns true. Calling Substitute twice on an already
// substituted mention is a no-op (returns false).
func (m *Mention) Substitute() bool {
	if m.Substituted {
		return false
	}

	type rule struct {
		applies bool
		apply   func(string) string
	}
	s := m.Stripped
	rules := []rule{
		{strings.Contains(s, "y"), func(x string) string { return strings.ReplaceAll(x, "y", "ij") }},
		{strings.HasSuffix(s, "s"), func(x string) string { return strings.TrimSuffix(x, "s") }},
		{schSuffixRE.MatchString(s), func(x string) string { return schSuffixRE.ReplaceAllString(x, "s$1") }},
		{strings.HasSuffix(s, "v"), func(x string) string { return strings.TrimSuffix(x, "v") + "w" }},
		{strings.HasSuffix(s, "w"), func(x string) string { return strings.TrimSuffix(x, "w") + "v" }},
	}

	applicable := 0
	var chosen func(string) string
	for _, r := range rules {
		if r.applies {
			applicable++
			chosen = r.apply
		}
	}
	if applicable != 1 {
		return false
	}

	newStripped := chosen(s)
	m.Norm = strings.Replace(m.Norm, s, newStripped, 1)
	m.Stripped = newStripped
	m.LastPart = textutil.LastPart(newStripped)
	m.Substituted = true
	return true
}

// WordCount returns the number of whitespace-delimited words in Norm.
func (m *Mention) WordCount() int {
	return len(textutil.Tokenize(m.Norm))
}
