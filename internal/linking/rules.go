package linking

import (
	"strings"

	"github.com/jlonij/dac/internal/textutil"
)

// ApplyRuleFeatures computes the hard-filter rule features (spec §4.5) for
// every candidate in cl, against the given cluster and the article's
// publication year, and sets each candidate's Passes flag.
func ApplyRuleFeatures(cl *CandidateList, cluster *Cluster, ocrNorm string, publYear int, publYearKnown bool) {
	head := cluster.Head()
	for _, c := range cl.Candidates {
		dateFeature(c, publYear, publYearKnown)
		nameMatchFeatures(c, head, ocrNorm)
		c.Passes = c.Features["match_str_conflict"] == 0 && c.Features["match_txt_date"] > -1
	}
}

func dateFeature(c *Candidate, publYear int, publYearKnown bool) {
	c.Features["match_txt_date"] = 0
	if !publYearKnown || c.Doc.BirthYear == nil {
		return
	}
	birth := *c.Doc.BirthYear
	death := birth + 80
	if c.Doc.DeathYear != nil {
		death = *c.Doc.DeathYear
	}
	switch {
	case publYear < birth:
		c.Features["match_txt_date"] = -1
	case publYear < birth+20:
		c.Features["match_txt_date"] = 0.5
	case publYear < death+20:
		c.Features["match_txt_date"] = 1.0
	default:
		c.Features["match_txt_date"] = 0.75
	}
}

// nameMatchFeatures computes the name-match, last-part-match, first-part-
// match, non-matching-magnitude and conflict features of spec §4.5.
func nameMatchFeatures(c *Candidate, head *Mention, ocrNorm string) {
	normWords := wordSet(textutil.Tokenize(head.Norm))

	var nonMatching []string
	prefExact, prefEnd, pref := 0.0, 0.0, 0.0

	if matchLabel(c.Doc.PrefLabel, head.Norm, normWords, &prefExact, &prefEnd, &pref) {
		// matched, nothing added to non_matching
	} else if c.Doc.PrefLabel != "" {
		nonMatching = append(nonMatching, c.Doc.PrefLabel)
	}

	altCount, altEndCount, altSubCount := 0.0, 0.0, 0.0
	for _, label := range c.Doc.AltLabel {
		exact, end, sub := 0.0, 0.0, 0.0
		if matchLabel(label, head.Norm, normWords, &exact, &end, &sub) {
			altCount += exact
			altEndCount += end
			altSubCount += sub
		} else if label != "" {
			nonMatching = append(nonMatching, label)
		}
	}

	c.Features["match_str_pref_exact"] = prefExact
	c.Features["match_str_pref_end"] = prefEnd
	c.Features["match_str_pref"] = pref
	c.Features["match_str_alt_exact"] = tanh(altCount * 0.25)
	c.Features["match_str_alt_end"] = tanh(altEndCount * 0.25)
	c.Features["match_str_alt"] = tanh(altSubCount * 0.25)

	lastPartCount := 0.0
	nonMatching, lastPartCount = lastPartMatch(nonMatching, head.Stripped)
	c.Features["match_str_last_part"] = tanh(lastPartCount * 0.25)

	firstPart := 0.0
	nonMatching, firstPart = firstPartMatch(nonMatching, c, head, ocrNorm)
	c.Features["match_str_first_part"] = firstPart

	c.Features["match_str_non_matching"] = tanh(float64(len(nonMatching)) * 0.25)

	sum := prefExact + prefEnd + altCount + altEndCount + lastPartCount + firstPart
	if sum == 0 {
		c.Features["match_str_conflict"] = 1
	} else {
		c.Features["match_str_conflict"] = 0
	}
}

func wordSet(words []string) map[string]struct{} {
	s := make(map[string]struct{}, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

func subsetOf(sub, super map[string]struct{}) bool {
	for w := range sub {
		if _, ok := super[w]; !ok {
			return false
		}
	}
	return true
}

// matchLabel checks label against norm; on a match it sets the relevant
// out-param to 1 and returns true. normWords is the word set of norm.
func matchLabel(label, norm string, normWords map[string]struct{}, exact, end, sub *float64) bool {
	if label == "" {
		return false
	}
	labelWords := wordSet(textutil.Tokenize(label))
	if !subsetOf(normWords, labelWords) {
		return false
	}
	switch {
	case label == norm:
		*exact = 1
		return true
	case strings.HasSuffix(label, norm):
		*end = 1
		return true
	case strings.Contains(label, norm):
		*sub = 1
		return true
	default:
		return false
	}
}

// lastPartMatch removes from nonMatching every label whose last word is
// within Levenshtein distance 1 of stripped's last word and whose
// preceding parts align monotonically (spec §9's state-machine table).
// Returns the remaining non-matching labels and the match count.
func lastPartMatch(nonMatching []string, stripped string) ([]string, float64) {
	strippedWords := textutil.Tokenize(stripped)
	if len(strippedWords) == 0 {
		return nonMatching, 0
	}
	strippedLast := strippedWords[len(strippedWords)-1]

	var remaining []string
	count := 0.0
	for _, label := range nonMatching {
		labelWords := textutil.Tokenize(label)
		if len(labelWords) < len(strippedWords) {
			remaining = append(remaining, label)
			continue
		}
		labelLast := labelWords[len(labelWords)-1]
		if textutil.Levenshtein(labelLast, strippedLast) > 1 {
			remaining = append(remaining, label)
			continue
		}
		if alignPreceding(labelWords[:len(labelWords)-1], strippedWords[:len(strippedWords)-1]) {
			count++
		} else {
			remaining = append(remaining, label)
		}
	}
	return remaining, count
}

// alignPreceding walks target right-to-left against want right-to-left,
// advancing a pointer monotonically over target and requiring each want
// token to find a matching target token (full word, Levenshtein 1 for
// words longer than 1 rune, or first-letter match for single-rune
// initials) without skipping over a want token that failed to match.
func alignPreceding(target, want []string) bool {
	ti := len(target) - 1
	for wi := len(want) - 1; wi >= 0; wi-- {
		w := want[wi]
		matched := false
		for ti >= 0 {
			t := target[ti]
			ti--
			if tokensAlign(t, w) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func tokensAlign(t, w string) bool {
	tr, wr := []rune(t), []rune(w)
	if len(wr) == 1 {
		return len(tr) > 0 && tr[0] == wr[0]
	}
	if t == w {
		return true
	}
	return textutil.Levenshtein(t, w) <= 1
}

// firstPartMatch applies the single-word-head rule of spec §4.5: only when
// stripped is a single word and the candidate document carries a last_part
// attribute.
func firstPartMatch(nonMatching []string, c *Candidate, head *Mention, ocrNorm string) ([]string, float64) {
	if len(textutil.Tokenize(head.Stripped)) != 1 || c.Doc.LastPart == "" {
		return nonMatching, 0
	}
	var remaining []string
	found := false
	conflict := false
	for _, label := range nonMatching {
		words := textutil.Tokenize(label)
		if len(words) <= 1 || words[0] != head.Norm {
			remaining = append(remaining, label)
			continue
		}
		conflict = true
		remainder := strings.Join(words[1:], " ")
		if remainder != "" && strings.Contains(ocrNorm, remainder) {
			found = true
			continue
		}
		remaining = append(remaining, label)
	}
	if found {
		return remaining, 1
	}
	if conflict {
		return remaining, -1
	}
	return remaining, 0
}
