package linking

import (
	"sort"
	"strings"

	"github.com/jlonij/dac/internal/dictionary"
	"github.com/jlonij/dac/internal/textutil"
)

// Cluster groups mentions hypothesised to refer to the same real-world
// entity. Mentions[0] is the head: the mention whose properties drive
// candidate retrieval.
type Cluster struct {
	Mentions []*Mention

	// ctx is the owning article's full Context, needed to compute
	// ContextEntityParts (which looks at mentions OUTSIDE this cluster).
	ctx *Context

	typeRatios    map[string]float64
	typeRatiosSet bool

	window    []string
	windowSet bool

	entityParts    map[string]struct{}
	entityPartsSet bool

	contextEntityParts map[string]struct{}
	cepSet             bool

	sumQuotes    int
	sumQuotesSet bool
}

// Head returns the cluster's driving mention.
func (c *Cluster) Head() *Mention {
	if len(c.Mentions) == 0 {
		return nil
	}
	return c.Mentions[0]
}

// BuildClusters groups mentions by the agglomerative rules of spec §4.3.
// ctx is the owning article's Context, used only to populate each
// resulting Cluster's back-reference for lazily-derived context-wide
// aggregates.
func BuildClusters(ctx *Context, mentions []*Mention) []*Cluster {
	ordered := make([]*Mention, len(mentions))
	copy(ordered, mentions)
	sort.SliceStable(ordered, func(i, j int) bool {
		wi, wj := ordered[i].WordCount(), ordered[j].WordCount()
		if wi != wj {
			return wi > wj
		}
		return ordered[i].Norm > ordered[j].Norm
	})

	var clusters []*Cluster

	for _, m := range ordered {
		if target := findExactAdoption(clusters, m); target != nil {
			target.Mentions = append(target.Mentions, m)
			continue
		}

		candidates := matchingClusters(clusters, m)
		if len(candidates) == 1 {
			candidates[0].Mentions = append(candidates[0].Mentions, m)
			continue
		}

		clusters = append(clusters, &Cluster{Mentions: []*Mention{m}, ctx: ctx})
	}

	return clusters
}

func findExactAdoption(clusters []*Cluster, m *Mention) *Cluster {
	for _, c := range clusters {
		for _, existing := range c.Mentions {
			if existing.Text == m.Text {
				return c
			}
			if existing.Norm != "" && m.Norm != "" && existing.Norm == m.Norm {
				return c
			}
		}
	}
	return nil
}

// matchingClusters returns the deduplicated set of clusters matched by
// EITHER the last-part-extension rule or the first-name-attachment rule.
func matchingClusters(clusters []*Cluster, m *Mention) []*Cluster {
	seen := make(map[*Cluster]struct{})
	var out []*Cluster
	add := func(c *Cluster) {
		if _, ok := seen[c]; !ok {
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}

	mLast := textutil.LastPart(m.Norm)
	mWords := textutil.Tokenize(m.Norm)
	mFirst := textutil.FirstWord(m.Norm)
	mSingleWord := len(mWords) == 1

	for _, c := range clusters {
		for _, x := range c.Mentions {
			// Rule 2: last-part extension.
			if mLast != "" && textutil.LastPart(x.Norm) == mLast &&
				strings.HasSuffix(x.Norm, m.Norm) && x.WordCount() > m.WordCount() {
				add(c)
			}
			// Rule 3: first-name attachment.
			if mSingleWord && textutil.FirstWord(x.Norm) == mFirst &&
				x.WordCount() > 1 && x.NERTag == "person" && m.NERTag == "person" {
				add(c)
			}
		}
	}
	return out
}

// TypeRatios returns, for each type tag carried by any cluster member
// (counting both the NER tag and the inferred alternate type), the
// fraction of members carrying it.
func (c *Cluster) TypeRatios() map[string]float64 {
	if c.typeRatiosSet {
		return c.typeRatios
	}
	c.typeRatiosSet = true
	counts := make(map[string]int)
	total := len(c.Mentions)
	for _, m := range c.Mentions {
		tags := map[string]struct{}{}
		if m.NERTag != "" {
			tags[m.NERTag] = struct{}{}
		}
		if m.AltType != "" {
			tags[m.AltType] = struct{}{}
		}
		for t := range tags {
			counts[t]++
		}
	}
	ratios := make(map[string]float64, len(counts))
	if total > 0 {
		for t, n := range counts {
			ratios[t] = float64(n) / float64(total)
		}
	}
	c.typeRatios = ratios
	return ratios
}

// Window returns the aggregated, deduplicated context window across all
// member mentions: tokens longer than 4 runes, excluding entity parts and
// stop-words.
func (c *Cluster) Window() []string {
	if c.windowSet {
		return c.window
	}
	c.windowSet = true
	entityParts := c.EntityParts()
	seen := make(map[string]struct{})
	var out []string
	add := func(tokens []string) {
		for _, t := range tokens {
			n := textutil.Normalize(t)
			if len([]rune(n)) <= 4 {
				continue
			}
			if _, ok := entityParts[n]; ok {
				continue
			}
			if dictionary.IsUnwanted(n) {
				continue
			}
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	for _, m := range c.Mentions {
		add(m.LeftWindow)
		add(m.RightWindow)
	}
	c.window = out
	return out
}

// EntityParts returns the set of normalised tokens appearing inside any
// member's Stripped form.
func (c *Cluster) EntityParts() map[string]struct{} {
	if c.entityPartsSet {
		return c.entityParts
	}
	c.entityPartsSet = true
	parts := make(map[string]struct{})
	for _, m := range c.Mentions {
		for _, w := range textutil.Tokenize(m.Stripped) {
			parts[w] = struct{}{}
		}
	}
	c.entityParts = parts
	return parts
}

// ContextEntityParts returns the tokens from OTHER valid mentions in the
// article (outside this cluster) that do not overlap EntityParts.
func (c *Cluster) ContextEntityParts() map[string]struct{} {
	if c.cepSet {
		return c.contextEntityParts
	}
	c.cepSet = true
	out := make(map[string]struct{})
	if c.ctx == nil {
		c.contextEntityParts = out
		return out
	}
	entityParts := c.EntityParts()
	inCluster := make(map[*Mention]struct{}, len(c.Mentions))
	for _, m := range c.Mentions {
		inCluster[m] = struct{}{}
	}
	for _, m := range c.ctx.Mentions {
		if _, ok := inCluster[m]; ok {
			continue
		}
		if !m.Valid {
			continue
		}
		for _, w := range textutil.Tokenize(m.Stripped) {
			if _, ok := entityParts[w]; ok {
				continue
			}
			out[w] = struct{}{}
		}
	}
	c.contextEntityParts = out
	return out
}

// SumQuotes returns the sum of Quotes across all member mentions.
func (c *Cluster) SumQuotes() int {
	if c.sumQuotesSet {
		return c.sumQuotes
	}
	c.sumQuotesSet = true
	total := 0
	for _, m := range c.Mentions {
		total += m.Quotes
	}
	c.sumQuotes = total
	return total
}

// Dependencies returns the cluster members whose Norm differs from the
// head's Norm, per the split rule of spec §4.8.
func (c *Cluster) Dependencies() []*Mention {
	head := c.Head()
	if head == nil {
		return nil
	}
	var deps []*Mention
	for _, m := range c.Mentions[1:] {
		if m.Norm != head.Norm {
			deps = append(deps, m)
		}
	}
	return deps
}
