package linking

import (
	gocontext "context"
	"strconv"
	"strings"

	"github.com/jlonij/dac/internal/clients"
	"github.com/jlonij/dac/internal/dictionary"
	"github.com/jlonij/dac/internal/textutil"
)

const abstractHeadWindow = 25

// FeatureEnv bundles the optional external collaborators used by a subset
// of probability features. A nil field degrades the features that need it
// to their default value, per spec §7.
type FeatureEnv struct {
	Vectors *clients.VectorClient
	SRU     *clients.SRUClient
}

// ComputeProbabilityFeatures fills in the probability features (spec §4.6)
// for every filtered candidate in cl. declared, when non-nil, restricts
// computation to the classifier's advertised feature names; pass nil to
// compute every feature (used by tests).
func ComputeProbabilityFeatures(ctx gocontext.Context, cl *CandidateList, cluster *Cluster, artCtx *Context, env FeatureEnv, declared map[string]struct{}) {
	ocrNorm := artCtx.NormalizedOCR()
	filtered := cl.Filtered()

	for rank, c := range filtered {
		set := func(name string, v float64) {
			if declared != nil {
				if _, ok := declared[name]; !ok {
					return
				}
			}
			c.Features[name] = v
		}
		computeEntityFeatures(set, cluster)
		computeCandidateFeatures(set, c, cl)
		computeStringFeatures(set, c, cluster.Head())
		computeSolrFeatures(set, c, rank, cl)
		computeTypeFeature(set, c, cluster)
		computeRoleFeature(set, c, cluster.Head())
		computeSpecFeature(set, c, ocrNorm)
		computeKeywordFeature(set, c, ocrNorm)
		computeSubjectFeature(set, c, artCtx)
		computeEntitiesFeature(set, c, cluster, ocrNorm)
		if env.Vectors != nil {
			computeVecFeatures(ctx, set, c, cluster, env.Vectors)
			computeEntityVecFeatures(ctx, set, c, cluster, env.Vectors)
		}
		if env.SRU != nil {
			computeNewspaperEntitiesFeature(ctx, set, c, cluster, env.SRU)
		}
		c.Prob = 0
	}
}

func computeEntityFeatures(set func(string, float64), cluster *Cluster) {
	set("entity_quotes", tanh(0.25*float64(cluster.SumQuotes())))
	ratios := cluster.TypeRatios()
	for _, t := range []string{"person", "location", "organisation"} {
		set("entity_type_"+t, ratios[t])
	}
}

func computeCandidateFeatures(set func(string, float64), c *Candidate, cl *CandidateList) {
	set("candidate_inlinks", tanh(float64(c.Doc.Inlinks)*0.001))
	set("candidate_inlinks_newspapers", tanh(float64(c.Doc.InlinksNewspapers)*0.001))
	if sum := cl.SumInlinks(); sum > 0 {
		set("candidate_inlinks_rel", float64(c.Doc.Inlinks)/float64(sum))
	}
	if sum := cl.SumInlinksNewspapers(); sum > 0 {
		set("candidate_inlinks_newspapers_rel", float64(c.Doc.InlinksNewspapers)/float64(sum))
	}
	if c.Doc.Ambig == 1 {
		set("candidate_ambig", -1)
	} else {
		set("candidate_ambig", 1)
	}
	if c.Doc.Lang == "nl" {
		set("candidate_lang", 1)
	} else {
		set("candidate_lang", -1)
	}
	for t, schemaTypes := range dictionary.Types {
		if docHasAnyType(c.Doc, schemaTypes) {
			set("candidate_type_"+t, 1)
		}
	}
}

func docHasAnyType(doc clients.Document, wanted []string) bool {
	for _, dt := range append(append([]string{}, doc.SchemaType...), doc.DBOType...) {
		for _, w := range wanted {
			if dt == w {
				return true
			}
		}
	}
	return false
}

func computeStringFeatures(set func(string, float64), c *Candidate, head *Mention) {
	set("match_str_lsr_pref", lsr(c.Doc.PrefLabel, head.Norm))

	if max, mean, ok := lsrMaxMean(c.Doc.WDAltLabel, head.Norm); ok {
		set("match_str_lsr_wd_max", max)
		set("match_str_lsr_wd_mean", mean)
	}
	if max, mean, ok := lsrMaxMean(c.Doc.AltLabel, head.Norm); ok {
		set("match_str_lsr_alt_max", max)
		set("match_str_lsr_alt_mean", mean)
	}
}

func lsr(label, norm string) float64 {
	if label == "" && norm == "" {
		return 1
	}
	return 2*textutil.LevenshteinRatio(label, norm) - 1
}

func lsrMaxMean(labels []string, norm string) (max, mean float64, ok bool) {
	if len(labels) == 0 {
		return 0, 0, false
	}
	sum := 0.0
	for i, l := range labels {
		r := lsr(l, norm)
		if i == 0 || r > max {
			max = r
		}
		sum += r
	}
	return max, sum / float64(len(labels)), true
}

func computeSolrFeatures(set func(string, float64), c *Candidate, filteredRank int, cl *CandidateList) {
	for k := 0; k < 4; k++ {
		v := 0.0
		if c.QueryVariant == k {
			v = 1
		}
		set("match_str_solr_query_"+strconv.Itoa(k), v)
	}
	if c.Iteration == 1 {
		set("match_str_solr_substitution", 1)
	} else {
		set("match_str_solr_substitution", 0)
	}
	set("match_str_solr_position", 1-tanh(0.25*float64(filteredRank)))
	if max := cl.MaxScore(); max > 0 {
		set("match_str_solr_score", c.Doc.Score/max)
	}
}

// computeTypeFeature implements match_txt_type (spec §4.6): +ratio for
// each cluster type tag whose schema types overlap the candidate's (or,
// failing that, the abstract-inferred) schema types; -1 on a hard
// cross-type conflict when the cluster carries exactly one type tag.
func computeTypeFeature(set func(string, float64), c *Candidate, cluster *Cluster) {
	ratios := cluster.TypeRatios()
	if len(ratios) == 0 {
		return
	}

	schemaTypes := append(append([]string{}, c.Doc.SchemaType...), c.Doc.DBOType...)
	if len(schemaTypes) == 0 {
		inferred := inferTagFromAbstract(c.Doc.Abstract)
		if inferred == "" {
			return
		}
		schemaTypes = dictionary.Types[inferred]
	}

	score := 0.0
	for r, schemaTypesForR := range dictionary.Types {
		ratio, ok := ratios[r]
		if !ok {
			continue
		}
		for _, t := range schemaTypesForR {
			if containsStr(schemaTypes, t) {
				score += ratio
				break
			}
		}
	}
	if score != 0 {
		set("match_txt_type", score)
		return
	}

	if len(ratios) == 1 {
		if _, ok := ratios["person"]; ok {
			// Non-matching: persons can't be locations or organizations.
			for other, otherTypes := range dictionary.Types {
				if other == "person" {
					continue
				}
				if anyOverlap(schemaTypes, otherTypes) {
					score = -1
					break
				}
			}
		} else if _, ok := ratios["location"]; ok {
			// Non-matching: locations and organizations can't be persons.
			if containsStr(schemaTypes, "Person") {
				score = -1
			}
		} else if _, ok := ratios["organisation"]; ok {
			if containsStr(schemaTypes, "Person") {
				score = -1
			}
		}
	}
	set("match_txt_type", score)
}

func containsStr(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

func anyOverlap(a, b []string) bool {
	for _, x := range a {
		if containsStr(b, x) {
			return true
		}
	}
	return false
}

// inferTagFromAbstract looks at the first abstractHeadWindow tokens of the
// abstract for a role or title word implying a single coarse type tag.
func inferTagFromAbstract(abstract string) string {
	tokens := textutil.Tokenize(textutil.Normalize(abstract))
	if len(tokens) > abstractHeadWindow {
		tokens = tokens[:abstractHeadWindow]
	}
	found := map[string]struct{}{}
	for _, tok := range tokens {
		if dictionary.IsTitle(tok) {
			found["person"] = struct{}{}
		}
		for _, role := range dictionary.RoleWordIndex[tok] {
			for _, t := range dictionary.Roles[role].Types {
				found[t] = struct{}{}
			}
		}
	}
	if len(found) == 1 {
		for t := range found {
			return t
		}
	}
	return ""
}

// computeRoleFeature implements match_txt_role: 1 on a role/schema match,
// -1 when a non-matching role's schema types are present.
func computeRoleFeature(set func(string, float64), c *Candidate, head *Mention) {
	if head.RoleTag == "" {
		return
	}
	docTypes := append(append([]string{}, c.Doc.SchemaType...), c.Doc.DBOType...)
	var impliedRoles []string
	for _, dt := range docTypes {
		impliedRoles = append(impliedRoles, dictionary.RoleSchemaTypeIndex[dt]...)
	}
	abstractTokens := textutil.Tokenize(textutil.Normalize(c.Doc.Abstract))
	if len(abstractTokens) > abstractHeadWindow {
		abstractTokens = abstractTokens[:abstractHeadWindow]
	}
	for _, tok := range abstractTokens {
		impliedRoles = append(impliedRoles, dictionary.RoleWordIndex[tok]...)
	}
	if len(impliedRoles) == 0 {
		return
	}
	for _, r := range impliedRoles {
		if r == head.RoleTag {
			set("match_txt_role", 1)
			return
		}
	}
	set("match_txt_role", -1)
}

func computeSpecFeature(set func(string, float64), c *Candidate, ocrNorm string) {
	spec := textutil.Normalize(c.Doc.Spec)
	if spec == "" {
		return
	}
	runes := []rune(spec)
	prefixLen := int(0.8 * float64(len(runes)))
	if prefixLen == 0 {
		return
	}
	prefix := string(runes[:prefixLen])
	if strings.Contains(ocrNorm, prefix) {
		set("match_txt_spec", 1)
	}
}

func computeKeywordFeature(set func(string, float64), c *Candidate, ocrNorm string) {
	if len(c.Doc.Keyword) == 0 {
		return
	}
	ocrTokens := textutil.Tokenize(ocrNorm)
	count := 0
	for _, kw := range c.Doc.Keyword {
		n := textutil.Normalize(kw)
		if n == "" || dictionary.IsUnwanted(n) {
			continue
		}
		runes := []rune(n)
		prefixLen := int(0.8 * float64(len(runes)))
		if prefixLen == 0 {
			continue
		}
		prefix := string(runes[:prefixLen])
		for _, tok := range ocrTokens {
			if strings.HasPrefix(tok, prefix) {
				count++
				break
			}
		}
	}
	set("match_txt_keyword", tanh(0.25*float64(count)))
}

// computeSubjectFeature implements match_txt_subject (spec §4.6). Each
// article subject's vocabulary is augmented with the words of every role
// assigned to that subject before matching against the abstract. A
// conflict (an abstract hit on a subject the article doesn't carry, with
// no article-subject hits at all) leaves the feature at 0: mirrors the
// original's subject_match < -1 check, which conflicts can never satisfy.
func computeSubjectFeature(set func(string, float64), c *Candidate, artCtx *Context) {
	articleSubjects := artCtx.Subjects()
	if len(articleSubjects) == 0 {
		return
	}
	bow := wordSet(textutil.Tokenize(textutil.Normalize(c.Doc.Abstract)))

	subjectMatch := 0
	for _, subject := range articleSubjects {
		words := append([]string{}, dictionary.Subjects[subject]...)
		for _, role := range dictionary.Roles {
			if containsStr(role.Subjects, subject) {
				words = append(words, role.Words...)
			}
		}
		if anyInBow(words, bow) {
			subjectMatch++
		}
	}

	if subjectMatch == 0 {
		articleSet := make(map[string]struct{}, len(articleSubjects))
		for _, s := range articleSubjects {
			articleSet[s] = struct{}{}
		}
		for _, subject := range dictionary.SubjectNames() {
			if _, ok := articleSet[subject]; ok {
				continue
			}
			words := append([]string{}, dictionary.Subjects[subject]...)
			for _, role := range dictionary.Roles {
				if containsStr(role.Subjects, subject) && !anyOverlap(role.Subjects, articleSubjects) {
					words = append(words, role.Words...)
				}
			}
			if anyInBow(words, bow) {
				subjectMatch = -1
			}
		}
	}

	if subjectMatch > 0 {
		set("match_txt_subject", tanh(float64(subjectMatch)*0.25))
	}
}

func anyInBow(words []string, bow map[string]struct{}) bool {
	for _, w := range words {
		if phraseInBow(w, bow) {
			return true
		}
	}
	return false
}

func computeEntitiesFeature(set func(string, float64), c *Candidate, cluster *Cluster, ocrNorm string) {
	abstractTokens := longTokens(c.Doc.Abstract)
	cep := cluster.ContextEntityParts()
	if len(cep) == 0 || len(abstractTokens) == 0 {
		return
	}
	count := 0
	for _, t := range abstractTokens {
		if _, ok := cep[t]; ok {
			count++
		}
	}
	set("match_txt_entities", tanh(0.25*float64(count)))
}

func longTokens(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, t := range textutil.Tokenize(textutil.Normalize(s)) {
		if len([]rune(t)) > 4 {
			out[t] = struct{}{}
		}
	}
	return out
}

// computeNewspaperEntitiesFeature implements match_txt_entities_newspapers,
// gated on: the candidate is a person, unambiguous, has newspaper inlinks,
// the pref_label partially (not exactly) matches the head norm, and the
// article context has other mentions disjoint from the pref_label.
func computeNewspaperEntitiesFeature(ctx gocontext.Context, set func(string, float64), c *Candidate, cluster *Cluster, sru *clients.SRUClient) {
	if c.Features["candidate_type_person"] != 1 {
		return
	}
	if c.Doc.Ambig == 1 || c.Doc.InlinksNewspapers <= 0 {
		return
	}
	if c.Features["match_str_pref_exact"] == 1 {
		return
	}
	head := cluster.Head()
	if !strings.Contains(c.Doc.PrefLabel, head.Norm) && !strings.Contains(head.Norm, c.Doc.PrefLabel) {
		return
	}
	var others []string
	prefWords := wordSet(textutil.Tokenize(c.Doc.PrefLabel))
	for ep := range cluster.ContextEntityParts() {
		if _, ok := prefWords[ep]; !ok {
			others = append(others, ep)
		}
	}
	if len(others) == 0 {
		return
	}
	count, err := sru.CooccurrenceCount(ctx, c.Doc.PrefLabel, others)
	if err != nil {
		return
	}
	set("match_txt_entities_newspapers", float64(count)/float64(c.Doc.InlinksNewspapers))
}

// computeVecFeatures implements match_txt_vec_{max,mean}: cosine similarity
// between the cluster's aggregated window and the candidate's abstract
// head plus keywords, limited to Dutch candidates.
func computeVecFeatures(ctx gocontext.Context, set func(string, float64), c *Candidate, cluster *Cluster, vectors *clients.VectorClient) {
	if c.Doc.Lang != "nl" {
		return
	}
	contextWords := cluster.Window()
	if len(contextWords) == 0 {
		return
	}
	candidateWords := abstractHeadTokens(c.Doc, cluster)
	candidateWords = append(candidateWords, filterKeywords(c.Doc.Keyword, cluster.EntityParts())...)
	if len(candidateWords) == 0 {
		return
	}

	ctxVecs, err := vectors.Fetch(ctx, contextWords)
	if err != nil {
		return
	}
	candVecs, err := vectors.Fetch(ctx, candidateWords)
	if err != nil {
		return
	}
	max, mean, ok := maxMeanCosine(ctxVecs, candVecs)
	if !ok {
		return
	}
	set("match_txt_vec_max", max-0.25)
	set("match_txt_vec_mean", mean)
}

func abstractHeadTokens(doc clients.Document, cluster *Cluster) []string {
	tokens := textutil.Tokenize(textutil.Normalize(doc.Abstract))
	if len(tokens) > abstractHeadWindow {
		tokens = tokens[:abstractHeadWindow]
	}
	entityParts := cluster.EntityParts()
	var out []string
	for _, t := range tokens {
		if len([]rune(t)) <= 4 {
			continue
		}
		if _, ok := entityParts[t]; ok {
			continue
		}
		if dictionary.IsUnwanted(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// filterKeywords applies the abstract-head predicate (length > 4 runes,
// not an entity part, not unwanted) to a candidate's raw keyword list.
func filterKeywords(keywords []string, entityParts map[string]struct{}) []string {
	var out []string
	for _, w := range keywords {
		if len([]rune(w)) <= 4 {
			continue
		}
		if _, ok := entityParts[w]; ok {
			continue
		}
		if dictionary.IsUnwanted(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}

// computeEntityVecFeatures implements match_txt_entity_vec_{max,mean}:
// cosine similarity between vectors of the cluster's context entity parts
// and a vector looked up for the candidate's Wikidata identifier.
func computeEntityVecFeatures(ctx gocontext.Context, set func(string, float64), c *Candidate, cluster *Cluster, vectors *clients.VectorClient) {
	if c.Doc.URIWD == "" {
		return
	}
	cep := cluster.ContextEntityParts()
	if len(cep) == 0 {
		return
	}
	words := make([]string, 0, len(cep))
	for w := range cep {
		words = append(words, w)
	}
	cepVecs, err := vectors.Fetch(ctx, words)
	if err != nil {
		return
	}
	wdVecs, err := vectors.Fetch(ctx, []string{wikidataQID(c.Doc.URIWD)})
	if err != nil {
		return
	}
	max, mean, ok := maxMeanCosine(cepVecs, wdVecs)
	if !ok {
		return
	}
	set("match_txt_entity_vec_max", max-0.25)
	set("match_txt_entity_vec_mean", mean-0.2)
}

// wikidataQID returns the bare Q-id, the last slash-separated segment of
// a Wikidata URI.
func wikidataQID(uriWD string) string {
	if i := strings.LastIndex(uriWD, "/"); i != -1 {
		return uriWD[i+1:]
	}
	return uriWD
}

func maxMeanCosine(a, b [][]float64) (max, mean float64, ok bool) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, false
	}
	sum := 0.0
	n := 0
	first := true
	for _, va := range a {
		for _, vb := range b {
			sim := clients.CosineSimilarity(va, vb)
			if first || sim > max {
				max = sim
				first = false
			}
			sum += sim
			n++
		}
	}
	if n == 0 {
		return 0, 0, false
	}
	return max, sum / float64(n), true
}
