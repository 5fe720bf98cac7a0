package linking

import (
	gocontext "context"
	"fmt"

	"github.com/jlonij/dac/internal/clients"
)

// Candidate (the spec's "Description") is one knowledge-base document
// proposed as a link target for a cluster, plus retrieval bookkeeping and
// the feature vector computed for it.
type Candidate struct {
	Doc clients.Document

	// Iteration is 0 for the original head mention, 1 for the
	// spelling-substituted head.
	Iteration int
	// QueryVariant is the index (0..3) of the query that first surfaced
	// this candidate.
	QueryVariant int

	Features map[string]float64
	Passes   bool
	Prob     float64
}

// CandidateList is the set of candidates retrieved for one cluster, with
// cached aggregates used by feature extraction.
type CandidateList struct {
	Candidates []*Candidate

	filtered    []*Candidate
	filteredSet bool

	maxScore    float64
	maxScoreSet bool

	sumInlinks    int
	sumInlinksNWS int
	sumInlinksSet bool
}

// Filtered returns the candidates passing the hard rule filter (spec §4.5),
// computed once.
func (cl *CandidateList) Filtered() []*Candidate {
	if cl.filteredSet {
		return cl.filtered
	}
	cl.filteredSet = true
	var out []*Candidate
	for _, c := range cl.Candidates {
		if c.Passes {
			out = append(out, c)
		}
	}
	cl.filtered = out
	return out
}

// Ranked returns Filtered(), sorted by predicted probability descending.
func (cl *CandidateList) Ranked() []*Candidate {
	filtered := cl.Filtered()
	ranked := make([]*Candidate, len(filtered))
	copy(ranked, filtered)
	// Stable insertion sort: candidate counts per cluster are small and
	// this keeps the ordering deterministic for equal-probability ties
	// (retrieval order is preserved), matching spec §5's ordering
	// guarantees.
	for i := 1; i < len(ranked); i++ {
		j := i
		for j > 0 && ranked[j-1].Prob < ranked[j].Prob {
			ranked[j-1], ranked[j] = ranked[j], ranked[j-1]
			j--
		}
	}
	return ranked
}

// MaxScore returns the maximum search score among filtered candidates.
func (cl *CandidateList) MaxScore() float64 {
	cl.computeSums()
	return cl.maxScore
}

// SumInlinks returns the sum of Inlinks among filtered candidates.
func (cl *CandidateList) SumInlinks() int {
	cl.computeSums()
	return cl.sumInlinks
}

// SumInlinksNewspapers returns the sum of InlinksNewspapers among filtered
// candidates.
func (cl *CandidateList) SumInlinksNewspapers() int {
	cl.computeSums()
	return cl.sumInlinksNWS
}

func (cl *CandidateList) computeSums() {
	if cl.sumInlinksSet {
		return
	}
	cl.sumInlinksSet = true
	for _, c := range cl.Filtered() {
		if c.Doc.Score > cl.maxScore {
			cl.maxScore = c.Doc.Score
		}
		cl.sumInlinks += c.Doc.Inlinks
		cl.sumInlinksNWS += c.Doc.InlinksNewspapers
	}
}

// Retrieve issues the two-iteration, four-query-variant retrieval sequence
// of spec §4.4 against the search index, using head's Norm/Stripped/
// LastPart, and returns the accumulated, deduplicated candidates.
func Retrieve(ctx gocontext.Context, search *clients.SearchClient, head *Mention, rowBudget int) (*CandidateList, error) {
	cl := &CandidateList{}
	seen := make(map[string]struct{})

	for iteration := 0; iteration < 2; iteration++ {
		if iteration == 1 {
			if !head.Substitute() {
				break
			}
		}

		queries := buildQueries(head)
		for variant, q := range queries {
			remaining := rowBudget - len(cl.Candidates)
			if remaining <= 0 {
				break
			}
			docs, err := search.Query(ctx, q, remaining)
			if err != nil {
				return nil, fmt.Errorf("retrieving candidates: %w", err)
			}
			for _, d := range docs {
				if _, ok := seen[d.ID]; ok {
					continue
				}
				seen[d.ID] = struct{}{}
				cl.Candidates = append(cl.Candidates, &Candidate{
					Doc:          d,
					Iteration:    iteration,
					QueryVariant: variant,
					Features:     make(map[string]float64),
				})
			}
			if len(cl.Candidates) >= rowBudget {
				return cl, nil
			}
		}

		if len(cl.Candidates) > 0 {
			break
		}
	}
	return cl, nil
}

func buildQueries(head *Mention) []string {
	norm, stripped, lastPart := head.Norm, head.Stripped, head.LastPart
	return []string{
		fmt.Sprintf(`pref_label_str=%q OR pref_label_str=%q`, norm, stripped),
		fmt.Sprintf(`alt_label_str=%q OR alt_label_str=%q`, norm, stripped),
		fmt.Sprintf(`pref_label:%q OR pref_label:%q`, norm, stripped),
		fmt.Sprintf(`last_part_str=%q`, lastPart),
	}
}
