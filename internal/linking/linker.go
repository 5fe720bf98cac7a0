package linking

import (
	gocontext "context"
	"fmt"

	"github.com/jlonij/dac/internal/clients"
)

// EntityLinker runs the cluster-ranking and split control loop of spec
// §4.8 over one article's Context.
type EntityLinker struct {
	Search     *clients.SearchClient
	Classifier Classifier
	Env        FeatureEnv

	RowBudget         int
	MinProb           float64
	IncludeCandidates bool
}

// clusterOutcome is the settled result of linking one (non-split) cluster.
type clusterOutcome struct {
	cluster *Cluster
	reason  string
	chosen  *Candidate
	cl      *CandidateList
}

// Link processes every cluster derived from ctx's mentions and returns one
// Result per unique mention text. When requestedText is non-empty, only
// the sub-cluster containing that text is followed through a split; the
// returned slice still contains one Result per unique mention text
// reachable from the settled clusters.
func (l *EntityLinker) Link(ctx gocontext.Context, artCtx *Context, requestedText string) ([]*Result, error) {
	clusters := BuildClusters(artCtx, artCtx.Mentions)

	stack := make([]*Cluster, len(clusters))
	copy(stack, clusters)

	var settled []*clusterOutcome

	for len(stack) > 0 {
		cluster := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		outcome, err := l.linkCluster(ctx, cluster, artCtx)
		if err != nil {
			return nil, err
		}

		deps := cluster.Dependencies()
		needsSplit := len(deps) > 0 && (outcome.chosen == nil || !candidateIsPerson(outcome.chosen.Doc))

		if !needsSplit {
			settled = append(settled, outcome)
			continue
		}

		headGroup := headGroupMentions(cluster, deps)
		var next []*Cluster
		if len(headGroup) > 0 {
			next = append(next, &Cluster{Mentions: headGroup, ctx: artCtx})
		}
		next = append(next, BuildClusters(artCtx, deps)...)

		if requestedText == "" {
			stack = append(stack, next...)
			continue
		}
		for _, nc := range next {
			if clusterContainsText(nc, requestedText) {
				stack = append(stack, nc)
			}
		}
	}

	return buildResults(artCtx, settled, l.IncludeCandidates), nil
}

func (l *EntityLinker) linkCluster(ctx gocontext.Context, cluster *Cluster, artCtx *Context) (*clusterOutcome, error) {
	head := cluster.Head()
	outcome := &clusterOutcome{cluster: cluster}

	if head == nil || !head.Valid {
		outcome.reason = ReasonInvalidEntity
		return outcome, nil
	}

	candList, err := Retrieve(ctx, l.Search, head, l.RowBudget)
	if err != nil {
		return nil, fmt.Errorf("linking cluster %q: %w", head.Text, err)
	}
	outcome.cl = candList
	if len(candList.Candidates) == 0 {
		outcome.reason = ReasonNothingFound
		return outcome, nil
	}

	publYear, publYearKnown := artCtx.PublicationYear(ctx)
	ApplyRuleFeatures(candList, cluster, artCtx.NormalizedOCR(), publYear, publYearKnown)
	if len(candList.Filtered()) == 0 {
		outcome.reason = ReasonNameOrDateConflict
		return outcome, nil
	}

	declared := declaredFeatureSet(l.Classifier)
	ComputeProbabilityFeatures(ctx, candList, cluster, artCtx, l.Env, declared)

	for _, c := range candList.Filtered() {
		p, err := l.Classifier.Predict(c.Features)
		if err != nil {
			return nil, fmt.Errorf("predicting for cluster %q: %w", head.Text, err)
		}
		c.Prob = p
	}

	ranked := candList.Ranked()
	best := ranked[0]
	outcome.chosen = best
	if best.Prob >= l.MinProb {
		outcome.reason = ReasonPredictedLink
	} else {
		outcome.reason = ReasonProbabilityTooLow + candidateLabel(best)
	}
	return outcome, nil
}

func candidateIsPerson(doc clients.Document) bool {
	for _, t := range append(append([]string{}, doc.SchemaType...), doc.DBOType...) {
		if t == "Person" {
			return true
		}
	}
	return false
}

func candidateLabel(c *Candidate) string {
	if c.Doc.Label != "" {
		return c.Doc.Label
	}
	return c.Doc.PrefLabel
}

// headGroupMentions returns cluster's members that are not dependencies:
// the head itself plus any member whose norm equals the head's.
func headGroupMentions(cluster *Cluster, deps []*Mention) []*Mention {
	depSet := make(map[*Mention]struct{}, len(deps))
	for _, d := range deps {
		depSet[d] = struct{}{}
	}
	var out []*Mention
	for _, m := range cluster.Mentions {
		if _, ok := depSet[m]; !ok {
			out = append(out, m)
		}
	}
	return out
}

func clusterContainsText(c *Cluster, text string) bool {
	for _, m := range c.Mentions {
		if m.Text == text {
			return true
		}
	}
	return false
}

// buildResults emits one Result per unique mention text, in article
// mention order, drawn from whichever settled cluster contains it.
func buildResults(artCtx *Context, settled []*clusterOutcome, includeCandidates bool) []*Result {
	owner := make(map[string]*clusterOutcome)
	seenOrder := make([]string, 0)
	for _, m := range artCtx.Mentions {
		if _, ok := owner[m.Text]; ok {
			continue
		}
		for _, o := range settled {
			if clusterContainsText(o.cluster, m.Text) {
				owner[m.Text] = o
				seenOrder = append(seenOrder, m.Text)
				break
			}
		}
	}

	results := make([]*Result, 0, len(seenOrder))
	for _, text := range seenOrder {
		o := owner[text]
		r := &Result{Text: text, Reason: o.reason}
		if o.chosen != nil {
			prob := o.chosen.Prob
			r.Prob = &prob
			r.Features = o.chosen.Features
			if o.reason == ReasonPredictedLink {
				r.Label = candidateLabel(o.chosen)
				r.Link = o.chosen.Doc.ID
			}
		}
		if o.cl != nil {
			r.Candidates = newCandidateViews(o.cl, includeCandidates)
		}
		results = append(results, r)
	}
	return results
}
