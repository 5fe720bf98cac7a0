package linking

// Result is the outcome of linking one mention (spec §3/§6).
type Result struct {
	Text     string             `json:"text"`
	Reason   string             `json:"reason"`
	Prob     *float64           `json:"prob,omitempty"`
	Link     string             `json:"link,omitempty"`
	Label    string             `json:"label,omitempty"`
	Features map[string]float64 `json:"features,omitempty"`

	Candidates []CandidateView `json:"candidates,omitempty"`
}

// CandidateView is the externally-visible snapshot of one ranked
// candidate, included in a Result when full candidate listing was
// requested.
type CandidateView struct {
	ID       string             `json:"id"`
	Prob     float64            `json:"prob"`
	Features map[string]float64 `json:"features"`
	Document interface{}        `json:"document"`
}

// Output is the top-level API response envelope (spec §6).
type Output struct {
	Status    string    `json:"status"`
	Message   string    `json:"message,omitempty"`
	LinkedNEs []*Result `json:"linkedNEs,omitempty"`
}

// Reason strings, verbatim from spec §4.8/§8.
const (
	ReasonInvalidEntity      = "Invalid entity"
	ReasonNothingFound       = "Nothing found"
	ReasonNameOrDateConflict = "Name or date conflict"
	ReasonPredictedLink      = "Predicted link"
	ReasonProbabilityTooLow  = "Probability too low for: "
)

func newCandidateViews(cl *CandidateList, includeAll bool) []CandidateView {
	var cands []*Candidate
	if includeAll {
		cands = cl.Ranked()
	}
	views := make([]CandidateView, 0, len(cands))
	for _, c := range cands {
		views = append(views, CandidateView{
			ID:       c.Doc.ID,
			Prob:     c.Prob,
			Features: c.Features,
			Document: c.Doc,
		})
	}
	return views
}
