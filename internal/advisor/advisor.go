package advisor

import (
	"github.com/dvloznov/product-advisor/internal/domain"
	"github.com/dvloznov/product-advisor/internal/store"
)

// Advisor evaluates clients one at a time: aggregate features, score
// the catalog, select a winner. Evaluations share no mutable state
// beyond the policy's random source, so a failed or empty client never
// affects the next one.
type Advisor struct {
	keywords Keywords
	policy   *SelectionPolicy
}

// New creates an Advisor with the given keyword configuration and
// selection policy.
func New(kw Keywords, policy *SelectionPolicy) *Advisor {
	return &Advisor{keywords: kw, policy: policy}
}

// AnalyzeClient evaluates a single client from its transaction rows.
// Zero rows is not an error: the result is the default recommendation.
func (a *Advisor) AnalyzeClient(clientID string, rows []domain.Transaction) Recommendation {
	features := BuildFeatures(clientID, rows, a.keywords)
	if features == nil {
		// No data: skip scoring entirely, no randomness involved.
		rec := a.policy.Select(nil, nil)
		rec.ClientID = clientID
		return rec
	}
	scores := Score(features, a.keywords)
	return a.policy.Select(features, scores)
}

// AnalyzeAll evaluates every distinct client in the table, in
// first-seen order of client ids.
func (a *Advisor) AnalyzeAll(table *store.Table) []Recommendation {
	results := make([]Recommendation, 0, len(table.ClientOrder))
	for _, clientID := range table.ClientOrder {
		results = append(results, a.AnalyzeClient(clientID, table.ClientRows(clientID)))
	}
	return results
}
