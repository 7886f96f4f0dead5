package advisor

import (
	"math/rand"
	"sort"
)

const (
	// minConfidence is the score a winner must reach; below it the
	// default product is recommended instead of the computed ranking.
	minConfidence = 2
	// nearTieGap is the score distance under which the top two ranked
	// products count as a near-tie.
	nearTieGap = 3
	// nearTieOverrideProb is the chance the runner-up wins a near-tie.
	nearTieOverrideProb = 0.3
)

// RankedProduct is one entry of a descending ranking.
type RankedProduct struct {
	Product Product
	Score   float64
}

// Recommendation is the outcome of one client evaluation: the winning
// product, the pre-override top-4 shortlist, and the feature vector
// the decision was made from (nil for no-data clients).
type Recommendation struct {
	ClientID  string
	Product   Product
	Shortlist []Product
	Features  *ClientFeatures
}

// SelectionPolicy turns product scores into a recommendation. The
// random source is an explicit dependency so near-tie behavior is
// reproducible in tests; it is the only state the policy carries.
type SelectionPolicy struct {
	rng *rand.Rand
}

// NewSelectionPolicy creates a policy drawing near-tie decisions from
// src.
func NewSelectionPolicy(src rand.Source) *SelectionPolicy {
	return &SelectionPolicy{rng: rand.New(src)}
}

// Rank orders the catalog by descending score. Ties keep catalog
// declaration order (stable sort over the catalog slice).
func Rank(scores ProductScores) []RankedProduct {
	ranking := make([]RankedProduct, 0, len(Catalog))
	for _, p := range Catalog {
		ranking = append(ranking, RankedProduct{Product: p, Score: scores[p]})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Score > ranking[j].Score
	})
	return ranking
}

// Select picks the winning product and shortlist for one client.
//
// No-data clients (nil or zero-transaction features) and clients whose
// best score is below the confidence floor both resolve to the default
// product with the fixed default shortlist, deterministically. For
// everyone else the shortlist is the top four of the ranking; if the
// top two scores are within the near-tie gap, the runner-up wins with
// probability nearTieOverrideProb. The override affects only the
// winner, never the shortlist.
func (p *SelectionPolicy) Select(f *ClientFeatures, scores ProductScores) Recommendation {
	if f == nil || f.TxCount == 0 {
		return Recommendation{
			ClientID:  clientIDOf(f),
			Product:   DefaultProduct,
			Shortlist: defaultShortlist(),
			Features:  f,
		}
	}

	ranking := Rank(scores)

	if ranking[0].Score < minConfidence {
		return Recommendation{
			ClientID:  f.ClientID,
			Product:   DefaultProduct,
			Shortlist: defaultShortlist(),
			Features:  f,
		}
	}

	shortlist := make([]Product, 0, ShortlistSize)
	for _, r := range ranking[:ShortlistSize] {
		shortlist = append(shortlist, r.Product)
	}

	winner := ranking[0].Product
	if ranking[0].Score-ranking[1].Score < nearTieGap {
		if p.rng.Float64() < nearTieOverrideProb {
			winner = ranking[1].Product
		}
	}

	return Recommendation{
		ClientID:  f.ClientID,
		Product:   winner,
		Shortlist: shortlist,
		Features:  f,
	}
}

func defaultShortlist() []Product {
	out := make([]Product, len(DefaultShortlist))
	copy(out, DefaultShortlist)
	return out
}

func clientIDOf(f *ClientFeatures) string {
	if f == nil {
		return ""
	}
	return f.ClientID
}
