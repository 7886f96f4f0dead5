package advisor

import (
	"math"
	"strings"

	"github.com/dvloznov/product-advisor/internal/domain"
)

// ClientFeatures is the fixed-shape behavioral feature vector derived
// from one client's transactions. It is built fresh on every analysis
// call and never mutated afterwards.
type ClientFeatures struct {
	ClientID     string
	TxCount      int
	AvgBalance   float64
	TotalOutflow float64
	TotalInflow  float64
	// OutflowRatio is TotalOutflow / max(TotalInflow, 1). The floor of
	// 1 in the denominator is a fixed convention, not a bug guard that
	// may be removed: a client with zero inflow gets a ratio equal to
	// their outflow.
	OutflowRatio float64
	// Categories maps each distinct category label to its occurrence
	// count.
	Categories map[string]int
	// CurrencyHits counts how many currency keywords occur in the
	// concatenated description text. Presence count: each keyword
	// contributes at most 1 no matter how often it appears.
	CurrencyHits int
	// OnlineHits is the analogous presence count for online-service
	// keywords.
	OnlineHits int
}

// BuildFeatures reduces a client's transaction rows into a
// ClientFeatures record. It is a pure function of its inputs: rows are
// not mutated and no state is shared between calls. A client with no
// rows yields nil, the "no data" sentinel handled by the selection
// policy.
//
// Rows with a NaN amount are excluded from the outflow/inflow sums
// entirely (not treated as zero); rows with a NaN balance are excluded
// from the balance mean.
func BuildFeatures(clientID string, rows []domain.Transaction, kw Keywords) *ClientFeatures {
	if len(rows) == 0 {
		return nil
	}

	f := &ClientFeatures{
		ClientID:   clientID,
		TxCount:    len(rows),
		Categories: make(map[string]int),
	}

	var balanceSum float64
	var balanceN int
	var desc strings.Builder

	for _, row := range rows {
		if row.HasBalance() {
			balanceSum += row.Balance
			balanceN++
		}
		if row.HasAmount() {
			if row.Amount < 0 {
				f.TotalOutflow += -row.Amount
			} else if row.Amount > 0 {
				f.TotalInflow += row.Amount
			}
		}
		if row.Category != "" {
			f.Categories[row.Category]++
		}
		if row.Description != "" {
			if desc.Len() > 0 {
				desc.WriteByte(' ')
			}
			desc.WriteString(row.Description)
		}
	}

	if balanceN > 0 {
		f.AvgBalance = balanceSum / float64(balanceN)
	}
	f.OutflowRatio = f.TotalOutflow / math.Max(f.TotalInflow, 1)

	blob := strings.ToLower(desc.String())
	f.CurrencyHits = countPresent(blob, kw.CurrencyDesc)
	f.OnlineHits = countPresent(blob, kw.OnlineDesc)

	return f
}

// countPresent counts how many of the keywords occur in text at least
// once.
func countPresent(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			n++
		}
	}
	return n
}

// containsAny reports whether the label contains any of the keywords
// as a substring.
func containsAny(label string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(label, kw) {
			return true
		}
	}
	return false
}
