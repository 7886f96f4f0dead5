package advisor

// ProductScores maps every catalog product to a non-negative score.
type ProductScores map[Product]float64

// Score computes a score for each product in the catalog from one
// client's features. Every product has its own rule function; rules
// read only the feature vector and the keyword configuration, never
// each other's results, so each is independently testable.
//
// The caller must not pass nil features: the "no data" case is the
// selection policy's default path and short-circuits scoring entirely.
func Score(f *ClientFeatures, kw Keywords) ProductScores {
	depositScore := scoreDeposits(f)
	return ProductScores{
		TravelCard:           scoreTravelCard(f, kw),
		PremiumCard:          scorePremiumCard(f, kw),
		CreditCard:           scoreCreditCard(f),
		CurrencyExchange:     scoreCurrencyExchange(f, kw),
		DepositSavings:       depositScore,
		DepositMulticurrency: depositScore,
		Investments:          scoreInvestments(f),
		CashLoan:             scoreCashLoan(f),
	}
}

// scoreTravelCard rewards travel-flavored spending and currency usage.
func scoreTravelCard(f *ClientFeatures, kw Keywords) float64 {
	var score float64
	for category, count := range f.Categories {
		if containsAny(category, kw.Travel) {
			score += float64(count) * 3
		}
	}
	score += float64(f.CurrencyHits) * 4
	if f.CurrencyHits > 3 {
		score += 10
	}
	return score
}

// scorePremiumCard rewards a high balance and premium spending
// categories.
func scorePremiumCard(f *ClientFeatures, kw Keywords) float64 {
	var score float64
	if f.AvgBalance > 200_000 {
		score += 15
	} else if f.AvgBalance > 100_000 {
		score += 8
	}
	for category, count := range f.Categories {
		if containsAny(category, kw.Premium) {
			score += float64(count) * 4
		}
	}
	return score
}

// scoreCreditCard rewards online-service usage and spending diversity.
func scoreCreditCard(f *ClientFeatures) float64 {
	var score float64
	score += float64(f.OnlineHits) * 3
	if f.OnlineHits > 5 {
		score += 8
	}
	if len(f.Categories) > 5 {
		score += 6
	} else if len(f.Categories) > 3 {
		score += 3
	}
	if f.TxCount > 100 {
		score += 5
	}
	return score
}

// scoreCurrencyExchange rewards frequent currency operations.
func scoreCurrencyExchange(f *ClientFeatures, kw Keywords) float64 {
	var score float64
	if f.CurrencyHits > 5 {
		score += 15
	} else if f.CurrencyHits > 2 {
		score += float64(f.CurrencyHits) * 3
	}
	for category, count := range f.Categories {
		if containsAny(category, kw.CurrencyCategory) {
			score += float64(count) * 2
		}
	}
	return score
}

// scoreDeposits rewards free funds and a stable balance. Both deposit
// variants share this score.
func scoreDeposits(f *ClientFeatures) float64 {
	var score float64
	if f.AvgBalance > 100_000 && f.OutflowRatio < 0.8 {
		score += 12
	} else if f.AvgBalance > 50_000 && f.OutflowRatio < 1.0 {
		score += 8
	} else if f.AvgBalance > 30_000 {
		score += 4
	}
	if f.TxCount > 80 && f.OutflowRatio < 1.2 {
		score += 5
	}
	return score
}

// scoreInvestments rewards a very high balance with low spending
// relative to it.
func scoreInvestments(f *ClientFeatures) float64 {
	var score float64
	if f.AvgBalance > 300_000 {
		score += 15
	} else if f.AvgBalance > 150_000 {
		score += 8
	}
	if f.AvgBalance > 100_000 && f.OutflowRatio < 0.6 {
		score += 10
	}
	if f.TxCount > 100 && f.OutflowRatio < 1.0 {
		score += 5
	}
	return score
}

// scoreCashLoan rewards spending that outpaces income.
func scoreCashLoan(f *ClientFeatures) float64 {
	var score float64
	if f.OutflowRatio > 2.0 {
		score += 15
	} else if f.OutflowRatio > 1.5 {
		score += 10
	} else if f.OutflowRatio > 1.2 {
		score += 5
	}
	if f.TxCount > 100 && f.OutflowRatio > 1.3 {
		score += 8
	}
	if f.AvgBalance < 50_000 && f.OutflowRatio > 1.5 {
		score += 6
	}
	return score
}
