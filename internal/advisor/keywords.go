package advisor

// Keywords holds the trigger-token sets the feature aggregation and
// scoring rules match against category labels and description text.
// The sets are configuration, not scoring logic: rules take them as
// input so the lists can be tested and extended independently of the
// arithmetic. Tokens are matched as lower-case substrings.
type Keywords struct {
	// Travel matches taxi/hotel/travel category labels.
	Travel []string
	// Premium matches restaurant/cosmetics/jewelry category labels.
	Premium []string
	// CurrencyCategory matches currency-denominated category labels.
	CurrencyCategory []string
	// CurrencyDesc is counted against the concatenated description
	// blob (currency-keyword hit count).
	CurrencyDesc []string
	// OnlineDesc is counted against the concatenated description blob
	// (online-service-keyword hit count).
	OnlineDesc []string
}

// DefaultKeywords returns the production token sets. The lists carry
// both Russian and English spellings because source data mixes them.
func DefaultKeywords() Keywords {
	return Keywords{
		Travel: []string{
			"такси", "taxi", "отель", "hotel",
			"путешествие", "travel", "авиабилет", "билет",
		},
		Premium: []string{
			"ресторан", "restaurant", "кафе", "cafe",
			"косметика", "cosmetics", "парфюм", "perfume",
			"ювелирные", "jewelry", "золото", "gold", "украшения",
		},
		CurrencyCategory: []string{
			"usd", "eur", "доллар", "евро", "валюта",
		},
		CurrencyDesc: []string{
			"usd", "eur", "доллар", "евро", "fx_buy", "fx_sell",
		},
		OnlineDesc: []string{
			"онлайн", "online", "подписка", "subscription",
		},
	}
}
