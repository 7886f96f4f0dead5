package notify

import (
	"strings"
	"testing"

	"github.com/dvloznov/product-advisor/internal/advisor"
)

func rec(p advisor.Product, f *advisor.ClientFeatures) advisor.Recommendation {
	return advisor.Recommendation{ClientID: "c1", Product: p, Features: f}
}

func TestRender_EveryProductPassesValidation(t *testing.T) {
	for _, p := range advisor.Catalog {
		msg := Render(rec(p, nil))
		if report := Validate(msg); !report.OK() {
			t.Errorf("Render(%s) = %q failed validation: %+v", p, msg, report)
		}
	}
}

func TestRender_Personalization(t *testing.T) {
	tests := []struct {
		name     string
		rec      advisor.Recommendation
		contains string
		excludes string
	}{
		{
			name:     "travel with currency activity",
			rec:      rec(advisor.TravelCard, &advisor.ClientFeatures{CurrencyHits: 2}),
			contains: "покупки в валюте",
		},
		{
			name:     "travel without currency activity",
			rec:      rec(advisor.TravelCard, &advisor.ClientFeatures{}),
			excludes: "покупки в валюте",
		},
		{
			name:     "travel with no features",
			rec:      rec(advisor.TravelCard, nil),
			excludes: "покупки в валюте",
		},
		{
			name:     "premium with high balance",
			rec:      rec(advisor.PremiumCard, &advisor.ClientFeatures{AvgBalance: 150_000}),
			contains: "VIP",
		},
		{
			name:     "premium with modest balance",
			rec:      rec(advisor.PremiumCard, &advisor.ClientFeatures{AvgBalance: 50_000}),
			excludes: "VIP",
		},
		{
			name:     "credit card mentions grace period",
			rec:      rec(advisor.CreditCard, nil),
			contains: "55 дней",
		},
		{
			name:     "multicurrency deposit names currencies",
			rec:      rec(advisor.DepositMulticurrency, nil),
			contains: "USD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := Render(tt.rec)
			if tt.contains != "" && !strings.Contains(msg, tt.contains) {
				t.Errorf("Render = %q, want substring %q", msg, tt.contains)
			}
			if tt.excludes != "" && strings.Contains(msg, tt.excludes) {
				t.Errorf("Render = %q, want without substring %q", msg, tt.excludes)
			}
		})
	}
}

func TestRender_UnknownProductFallsBack(t *testing.T) {
	msg := Render(rec(advisor.Product("mystery_product"), nil))
	if !strings.Contains(msg, fallbackMessage) {
		t.Errorf("Render = %q, want fallback text", msg)
	}
	if !Validate(msg).OK() {
		t.Errorf("fallback message %q failed validation", msg)
	}
}

func TestRender_NoVerbArtifacts(t *testing.T) {
	// Literal percent signs in templates must render cleanly.
	for _, p := range advisor.Catalog {
		msg := Render(rec(p, &advisor.ClientFeatures{CurrencyHits: 1, AvgBalance: 500_000}))
		if strings.Contains(msg, "%!") || strings.Contains(msg, "NOVERB") {
			t.Errorf("Render(%s) = %q contains a formatting artifact", p, msg)
		}
	}
}
