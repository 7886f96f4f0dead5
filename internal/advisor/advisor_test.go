package advisor

import (
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/dvloznov/product-advisor/internal/domain"
	"github.com/dvloznov/product-advisor/internal/store"
)

func newTestAdvisor(seed int64) *Advisor {
	return New(DefaultKeywords(), NewSelectionPolicy(rand.NewSource(seed)))
}

func TestAnalyzeClient_NoRows(t *testing.T) {
	a := newTestAdvisor(1)

	rec := a.AnalyzeClient("c42", nil)
	if rec.ClientID != "c42" {
		t.Errorf("ClientID = %q, want c42", rec.ClientID)
	}
	if rec.Product != DefaultProduct {
		t.Errorf("Product = %s, want %s", rec.Product, DefaultProduct)
	}
	if rec.Features != nil {
		t.Errorf("Features = %+v, want nil", rec.Features)
	}
}

func TestAnalyzeClient_EndToEnd(t *testing.T) {
	a := newTestAdvisor(1)

	// Wealthy saver: investments should win outright.
	rows := make([]domain.Transaction, 0, 20)
	for i := 0; i < 20; i++ {
		amount := 50_000.0
		if i%4 == 0 {
			amount = -5_000
		}
		rows = append(rows, tx("c1", amount, 500_000, "продукты", ""))
	}

	rec := a.AnalyzeClient("c1", rows)
	if rec.Product != Investments {
		t.Errorf("Product = %s, want %s", rec.Product, Investments)
	}
	if rec.Features == nil || rec.Features.TxCount != 20 {
		t.Errorf("Features = %+v, want 20 transactions", rec.Features)
	}
	if len(rec.Shortlist) != ShortlistSize {
		t.Errorf("len(Shortlist) = %d, want %d", len(rec.Shortlist), ShortlistSize)
	}
	if rec.Shortlist[0] != Investments {
		t.Errorf("Shortlist[0] = %s, want %s", rec.Shortlist[0], Investments)
	}
}

func TestAnalyzeAll_FirstSeenOrder(t *testing.T) {
	a := newTestAdvisor(1)

	table := store.NewTable([]domain.Transaction{
		tx("b", -10, math.NaN(), "", ""),
		tx("a", -20, math.NaN(), "", ""),
		tx("b", 30, math.NaN(), "", ""),
		tx("c", -5, math.NaN(), "", ""),
	})

	results := a.AnalyzeAll(table)
	var got []string
	for _, rec := range results {
		got = append(got, rec.ClientID)
	}
	want := []string{"b", "a", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("client order = %v, want %v (first-seen)", got, want)
	}
}

func TestAnalyzeAll_EmptyTable(t *testing.T) {
	a := newTestAdvisor(1)
	if results := a.AnalyzeAll(store.NewTable(nil)); len(results) != 0 {
		t.Errorf("AnalyzeAll on empty table = %d results, want 0", len(results))
	}
}
