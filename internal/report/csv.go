// Package report persists and summarizes the outcome of an analysis
// run: the result CSV, the product distribution stats, and the
// optional BigQuery sink.
package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dvloznov/product-advisor/internal/advisor"
	"github.com/dvloznov/product-advisor/internal/logger"
)

// Result pairs one client's recommendation with its rendered push
// message.
type Result struct {
	Recommendation advisor.Recommendation
	Message        string
}

var csvHeader = []string{
	"client_id",
	"best_product",
	"top_products",
	"push_notification",
	"total_transactions",
	"avg_balance",
	"total_spending",
	"currency_operations",
	"online_services",
	"outflows_vs_inflows",
}

// WriteCSV writes results to w in input client order.
func WriteCSV(w io.Writer, results []Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("WriteCSV: writing header: %w", err)
	}

	for _, res := range results {
		rec := res.Recommendation
		row := []string{
			rec.ClientID,
			string(rec.Product),
			joinProducts(rec.Shortlist),
			res.Message,
		}
		row = append(row, featureColumns(rec.Features)...)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("WriteCSV: writing row for client %s: %w", rec.ClientID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("WriteCSV: flushing: %w", err)
	}
	return nil
}

// SaveCSV writes results to <outputDir>/result.csv, creating the
// directory if needed.
func SaveCSV(outputDir string, results []Result) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("SaveCSV: creating %q: %w", outputDir, err)
	}
	path := filepath.Join(outputDir, "result.csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("SaveCSV: creating %q: %w", path, err)
	}
	defer f.Close()

	if err := WriteCSV(f, results); err != nil {
		return "", fmt.Errorf("SaveCSV: %w", err)
	}
	return path, nil
}

// featureColumns renders the feature snapshot columns; no-data clients
// get zeros.
func featureColumns(f *advisor.ClientFeatures) []string {
	if f == nil {
		return []string{"0", "0", "0", "0", "0", "0"}
	}
	return []string{
		strconv.Itoa(f.TxCount),
		formatFloat(f.AvgBalance),
		formatFloat(f.TotalOutflow),
		strconv.Itoa(f.CurrencyHits),
		strconv.Itoa(f.OnlineHits),
		formatFloat(f.OutflowRatio),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func joinProducts(products []advisor.Product) string {
	parts := make([]string, len(products))
	for i, p := range products {
		parts[i] = string(p)
	}
	return strings.Join(parts, "|")
}

// Stats counts recommendations per winning product.
func Stats(results []Result) map[advisor.Product]int {
	counts := make(map[advisor.Product]int)
	for _, res := range results {
		counts[res.Recommendation.Product]++
	}
	return counts
}

// LogStats logs the product distribution for a finished run, in
// catalog order so output is stable.
func LogStats(ctx context.Context, results []Result) {
	log := logger.FromContext(ctx)
	counts := Stats(results)
	for _, p := range advisor.Catalog {
		if counts[p] == 0 {
			continue
		}
		log.Info().Str("product", string(p)).Int("clients", counts[p]).Msg("Product distribution")
	}
	log.Info().Int("clients", len(results)).Msg("Analysis complete")
}
