package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dvloznov/product-advisor/internal/domain"
	"github.com/dvloznov/product-advisor/internal/logger"
)

// Table is the normalized transaction table handed to the advisor.
// Rows keep input order; ClientOrder lists distinct client ids in
// first-seen order, which fixes the iteration and output order of a
// run.
type Table struct {
	Rows        []domain.Transaction
	ClientOrder []string

	byClient map[string][]domain.Transaction
}

// NewTable builds a Table from normalized rows.
func NewTable(rows []domain.Transaction) *Table {
	t := &Table{
		Rows:     rows,
		byClient: make(map[string][]domain.Transaction),
	}
	for _, row := range rows {
		if _, seen := t.byClient[row.ClientID]; !seen {
			t.ClientOrder = append(t.ClientOrder, row.ClientID)
		}
		t.byClient[row.ClientID] = append(t.byClient[row.ClientID], row)
	}
	return t
}

// ClientRows returns the rows whose client id exactly matches id.
// Unknown ids yield nil, the no-data case.
func (t *Table) ClientRows(id string) []domain.Transaction {
	return t.byClient[id]
}

// LoadDir discovers every *.csv file in dir (sorted by name), parses
// and cleans each, and concatenates the results into one Table. A file
// that cannot be opened or read is logged and skipped; a file whose
// header lacks a client-identifier column fails the whole run, since
// its rows could never be attributed.
func LoadDir(ctx context.Context, dir string) (*Table, error) {
	log := logger.FromContext(ctx)

	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("LoadDir: glob %q: %w", dir, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("LoadDir: no csv files in %q", dir)
	}
	sort.Strings(paths)

	var rows []domain.Transaction
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("Skipping unreadable file")
			continue
		}
		fileRows, err := ParseCSV(f, filepath.Base(path))
		f.Close()
		if err != nil {
			if errors.Is(err, ErrNoClientColumn) {
				return nil, fmt.Errorf("LoadDir: %s: %w", path, err)
			}
			log.Warn().Err(err).Str("file", path).Msg("Skipping unparseable file")
			continue
		}
		log.Info().Str("file", path).Int("rows", len(fileRows)).Msg("Loaded file")
		rows = append(rows, fileRows...)
	}

	table := NewTable(rows)
	log.Info().
		Int("rows", len(table.Rows)).
		Int("clients", len(table.ClientOrder)).
		Msg("Transaction table ready")
	return table, nil
}

// ParseCSV reads one CSV stream into normalized transaction rows.
// Cleaning rules:
//   - numeric fields are stripped of currency symbols, "," becomes
//     "."; values that still fail to parse become NaN so aggregation
//     can exclude them rather than count them as zero
//   - category labels are lower-cased and trimmed
//   - rows with an empty client id are dropped
//   - dates that match none of the accepted layouts stay zero
func ParseCSV(r io.Reader, sourceFile string) ([]domain.Transaction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("ParseCSV: reading header: %w", err)
	}
	s, err := resolveSchema(header)
	if err != nil {
		return nil, fmt.Errorf("ParseCSV: %w", err)
	}

	var rows []domain.Transaction
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ParseCSV: reading record: %w", err)
		}

		clientID := strings.TrimSpace(field(record, s.client))
		if clientID == "" {
			continue
		}

		rows = append(rows, domain.Transaction{
			ClientID:    clientID,
			Date:        parseDate(field(record, s.date)),
			Amount:      parseNumeric(field(record, s.amount)),
			Balance:     parseNumeric(field(record, s.balance)),
			Category:    strings.ToLower(strings.TrimSpace(field(record, s.category))),
			Description: strings.TrimSpace(field(record, s.description)),
			SourceFile:  sourceFile,
		})
	}
	return rows, nil
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}

// numericJunk matches everything that is not a digit, sign, dot or
// comma: currency symbols, spaces, thousands separators.
var numericJunk = regexp.MustCompile(`[^\d.,\-]`)

// parseNumeric coerces a raw numeric string. Absent or malformed
// values come back as NaN, the "not a number" sentinel the aggregator
// excludes from sums and means.
func parseNumeric(raw string) float64 {
	cleaned := numericJunk.ReplaceAllString(raw, "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	if cleaned == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02.01.2006",
	"02/01/2006",
}

func parseDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
