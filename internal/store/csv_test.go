package store

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestResolveSchema(t *testing.T) {
	tests := []struct {
		name    string
		header  []string
		want    schema
		wantErr error
	}{
		{
			name:   "canonical names",
			header: []string{"client_id", "date", "amount", "balance", "category", "description"},
			want:   schema{client: 0, date: 1, amount: 2, balance: 3, category: 4, description: 5},
		},
		{
			name:   "alias names",
			header: []string{"user_id", "transaction_date", "sum", "merchant"},
			want:   schema{client: 0, date: 1, amount: 2, category: 3, balance: -1, description: -1},
		},
		{
			name:   "case and whitespace insensitive",
			header: []string{" Client_ID ", "AMOUNT"},
			want:   schema{client: 0, amount: 1, balance: -1, category: -1, description: -1, date: -1},
		},
		{
			name:   "earlier alias wins",
			header: []string{"client_id", "merchant", "category"},
			want:   schema{client: 0, category: 2, amount: -1, balance: -1, description: -1, date: -1},
		},
		{
			name:    "no client column",
			header:  []string{"amount", "balance"},
			wantErr: ErrNoClientColumn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveSchema(tt.header)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("resolveSchema error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveSchema: %v", err)
			}
			if got != tt.want {
				t.Errorf("resolveSchema = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseCSV(t *testing.T) {
	input := strings.Join([]string{
		"user_id,transaction_date,sum,merchant,description,balance",
		"1,2024-03-15,-1500.50,Такси,Поездка,25000",
		"1,2024-03-16,\"₸2 300,75\",Продукты,,24000",
		"2,2024-03-17,abc,Кафе,Обед,oops",
		",2024-03-18,-10,Метро,,100",
		"3,,-42,,,",
	}, "\n")

	rows, err := ParseCSV(strings.NewReader(input), "test.csv")
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}

	// Row with empty client id is dropped.
	if len(rows) != 4 {
		t.Fatalf("len(rows) = %d, want 4", len(rows))
	}

	first := rows[0]
	if first.ClientID != "1" {
		t.Errorf("ClientID = %q, want 1", first.ClientID)
	}
	if first.Amount != -1500.50 {
		t.Errorf("Amount = %v, want -1500.50", first.Amount)
	}
	if first.Balance != 25000 {
		t.Errorf("Balance = %v, want 25000", first.Balance)
	}
	if first.Category != "такси" {
		t.Errorf("Category = %q, want lower-cased такси", first.Category)
	}
	if want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC); !first.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", first.Date, want)
	}
	if first.SourceFile != "test.csv" {
		t.Errorf("SourceFile = %q, want test.csv", first.SourceFile)
	}

	// Currency symbol, space separator and decimal comma are cleaned.
	if rows[1].Amount != 2300.75 {
		t.Errorf("cleaned Amount = %v, want 2300.75", rows[1].Amount)
	}

	// Malformed numerics come back as NaN, not zero.
	if !math.IsNaN(rows[2].Amount) {
		t.Errorf("malformed Amount = %v, want NaN", rows[2].Amount)
	}
	if !math.IsNaN(rows[2].Balance) {
		t.Errorf("malformed Balance = %v, want NaN", rows[2].Balance)
	}

	// Absent date stays zero.
	if !rows[3].Date.IsZero() {
		t.Errorf("Date = %v, want zero time", rows[3].Date)
	}
}

func TestParseCSV_NoClientColumn(t *testing.T) {
	input := "amount,balance\n-10,100\n"
	_, err := ParseCSV(strings.NewReader(input), "broken.csv")
	if !errors.Is(err, ErrNoClientColumn) {
		t.Errorf("ParseCSV error = %v, want ErrNoClientColumn", err)
	}
}

func TestParseCSV_RaggedRows(t *testing.T) {
	// Records shorter than the header must not panic; missing fields
	// read as absent.
	input := "client_id,amount,balance\n1,-10\n2\n"
	rows, err := ParseCSV(strings.NewReader(input), "ragged.csv")
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if !math.IsNaN(rows[0].Balance) {
		t.Errorf("Balance = %v, want NaN for missing field", rows[0].Balance)
	}
	if !math.IsNaN(rows[1].Amount) {
		t.Errorf("Amount = %v, want NaN for missing field", rows[1].Amount)
	}
}

func TestParseNumeric(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"1500", 1500},
		{"-1500.50", -1500.50},
		{"2 300,75", 2300.75},
		{"₸12 000", 12000},
		{"$99.90", 99.90},
		{"", math.NaN()},
		{"abc", math.NaN()},
		{"12.34.56", math.NaN()},
		{"-", math.NaN()},
	}

	for _, tt := range tests {
		got := parseNumeric(tt.raw)
		if math.IsNaN(tt.want) {
			if !math.IsNaN(got) {
				t.Errorf("parseNumeric(%q) = %v, want NaN", tt.raw, got)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("parseNumeric(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2024-03-15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"2024-03-15 10:30:00", time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)},
		{"15.03.2024", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"15/03/2024", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"not a date", time.Time{}},
		{"", time.Time{}},
	}

	for _, tt := range tests {
		if got := parseDate(tt.raw); !got.Equal(tt.want) {
			t.Errorf("parseDate(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestNewTable_FirstSeenOrder(t *testing.T) {
	rows, err := ParseCSV(strings.NewReader(strings.Join([]string{
		"client_id,amount",
		"b,-1",
		"a,-2",
		"b,-3",
		"c,-4",
		"a,-5",
	}, "\n")), "t.csv")
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}

	table := NewTable(rows)
	if want := []string{"b", "a", "c"}; !reflect.DeepEqual(table.ClientOrder, want) {
		t.Errorf("ClientOrder = %v, want %v", table.ClientOrder, want)
	}
	if got := len(table.ClientRows("b")); got != 2 {
		t.Errorf("len(ClientRows(b)) = %d, want 2", got)
	}
	if got := table.ClientRows("unknown"); got != nil {
		t.Errorf("ClientRows(unknown) = %v, want nil", got)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.csv", "client_id,amount\n2,-20\n")
	writeFile(t, dir, "a.csv", "client_id,amount\n1,-10\n")
	writeFile(t, dir, "notes.txt", "ignored\n")

	ctx := context.Background()
	table, err := LoadDir(ctx, dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}

	// Files load in sorted name order, so client 1 comes first.
	if want := []string{"1", "2"}; !reflect.DeepEqual(table.ClientOrder, want) {
		t.Errorf("ClientOrder = %v, want %v", table.ClientOrder, want)
	}
}

func TestLoadDir_SkipsBadFilesButFailsOnMissingClientColumn(t *testing.T) {
	ctx := context.Background()

	t.Run("unparseable file skipped", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "good.csv", "client_id,amount\n1,-10\n")
		// Unterminated quote makes the second record unparseable.
		writeFile(t, dir, "bad.csv", "client_id,amount\n\"1,-10\n")

		table, err := LoadDir(ctx, dir)
		if err != nil {
			t.Fatalf("LoadDir: %v", err)
		}
		if len(table.ClientOrder) != 1 {
			t.Errorf("clients = %v, want just the good file's", table.ClientOrder)
		}
	})

	t.Run("missing client column fails the run", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "good.csv", "client_id,amount\n1,-10\n")
		writeFile(t, dir, "orphan.csv", "amount,balance\n-10,100\n")

		_, err := LoadDir(ctx, dir)
		if !errors.Is(err, ErrNoClientColumn) {
			t.Errorf("LoadDir error = %v, want ErrNoClientColumn", err)
		}
	})

	t.Run("empty directory", func(t *testing.T) {
		_, err := LoadDir(ctx, t.TempDir())
		if err == nil {
			t.Error("LoadDir on empty dir = nil error, want failure")
		}
	})
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
