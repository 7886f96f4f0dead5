package domain

import (
	"math"
	"time"
)

// Transaction represents one normalized transaction row produced by the
// store. This is a domain struct, not a CSV or BigQuery row; the store
// resolves column aliases and coerces raw values before building it, so
// downstream code never inspects the original file schema.
type Transaction struct {
	ClientID    string    // required; rows without a client id never reach here
	Date        time.Time // zero when the source value was absent or unparseable
	Amount      float64   // signed (negative = outflow); NaN when malformed
	Balance     float64   // balance snapshot; NaN when absent or malformed
	Category    string    // lower-cased, trimmed; may be empty
	Description string    // free text; may be empty
	SourceFile  string    // basename of the file the row came from
}

// HasAmount reports whether the amount survived numeric coercion.
func (t Transaction) HasAmount() bool {
	return !math.IsNaN(t.Amount)
}

// HasBalance reports whether a usable balance snapshot is present.
func (t Transaction) HasBalance() bool {
	return !math.IsNaN(t.Balance)
}
