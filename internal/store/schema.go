package store

import (
	"errors"
	"strings"
)

// ErrNoClientColumn is returned when a file's header has no
// client-identifier column under any known alias. Without a join key
// the whole run cannot proceed.
var ErrNoClientColumn = errors.New("store: no client identifier column found")

// Candidate header names per logical column. Source exports disagree
// on naming, so resolution happens once here, at ingestion; downstream
// code only ever sees the normalized domain.Transaction shape.
var (
	clientAliases      = []string{"client_id", "user_id", "customer_id"}
	amountAliases      = []string{"amount", "sum", "value", "price"}
	balanceAliases     = []string{"balance"}
	categoryAliases    = []string{"category", "type", "merchant"}
	descriptionAliases = []string{"description"}
	dateAliases        = []string{"date", "transaction_date", "created_at", "timestamp"}
)

// schema maps logical columns to indexes in one file's header. An
// index of -1 means the column is absent; only the client column is
// mandatory.
type schema struct {
	client      int
	amount      int
	balance     int
	category    int
	description int
	date        int
}

// resolveSchema matches a CSV header against the known aliases.
func resolveSchema(header []string) (schema, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}

	s := schema{
		client:      findColumn(index, clientAliases),
		amount:      findColumn(index, amountAliases),
		balance:     findColumn(index, balanceAliases),
		category:    findColumn(index, categoryAliases),
		description: findColumn(index, descriptionAliases),
		date:        findColumn(index, dateAliases),
	}
	if s.client < 0 {
		return schema{}, ErrNoClientColumn
	}
	return s, nil
}

func findColumn(index map[string]int, aliases []string) int {
	for _, alias := range aliases {
		if i, ok := index[alias]; ok {
			return i
		}
	}
	return -1
}
