// Package datagen produces synthetic transaction CSVs for exercising
// the analysis pipeline end to end without real client data.
package datagen

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// profile steers a synthetic client's balance range, spending pattern
// and category mix so every product has clients that plausibly earn
// it.
type profile string

const (
	profileTravel      profile = "travel"
	profilePremium     profile = "premium"
	profileCredit      profile = "credit"
	profileCurrency    profile = "currency"
	profileDeposits    profile = "deposits"
	profileInvestments profile = "investments"
	profileLoan        profile = "loan"
)

var profiles = []profile{
	profileTravel, profilePremium, profileCredit, profileCurrency,
	profileDeposits, profileInvestments, profileLoan,
}

var baseCategories = []string{
	"продукты", "супермаркет", "магазин", "транспорт", "бензин", "автобус", "метро",
	"ресторан", "кафе", "такси", "uber", "yandex", "отель", "hotel",
	"путешествие", "travel", "авиабилет", "билет", "туризм", "отдых",
	"косметика", "cosmetics", "парфюм", "perfume", "ювелирные", "jewelry",
	"золото", "gold", "украшения", "люкс", "luxury", "премиум", "premium",
	"онлайн", "online", "подписка", "subscription", "стриминг", "streaming",
	"игры", "games", "приложения", "apps", "софт", "software",
	"usd", "eur", "доллар", "евро", "валюта", "fx_buy", "fx_sell",
	"обмен валют", "currency exchange", "конвертация", "conversion",
	"развлечения", "entertainment", "спорт", "sport", "фитнес", "fitness",
	"здоровье", "health", "образование", "education", "книги", "books", "музыка", "music",
}

var profileCategories = map[profile][]string{
	profileTravel: {
		"такси", "uber", "yandex", "отель", "hotel", "путешествие",
		"travel", "авиабилет", "билет", "туризм", "отдых",
	},
	profilePremium: {
		"ресторан", "кафе", "косметика", "cosmetics", "парфюм", "perfume",
		"ювелирные", "jewelry", "золото", "gold", "украшения", "люкс",
		"luxury", "премиум", "premium",
	},
	profileCredit: {
		"онлайн", "online", "подписка", "subscription", "стриминг",
		"streaming", "игры", "games", "приложения", "apps", "софт", "software",
	},
	profileCurrency: {
		"usd", "eur", "доллар", "евро", "валюта", "fx_buy", "fx_sell",
		"обмен валют", "currency exchange", "конвертация", "conversion",
	},
}

var profileCategoryChance = map[profile]float64{
	profileTravel:   0.4,
	profilePremium:  0.3,
	profileCredit:   0.5,
	profileCurrency: 0.3,
}

// Generate writes numClients synthetic clients' transactions as CSV to
// w. The output schema matches real exports (client_id,
// transaction_date, amount, category, description, balance, merchant,
// type). Deterministic for a given rng.
func Generate(w io.Writer, rng *rand.Rand, numClients int) (int, error) {
	cw := csv.NewWriter(w)
	header := []string{
		"client_id", "transaction_date", "amount", "category",
		"description", "balance", "merchant", "type",
	}
	if err := cw.Write(header); err != nil {
		return 0, fmt.Errorf("Generate: writing header: %w", err)
	}

	now := time.Now()
	total := 0
	for clientID := 1; clientID <= numClients; clientID++ {
		p := profiles[(clientID-1)%len(profiles)]
		balance := startingBalance(rng, p)
		n := poisson(rng, 100)

		for i := 0; i < n; i++ {
			daysAgo := rng.Intn(180)
			date := now.AddDate(0, 0, -daysAgo)
			amount := drawAmount(rng, p)
			category := drawCategory(rng, p)

			balance += amount
			if balance < 0 {
				balance = 0
			}

			row := []string{
				strconv.Itoa(clientID),
				date.Format("2006-01-02"),
				strconv.FormatFloat(amount, 'f', 2, 64),
				category,
				fmt.Sprintf("Транзакция %s на сумму %.2f", category, math.Abs(amount)),
				strconv.FormatFloat(balance, 'f', 2, 64),
				fmt.Sprintf("Merchant_%d", rng.Intn(100)+1),
				txType(amount),
			}
			if err := cw.Write(row); err != nil {
				return total, fmt.Errorf("Generate: writing row: %w", err)
			}
			total++
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return total, fmt.Errorf("Generate: flushing: %w", err)
	}
	return total, nil
}

// Save generates into <dir>/transactions.csv and returns the path and
// row count.
func Save(dir string, rng *rand.Rand, numClients int) (string, int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("Save: creating %q: %w", dir, err)
	}
	path := filepath.Join(dir, "transactions.csv")
	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("Save: creating %q: %w", path, err)
	}
	defer f.Close()

	n, err := Generate(f, rng, numClients)
	if err != nil {
		return "", n, fmt.Errorf("Save: %w", err)
	}
	return path, n, nil
}

func startingBalance(rng *rand.Rand, p profile) float64 {
	switch p {
	case profilePremium:
		return uniform(rng, 200_000, 800_000)
	case profileInvestments:
		return uniform(rng, 300_000, 1_000_000)
	case profileLoan:
		return uniform(rng, 5_000, 50_000)
	case profileDeposits:
		return uniform(rng, 80_000, 200_000)
	default:
		return uniform(rng, 20_000, 300_000)
	}
}

func drawAmount(rng *rand.Rand, p profile) float64 {
	switch p {
	case profileLoan:
		// Spending outpaces income.
		if rng.Float64() < 0.7 {
			return -uniform(rng, 5_000, 30_000)
		}
		return uniform(rng, 10_000, 50_000)
	case profileInvestments:
		if rng.Float64() < 0.3 {
			return -uniform(rng, 1_000, 15_000)
		}
		return uniform(rng, 20_000, 100_000)
	case profilePremium:
		if rng.Float64() < 0.6 {
			return -uniform(rng, 5_000, 50_000)
		}
		return uniform(rng, 30_000, 150_000)
	default:
		amount := rng.NormFloat64() * 10_000
		if amount > 0 {
			return math.Min(amount, 100_000)
		}
		return math.Max(amount, -50_000)
	}
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func drawCategory(rng *rand.Rand, p profile) string {
	if cats, ok := profileCategories[p]; ok && rng.Float64() < profileCategoryChance[p] {
		return cats[rng.Intn(len(cats))]
	}
	return baseCategories[rng.Intn(len(baseCategories))]
}

func txType(amount float64) string {
	if amount < 0 {
		return "debit"
	}
	return "credit"
}

// poisson draws from a Poisson distribution via Knuth's method. Fine
// for mean ~100 at generation-time scale.
func poisson(rng *rand.Rand, mean float64) int {
	l := math.Exp(-mean)
	k := 0
	p := 1.0
	for {
		p *= rng.Float64()
		if p <= l {
			return k
		}
		k++
	}
}
